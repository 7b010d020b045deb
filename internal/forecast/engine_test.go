package forecast

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowcast-dev/flowcast/internal/model"
	"github.com/flowcast-dev/flowcast/internal/recurring"
)

func txn(id string, date time.Time, amount, description, merchant string) model.Transaction {
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		panic(err)
	}
	return model.Transaction{
		ID:          id,
		BookedAt:    date,
		Amount:      amt,
		Description: description,
		Merchant:    merchant,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestEngine() *Engine {
	return New(Options{
		ExcludeKeywords: []string{"transfer", "internal", "save the change", "credit card payment"},
		Thresholds:      recurring.DefaultThresholds(),
	})
}

func TestForecast_InvalidHorizon(t *testing.T) {
	e := newTestEngine()

	for _, h := range []int{0, -1, -30} {
		_, err := e.Forecast(nil, h)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidHorizon)
	}
}

func TestForecast_EmptyInput(t *testing.T) {
	points, err := newTestEngine().Forecast(nil, 30)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestForecast_AllTransactionsExcluded(t *testing.T) {
	txns := []model.Transaction{
		txn("t1", day(2025, 1, 1), "-100.00", "Transfer to savings", ""),
		txn("t2", day(2025, 1, 5), "-200.00", "CREDIT CARD PAYMENT", ""),
	}

	points, err := newTestEngine().Forecast(txns, 10)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestForecast_HorizonLengthAndDates(t *testing.T) {
	txns := []model.Transaction{
		txn("t1", day(2025, 1, 1), "-10.00", "coffee", ""),
		txn("t2", day(2025, 1, 9), "-20.00", "books", ""),
	}

	points, err := newTestEngine().Forecast(txns, 14)
	require.NoError(t, err)
	require.Len(t, points, 14)

	for i, p := range points {
		assert.Equal(t, day(2025, 1, 10).AddDate(0, 0, i), p.Date)
	}
}

func TestForecast_FlatBelowTrendThreshold(t *testing.T) {
	// Two days of variable history is nowhere near the 11-point
	// minimum, so every projected value is just the current balance.
	txns := []model.Transaction{
		txn("t1", day(2025, 1, 1), "-10.00", "coffee", ""),
		txn("t2", day(2025, 1, 2), "-15.50", "lunch", ""),
	}

	points, err := newTestEngine().Forecast(txns, 5)
	require.NoError(t, err)
	require.Len(t, points, 5)

	want := decimal.RequireFromString("-25.50")
	for _, p := range points {
		assert.True(t, p.Value.Equal(want), "got %s, want %s", p.Value, want)
	}
}

func TestForecast_RecurringBillLandsOnDueDay(t *testing.T) {
	// Four monthly Netflix charges, last on Apr 1. The projection is
	// Apr 1 + 30 days = May 1; the curve must step down by 9.99 there
	// and only there.
	var txns []model.Transaction
	for i := 0; i < 4; i++ {
		txns = append(txns, txn(fmt.Sprintf("n%d", i),
			day(2025, time.Month(1+i), 1), "-9.99", "NETFLIX.COM", "Netflix"))
	}

	points, err := newTestEngine().Forecast(txns, 40)
	require.NoError(t, err)
	require.Len(t, points, 40)

	balance := decimal.RequireFromString("-39.96")
	withBill := balance.Add(decimal.RequireFromString("-9.99"))
	due := day(2025, 5, 1)

	for _, p := range points {
		want := balance
		if !p.Date.Before(due) {
			want = withBill
		}
		assert.True(t, p.Value.Equal(want), "%s: got %s, want %s", p.Date, p.Value, want)
	}
}

func TestForecast_ExcludesInternalTransfers(t *testing.T) {
	// The transfer must affect neither the balance nor the trend.
	txns := []model.Transaction{
		txn("t1", day(2025, 1, 1), "-50.00", "coffee beans", ""),
		txn("t2", day(2025, 1, 3), "-500.00", "Transfer to ISA", ""),
	}

	points, err := newTestEngine().Forecast(txns, 3)
	require.NoError(t, err)
	require.Len(t, points, 3)

	want := decimal.RequireFromString("-50.00")
	for _, p := range points {
		assert.True(t, p.Value.Equal(want), "got %s, want %s", p.Value, want)
	}
	// The horizon is anchored at the last kept transaction, not the
	// excluded one.
	assert.Equal(t, day(2025, 1, 2), points[0].Date)
}

func TestForecast_LinearTrendExtrapolates(t *testing.T) {
	// Fifteen days of a steady -10/day spend. The cumulative drift is
	// perfectly linear, so the smoother should continue it: day i sits
	// near balance - 10*i.
	var txns []model.Transaction
	for i := 0; i < 15; i++ {
		txns = append(txns, txn(fmt.Sprintf("v%d", i),
			day(2025, 1, 1).AddDate(0, 0, i), "-10.00", fmt.Sprintf("purchase %d", i), ""))
	}

	points, err := newTestEngine().Forecast(txns, 10)
	require.NoError(t, err)
	require.Len(t, points, 10)

	for i, p := range points {
		want := -150.0 - 10.0*float64(i+1)
		assert.InDelta(t, want, p.Value.InexactFloat64(), 1e-6, "day %d", i+1)
	}
}

func TestForecast_TrendPlusRecurringCombine(t *testing.T) {
	// Steady -10/day variable spend plus a monthly bill due inside the
	// horizon: the bill contributes on top of the extrapolated trend.
	var txns []model.Transaction
	for i := 0; i < 15; i++ {
		txns = append(txns, txn(fmt.Sprintf("v%d", i),
			day(2025, 1, 1).AddDate(0, 0, i), "-10.00", fmt.Sprintf("purchase %d", i), ""))
	}
	// Monthly rent: Nov 15, Dec 15, Jan 15. Next due Jan 15 + 30 = Feb 14.
	txns = append(txns,
		txn("r1", day(2024, 11, 15), "-800.00", "rent", "Landlord Ltd"),
		txn("r2", day(2024, 12, 15), "-800.00", "rent", "Landlord Ltd"),
		txn("r3", day(2025, 1, 15), "-800.00", "rent", "Landlord Ltd"),
	)

	points, err := newTestEngine().Forecast(txns, 40)
	require.NoError(t, err)
	require.Len(t, points, 40)

	balance := -150.0 - 2400.0
	due := day(2025, 2, 14)
	for i, p := range points {
		want := balance - 10.0*float64(i+1)
		if !p.Date.Before(due) {
			want -= 800.0
		}
		assert.InDelta(t, want, p.Value.InexactFloat64(), 1e-6, "%s", p.Date)
	}
}

func TestForecast_Determinism(t *testing.T) {
	var txns []model.Transaction
	for i := 0; i < 20; i++ {
		txns = append(txns, txn(fmt.Sprintf("v%d", i),
			day(2025, 1, 1).AddDate(0, 0, i), fmt.Sprintf("-%d.50", 5+i%7), fmt.Sprintf("shop %d", i), ""))
	}

	first, err := newTestEngine().Forecast(txns, 30)
	require.NoError(t, err)
	second, err := newTestEngine().Forecast(txns, 30)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestDailyCumulative_FillsGapsAndSumsDays(t *testing.T) {
	txns := []model.Transaction{
		txn("t1", day(2025, 1, 1), "-10.00", "a", ""),
		txn("t2", day(2025, 1, 1), "-2.00", "b", ""),
		txn("t3", day(2025, 1, 4), "5.00", "c", ""),
	}

	series := dailyCumulative(txns)
	require.Len(t, series, 4)
	assert.InDelta(t, -12, series[0], 1e-9)
	assert.InDelta(t, -12, series[1], 1e-9)
	assert.InDelta(t, -12, series[2], 1e-9)
	assert.InDelta(t, -7, series[3], 1e-9)
}

func TestDailyCumulative_Empty(t *testing.T) {
	assert.Nil(t, dailyCumulative(nil))
}
