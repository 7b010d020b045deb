// Package forecast projects a daily net-balance curve from a
// transaction snapshot. Recurring groups contribute their next
// occurrence on the exact day it lands; everything else is
// extrapolated statistically as cumulative variable drift.
package forecast

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/flowcast-dev/flowcast/internal/model"
	"github.com/flowcast-dev/flowcast/internal/recurring"
)

// ErrInvalidHorizon reports a non-positive horizon. The horizon is a
// caller contract: it is never clamped.
var ErrInvalidHorizon = errors.New("forecast horizon must be a positive day count")

// defaultMinTrendDays is the minimum number of daily history points
// required before the variable trend is extrapolated at all.
const defaultMinTrendDays = 11

// Options configures an Engine.
type Options struct {
	// ExcludeKeywords are internal-transfer markers; a transaction
	// whose description contains any of them (case-insensitive) is
	// dropped before analysis so own-account movement cannot distort
	// the balance or the trend.
	ExcludeKeywords []string
	// MinTrendDays overrides defaultMinTrendDays when positive.
	MinTrendDays int
	Thresholds   recurring.Thresholds
	Logger       zerolog.Logger
}

// Engine combines recurring-bill projections with a statistical
// extrapolation of variable spend. It holds no per-run state; one
// Engine can serve concurrent forecasts over independent snapshots.
type Engine struct {
	exclude      []string // lowercased
	minTrendDays int
	thresholds   recurring.Thresholds
	log          zerolog.Logger
}

// New builds an Engine from options.
func New(opts Options) *Engine {
	exclude := make([]string, 0, len(opts.ExcludeKeywords))
	for _, k := range opts.ExcludeKeywords {
		exclude = append(exclude, strings.ToLower(k))
	}
	minDays := opts.MinTrendDays
	if minDays <= 0 {
		minDays = defaultMinTrendDays
	}
	return &Engine{
		exclude:      exclude,
		minTrendDays: minDays,
		thresholds:   opts.Thresholds,
		log:          opts.Logger,
	}
}

// Forecast returns exactly horizonDays projected daily balances,
// starting the day after the latest observed transaction. An empty
// snapshot (or one fully consumed by the exclusion filter) yields an
// empty forecast with no error.
func (e *Engine) Forecast(txns []model.Transaction, horizonDays int) ([]model.ForecastPoint, error) {
	if horizonDays <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHorizon, horizonDays)
	}

	kept := e.filterTransfers(txns)
	if len(kept) == 0 {
		return nil, nil
	}
	model.SortChronological(kept)

	res := recurring.Analyze(kept, e.thresholds)

	var variable []model.Transaction
	for _, t := range kept {
		if res.Residual[t.ID] {
			variable = append(variable, t)
		}
	}

	// Per-day deltas relative to today; nil when history is too thin
	// or the fit failed, in which case the trend term is simply zero.
	deltas := e.variableTrend(variable, horizonDays)

	currentBalance := decimal.Zero
	for _, t := range kept {
		currentBalance = currentBalance.Add(t.Amount)
	}

	lastDay := kept[len(kept)-1].Day()
	points := make([]model.ForecastPoint, 0, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		day := lastDay.AddDate(0, 0, i)

		val := currentBalance
		if deltas != nil {
			val = val.Add(decimal.NewFromFloat(deltas[i-1]))
		}

		// Bills land on the exact day they fall due: every group whose
		// next occurrence is in (lastDay, day] contributes its amount.
		// Only the single next occurrence per group is modeled.
		for _, g := range res.Groups {
			if g.NextDate.After(lastDay) && !g.NextDate.After(day) {
				val = val.Add(g.NextAmount)
			}
		}

		points = append(points, model.ForecastPoint{Date: day, Value: val})
	}
	return points, nil
}

func (e *Engine) filterTransfers(txns []model.Transaction) []model.Transaction {
	kept := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if !e.excluded(t.Description) {
			kept = append(kept, t)
		}
	}
	return kept
}

func (e *Engine) excluded(desc string) bool {
	if desc == "" {
		return false
	}
	d := strings.ToLower(desc)
	for _, k := range e.exclude {
		if strings.Contains(d, k) {
			return true
		}
	}
	return false
}

// variableTrend fits an additive-trend smoother to the cumulative
// daily sum of variable spend and returns horizonDays deltas relative
// to the last observed cumulative value. A nil return means no
// contribution: either fewer than minTrendDays daily points exist, or
// the fit failed on degenerate input. Both degrade the forecast to
// flat-plus-bills rather than failing it.
func (e *Engine) variableTrend(variable []model.Transaction, horizonDays int) []float64 {
	daily := dailyCumulative(variable)
	if len(daily) < e.minTrendDays {
		return nil
	}

	m, err := fitHolt(daily)
	if err != nil {
		e.log.Error().Err(err).Int("points", len(daily)).
			Msg("variable trend fit failed, forecasting without trend term")
		return nil
	}

	last := daily[len(daily)-1]
	deltas := m.Forecast(horizonDays)
	for i := range deltas {
		deltas[i] -= last
	}
	return deltas
}

// dailyCumulative resamples transactions to one point per calendar day
// across their own date range, summing same-day amounts and filling
// inactive days with zero, then takes the running total. The cumulative
// series, not raw daily spend, is what gets trend-modeled.
func dailyCumulative(txns []model.Transaction) []float64 {
	if len(txns) == 0 {
		return nil
	}

	sums := make(map[time.Time]float64)
	first, last := txns[0].Day(), txns[0].Day()
	for _, t := range txns {
		d := t.Day()
		f, _ := t.Amount.Float64()
		sums[d] += f
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}

	var series []float64
	running := 0.0
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		running += sums[d]
		series = append(series, running)
	}
	return series
}
