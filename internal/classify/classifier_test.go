package classify

import (
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

func TestClassify_Empty(t *testing.T) {
	labels := Classify(nil, recurring.DefaultThresholds())
	assert.Empty(t, labels)
}

func TestClassify_DefaultIsVariable(t *testing.T) {
	labels := Classify([]model.Transaction{
		txn("t1", day(2025, 3, 14), "-12.40", "lunch", ""),
	}, recurring.DefaultThresholds())

	assert.Equal(t, model.ClassificationVariable, labels["t1"])
}

func TestClassify_RecurringOutflowIsBill(t *testing.T) {
	txns := []model.Transaction{
		txn("n1", day(2025, 1, 1), "-9.99", "NETFLIX.COM", "Netflix"),
		txn("n2", day(2025, 2, 1), "-9.99", "NETFLIX.COM", "Netflix"),
		txn("n3", day(2025, 3, 1), "-9.99", "NETFLIX.COM", "Netflix"),
		txn("x1", day(2025, 2, 12), "-30.00", "petrol", ""),
	}

	labels := Classify(txns, recurring.DefaultThresholds())

	assert.Equal(t, model.ClassificationBill, labels["n1"])
	assert.Equal(t, model.ClassificationBill, labels["n2"])
	assert.Equal(t, model.ClassificationBill, labels["n3"])
	assert.Equal(t, model.ClassificationVariable, labels["x1"])
}

func TestClassify_PositiveIsIncome(t *testing.T) {
	labels := Classify([]model.Transaction{
		txn("t1", day(2025, 3, 3), "25.00", "refund", ""),
	}, recurring.DefaultThresholds())

	assert.Equal(t, model.ClassificationIncome, labels["t1"])
}

func TestClassify_IncomeWinsOverBill(t *testing.T) {
	// A recurring salary deposit is a RecurringGroup member AND
	// positive; the income rule runs last and must win.
	txns := []model.Transaction{
		txn("s1", day(2025, 1, 28), "3000.00", "ACME PAYROLL", "Acme"),
		txn("s2", day(2025, 2, 27), "3000.00", "ACME PAYROLL", "Acme"),
		txn("s3", day(2025, 3, 29), "3000.00", "ACME PAYROLL", "Acme"),
	}

	res := recurring.Analyze(txns, recurring.DefaultThresholds())
	require.Len(t, res.Groups, 1, "salary must be detected as recurring for this test to mean anything")

	labels := Classify(txns, recurring.DefaultThresholds())
	for _, id := range []string{"s1", "s2", "s3"} {
		assert.Equal(t, model.ClassificationIncome, labels[id])
	}
}

func TestClassify_CoversEveryTransaction(t *testing.T) {
	txns := []model.Transaction{
		txn("a", day(2025, 1, 1), "-5.00", "coffee", ""),
		txn("b", day(2025, 1, 2), "10.00", "refund", ""),
		txn("c", day(2025, 1, 3), "-0.01", "rounding", ""),
	}

	labels := Classify(txns, recurring.DefaultThresholds())
	require.Len(t, labels, len(txns))
}
