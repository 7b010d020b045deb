package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Classification labels a transaction's behavior.
type Classification string

const (
	ClassificationBill     Classification = "bill"
	ClassificationIncome   Classification = "income"
	ClassificationVariable Classification = "variable"
)

// ForecastPoint is one day of the projected net-balance curve.
type ForecastPoint struct {
	Date  time.Time
	Value decimal.Decimal
}
