package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the cadence at which a recurring group repeats.
type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// StepDays returns the fixed projection increment for the cadence.
// Monthly is a flat 30 days, not calendar-month arithmetic, so
// projected dates drift earlier over successive cycles.
func (f Frequency) StepDays() int {
	switch f {
	case FrequencyWeekly:
		return 7
	case FrequencyMonthly:
		return 30
	case FrequencyYearly:
		return 365
	}
	return 0
}

// RecurringGroup is a set of transactions sharing a grouping key that
// repeat at a steady cadence with consistent amounts. Groups are
// recomputed from scratch on every analysis run.
type RecurringGroup struct {
	Key        string
	Frequency  Frequency
	Members    []Transaction // ascending by booked date
	NextDate   time.Time     // projected single next occurrence
	NextAmount decimal.Decimal
}
