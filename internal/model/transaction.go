package model

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one booked bank transaction from the snapshot store.
type Transaction struct {
	ID          string
	BookedAt    time.Time       // day granularity; time-of-day is ignored for interval math
	Amount      decimal.Decimal // negative = outflow, positive = inflow
	Currency    string          // passed through to output, never computed on
	Description string
	Merchant    string // optional; empty when the feed carries none
}

// Day returns the booked date truncated to midnight UTC, so date
// arithmetic works in whole days regardless of feed time zones.
func (t Transaction) Day() time.Time {
	y, m, d := t.BookedAt.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SortChronological orders transactions by booked date, breaking ties
// by id so repeated runs over the same snapshot see an identical order.
func SortChronological(txns []Transaction) {
	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].BookedAt.Equal(txns[j].BookedAt) {
			return txns[i].BookedAt.Before(txns[j].BookedAt)
		}
		return txns[i].ID < txns[j].ID
	})
}
