// Package recurring discovers groups of transactions that repeat at a
// steady cadence with consistent amounts, and projects each group's
// single next occurrence.
package recurring

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/flowcast-dev/flowcast/internal/model"
)

// Cadence bands in inclusive day counts. The gaps between bands are
// deliberate: a median gap of 10-25 days is never recurring, which
// keeps irregular-but-frequent spending out of the bill set.
const (
	weeklyMinGap, weeklyMaxGap   = 6, 8
	monthlyMinGap, monthlyMaxGap = 26, 35
	yearlyMinGap, yearlyMaxGap   = 360, 370
)

// descriptionKeyLen is how many runes of the normalized description
// form the grouping key when no merchant is present.
const descriptionKeyLen = 20

// Thresholds controls the amount-consistency test.
type Thresholds struct {
	MaxCV     float64 // coefficient-of-variation ceiling
	MaxStddev float64 // absolute-stddev escape hatch for near-zero means
}

// DefaultThresholds returns the stock consistency thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{MaxCV: 0.2, MaxStddev: 1.0}
}

// Result splits a snapshot into recurring groups and the residual set.
// The two parts partition the input: every transaction id is either in
// exactly one group or in Residual, never both.
type Result struct {
	Groups   []model.RecurringGroup
	Residual map[string]bool // ids not absorbed into any group
}

// Analyze partitions transactions by grouping key and promotes each
// key's group to recurring when its members repeat at a recognized
// cadence with consistent amounts. Pure function: same snapshot in,
// identical groups and projections out. Groups are returned in key
// order.
func Analyze(txns []model.Transaction, th Thresholds) Result {
	residual := make(map[string]bool, len(txns))
	for _, t := range txns {
		residual[t.ID] = true
	}

	byKey := make(map[string][]model.Transaction)
	for _, t := range txns {
		k := GroupKey(t)
		byKey[k] = append(byKey[k], t)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var groups []model.RecurringGroup
	for _, k := range keys {
		members := byKey[k]
		if len(members) < 2 {
			// One sample cannot establish a cadence.
			continue
		}
		model.SortChronological(members)

		gaps := make([]float64, len(members)-1)
		for i := 1; i < len(members); i++ {
			gaps[i-1] = members[i].Day().Sub(members[i-1].Day()).Hours() / 24
		}

		freq, ok := cadenceOf(median(gaps))
		if !ok {
			continue
		}

		amounts := make([]float64, len(members))
		for i, m := range members {
			amounts[i], _ = m.Amount.Float64()
		}
		if !consistent(amounts, th) {
			continue
		}

		last := members[len(members)-1]
		groups = append(groups, model.RecurringGroup{
			Key:        k,
			Frequency:  freq,
			Members:    members,
			NextDate:   last.Day().AddDate(0, 0, freq.StepDays()),
			NextAmount: last.Amount,
		})
		for _, m := range members {
			delete(residual, m.ID)
		}
	}

	return Result{Groups: groups, Residual: residual}
}

// GroupKey returns the grouping identity for a transaction: the
// lowercased, trimmed merchant name when present, otherwise the first
// 20 runes of the lowercased description.
func GroupKey(t model.Transaction) string {
	if m := strings.TrimSpace(strings.ToLower(t.Merchant)); m != "" {
		return m
	}
	d := []rune(strings.ToLower(t.Description))
	if len(d) > descriptionKeyLen {
		d = d[:descriptionKeyLen]
	}
	return string(d)
}

func cadenceOf(medianGap float64) (model.Frequency, bool) {
	switch {
	case medianGap >= weeklyMinGap && medianGap <= weeklyMaxGap:
		return model.FrequencyWeekly, true
	case medianGap >= monthlyMinGap && medianGap <= monthlyMaxGap:
		return model.FrequencyMonthly, true
	case medianGap >= yearlyMinGap && medianGap <= yearlyMaxGap:
		return model.FrequencyYearly, true
	}
	return "", false
}

// consistent tests whether a group's amounts are steady enough to be a
// bill: coefficient of variation under MaxCV, or absolute sample
// stddev under MaxStddev when the mean is too close to zero for CV to
// be meaningful.
func consistent(amounts []float64, th Thresholds) bool {
	mean := stat.Mean(amounts, nil)
	std := stat.StdDev(amounts, nil)

	cv := 0.0
	if math.Abs(mean) > 0.01 {
		cv = std / math.Abs(mean)
	}
	return cv < th.MaxCV || std < th.MaxStddev
}

// median interpolates between the two middle samples on even-length
// input, matching the convention the cadence bands were tuned against.
func median(xs []float64) float64 {
	s := make([]float64, len(xs))
	copy(s, xs)
	sort.Float64s(s)

	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}
