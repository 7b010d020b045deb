// Package classify assigns each transaction one of three behavioral
// labels: bill, income, or variable.
package classify

import (
	"github.com/flowcast-dev/flowcast/internal/model"
	"github.com/flowcast-dev/flowcast/internal/recurring"
)

// rule pairs a predicate with the label it applies. Rules are
// evaluated in declared order and a later match overwrites an earlier
// one, so the last matching rule wins.
type rule struct {
	name  string
	match func(model.Transaction) bool
	label model.Classification
}

// Classify labels every transaction in the snapshot and returns a
// mapping from transaction id to label. Precedence is fixed:
// everything starts variable, members of a recurring group become
// bill, and any positive amount becomes income. The income rule runs
// last and unconditionally, so a recurring salary deposit is labeled
// income rather than bill; downstream consumers depend on that
// ordering.
func Classify(txns []model.Transaction, th recurring.Thresholds) map[string]model.Classification {
	res := recurring.Analyze(txns, th)

	recurringIDs := make(map[string]bool)
	for _, g := range res.Groups {
		for _, m := range g.Members {
			recurringIDs[m.ID] = true
		}
	}

	rules := []rule{
		{
			name:  "default-variable",
			match: func(model.Transaction) bool { return true },
			label: model.ClassificationVariable,
		},
		{
			name:  "recurring-bill",
			match: func(t model.Transaction) bool { return recurringIDs[t.ID] },
			label: model.ClassificationBill,
		},
		{
			name:  "positive-income",
			match: func(t model.Transaction) bool { return t.Amount.IsPositive() },
			label: model.ClassificationIncome,
		},
	}

	out := make(map[string]model.Classification, len(txns))
	for _, t := range txns {
		for _, r := range rules {
			if r.match(t) {
				out[t.ID] = r.label
			}
		}
	}
	return out
}
