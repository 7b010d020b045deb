package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flowcast-dev/flowcast/internal/model"
)

// MonzoParser parses Monzo's "Export bank statement" CSV. Monzo rows
// carry their own stable transaction ids, so re-imports are idempotent.
type MonzoParser struct{}

const (
	monzoDateFormat = "02/01/2006"
	monzoNumFields  = 16
	monzoColID      = 0
	monzoColDate    = 1
	monzoColName    = 4
	monzoColAmount  = 7
	monzoColCcy     = 8
	monzoColDesc    = 14
)

// Format returns the parser name.
func (p *MonzoParser) Format() string { return "monzo" }

// Parse reads a Monzo CSV and returns Transactions.
func (p *MonzoParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = monzoNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading monzo CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := parseMonzoRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseMonzoRow(rec []string) (model.Transaction, error) {
	if rec[monzoColID] == "" {
		return model.Transaction{}, fmt.Errorf("missing transaction id")
	}

	date, err := time.Parse(monzoDateFormat, rec[monzoColDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", rec[monzoColDate], err)
	}

	amount, err := decimal.NewFromString(rec[monzoColAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", rec[monzoColAmount], err)
	}

	desc := rec[monzoColDesc]
	if desc == "" {
		desc = rec[monzoColName]
	}

	return model.Transaction{
		ID:          rec[monzoColID],
		BookedAt:    date,
		Amount:      amount,
		Currency:    rec[monzoColCcy],
		Description: desc,
		Merchant:    rec[monzoColName],
	}, nil
}
