package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flowcast-dev/flowcast/internal/model"
)

// GenericParser parses the canonical flowcast CSV format:
// id,booked_at,amount,currency,description,merchant. The id column may
// be empty, in which case a uuid is minted; feeds without their own
// ids should therefore be imported once per file, since re-parsing
// mints fresh ids.
type GenericParser struct{}

const (
	genericDateFormat = "2006-01-02"
	genericNumFields  = 6
	genericColID      = 0
	genericColDate    = 1
	genericColAmount  = 2
	genericColCcy     = 3
	genericColDesc    = 4
	genericColMerch   = 5
)

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse reads a generic CSV and returns Transactions.
func (p *GenericParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = genericNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading generic CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := parseGenericRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseGenericRow(rec []string) (model.Transaction, error) {
	date, err := time.Parse(genericDateFormat, rec[genericColDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing booked_at %q: %w", rec[genericColDate], err)
	}

	amount, err := decimal.NewFromString(rec[genericColAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", rec[genericColAmount], err)
	}

	id := rec[genericColID]
	if id == "" {
		id = uuid.NewString()
	}

	return model.Transaction{
		ID:          id,
		BookedAt:    date,
		Amount:      amount,
		Currency:    rec[genericColCcy],
		Description: rec[genericColDesc],
		Merchant:    rec[genericColMerch],
	}, nil
}
