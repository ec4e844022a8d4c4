package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/model"
)

// StandardParser parses the common UK bank export layout:
// date, description, reference, money in, money out.
type StandardParser struct{}

const (
	stdDateFormat = "02/01/2006"
	stdNumFields  = 5
	stdColDate    = 0
	stdColDesc    = 1
	stdColRef     = 2
	stdColMoneyIn = 3
)

// Format returns the parser name.
func (p *StandardParser) Format() string { return "standard" }

// Parse reads a statement CSV and returns all rows, credits and non-credits
// alike. The import service decides what to do with each.
func (p *StandardParser) Parse(r io.Reader) ([]model.StatementRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = stdNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var rows []model.StatementRow
	for i, rec := range records[1:] {
		row, err := parseStandardRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseStandardRow(rec []string) (model.StatementRow, error) {
	date, err := time.Parse(stdDateFormat, strings.TrimSpace(rec[stdColDate]))
	if err != nil {
		return model.StatementRow{}, fmt.Errorf("parsing date %q: %w", rec[stdColDate], err)
	}

	credit := decimal.Zero
	if in := strings.TrimSpace(rec[stdColMoneyIn]); in != "" {
		credit, err = decimal.NewFromString(in)
		if err != nil {
			return model.StatementRow{}, fmt.Errorf("parsing money in %q: %w", rec[stdColMoneyIn], err)
		}
	}

	return model.StatementRow{
		Date:        date,
		Description: strings.TrimSpace(rec[stdColDesc]),
		Reference:   strings.TrimSpace(rec[stdColRef]),
		Credit:      credit,
	}, nil
}
