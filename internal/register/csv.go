package register

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/model"
	"github.com/mtaylor99/ChurchRegister-sub001/internal/store"
)

const (
	numFields   = 3
	colName     = 0
	colBankCode = 1
	colRegister = 2
)

// SeedRow is one row of a member seed CSV:
// display_name, bank_code, register_number.
type SeedRow struct {
	DisplayName    string
	BankCode       string
	RegisterNumber int
}

// ReadSeed reads a member seed CSV.
func ReadSeed(r io.Reader) ([]SeedRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading member CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var rows []SeedRow
	for i, rec := range records[1:] {
		row, err := unmarshalSeedRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func unmarshalSeedRow(rec []string) (SeedRow, error) {
	if rec[colName] == "" {
		return SeedRow{}, fmt.Errorf("display name is required")
	}

	regNum := 0
	if rec[colRegister] != "" {
		n, err := strconv.Atoi(rec[colRegister])
		if err != nil {
			return SeedRow{}, fmt.Errorf("parsing register number %q: %w", rec[colRegister], err)
		}
		if n <= 0 {
			return SeedRow{}, fmt.Errorf("register number %d must be positive", n)
		}
		regNum = n
	}

	return SeedRow{
		DisplayName:    rec[colName],
		BankCode:       rec[colBankCode],
		RegisterNumber: regNum,
	}, nil
}

// Seed loads members into the directory and assigns register numbers for
// the given year. Rows without a register number only join the directory.
// The whole file loads in one transaction: a bad mid-file row leaves no
// partial directory behind.
func (s *Service) Seed(ctx context.Context, rows []SeedRow, year int) error {
	return s.store.WithTx(ctx, func(tx *store.Store) error {
		for i, row := range rows {
			member := &model.Member{
				DisplayName:       row.DisplayName,
				BankReferenceCode: row.BankCode,
			}
			if err := tx.InsertMember(ctx, member); err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}

			if row.RegisterNumber == 0 {
				continue
			}
			entry := &model.MemberRegisterEntry{
				RegisterNumber: row.RegisterNumber,
				Year:           year,
				MemberID:       member.ID,
			}
			if err := tx.InsertRegisterEntry(ctx, entry); err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
		}
		return nil
	})
}
