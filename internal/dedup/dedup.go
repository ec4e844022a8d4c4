// Package dedup decides whether an incoming statement row has already been
// imported. Identity is the (date, reference, amount) fingerprint; when the
// reference is blank the (date, description, amount) triple is used instead.
// The reference leads because bank exports repeat identical descriptions
// across unrelated transactions on the same day.
package dedup

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/model"
)

// Result of a duplicate check.
type Result int

const (
	New Result = iota
	Duplicate
)

func (r Result) String() string {
	if r == Duplicate {
		return "duplicate"
	}
	return "new"
}

// TransactionIndex is the slice of storage the detector needs: existence
// checks over previously imported, non-deleted transactions.
type TransactionIndex interface {
	TransactionExistsByReference(ctx context.Context, date time.Time, reference string, amount decimal.Decimal) (bool, error)
	TransactionExistsByDescription(ctx context.Context, date time.Time, description string, amount decimal.Decimal) (bool, error)
}

// Detector checks statement rows against the transaction index.
type Detector struct {
	index TransactionIndex
}

// NewDetector creates a Detector over an index.
func NewDetector(index TransactionIndex) *Detector {
	return &Detector{index: index}
}

// Check decides whether row is a duplicate of an already-imported
// transaction. Exact (date, reference, amount) matches are never missed;
// when the reference is blank the description fallback may produce false
// positives, which callers surface for human review.
func (d *Detector) Check(ctx context.Context, row model.StatementRow) (Result, error) {
	// The trimmed reference is the canonical fingerprint value; callers are
	// not required to pre-trim.
	ref := strings.TrimSpace(row.Reference)
	if ref != "" {
		exists, err := d.index.TransactionExistsByReference(ctx, row.Date, ref, row.Credit)
		if err != nil {
			return New, err
		}
		if exists {
			return Duplicate, nil
		}
		return New, nil
	}

	exists, err := d.index.TransactionExistsByDescription(ctx, row.Date, row.Description, row.Credit)
	if err != nil {
		return New, err
	}
	if exists {
		return Duplicate, nil
	}
	return New, nil
}
