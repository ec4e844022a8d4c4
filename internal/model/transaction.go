package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatementRow is one parsed row from a bank statement export, before any
// import decision has been made about it.
type StatementRow struct {
	Date        time.Time
	Description string
	Reference   string
	Credit      decimal.Decimal // zero for non-credit rows
}

// BankTransaction represents an imported statement credit.
//
// Rows are created once per successful import of a unique statement row and
// are never updated afterwards except to flip Processed or Deleted. The
// unique index over (date, reference, amount) is the storage backstop for
// the duplicate fingerprint.
type BankTransaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TxnDate     time.Time       `gorm:"uniqueIndex:idx_bank_txn_fingerprint;index"`
	Description string          `gorm:"size:255"`
	Reference   string          `gorm:"size:255;uniqueIndex:idx_bank_txn_fingerprint"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);uniqueIndex:idx_bank_txn_fingerprint"`
	Processed   bool            `gorm:"index"`
	Deleted     bool            `gorm:"index"`
	CreatedBy   string          `gorm:"size:100"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	ModifiedBy  string          `gorm:"size:100"`
	ModifiedAt  time.Time       `gorm:"autoUpdateTime"`
}

// DateOnly truncates a time to its calendar date in UTC. All batch dates and
// transaction dates are normalized through this before persisting, so date
// equality in queries and unique indexes is exact.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
