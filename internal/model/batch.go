package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchStatus is the lifecycle state of an envelope batch. Submitted is the
// only status that exists after commit; batches are never edited or
// un-submitted.
type BatchStatus string

const (
	BatchSubmitted BatchStatus = "Submitted"
)

// EnvelopeBatch is one immutable unit of cash contributions collected on a
// single calendar date. TotalAmount and EnvelopeCount are computed at commit
// from the persisted line items and must match post-hoc summation on every
// read. The unique index on BatchDate guarantees at most one batch per
// collection day.
type EnvelopeBatch struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BatchDate     time.Time       `gorm:"uniqueIndex"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EnvelopeCount int             `gorm:"not null"`
	Status        BatchStatus     `gorm:"size:20;not null"`
	CreatedBy     string          `gorm:"size:100"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
}
