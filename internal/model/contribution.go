package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContributionType classifies how a contribution was given.
type ContributionType string

const (
	ContributionCash     ContributionType = "Cash"
	ContributionTransfer ContributionType = "Transfer"
)

// Contribution is one posted financial contribution attributable to exactly
// one member. A contribution originates from either a bank transaction or an
// envelope batch, never both; manual one-off entries have neither link.
type Contribution struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey"`
	MemberID          uuid.UUID        `gorm:"type:uuid;index;not null"`
	Amount            decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	ContributionDate  time.Time        `gorm:"index"`
	Reference         string           `gorm:"size:255"`
	BankTransactionID *uuid.UUID       `gorm:"type:uuid;uniqueIndex"`
	EnvelopeBatchID   *uuid.UUID       `gorm:"type:uuid;index"`
	Type              ContributionType `gorm:"size:20;not null"`
	Manual            bool
	Deleted           bool      `gorm:"index"`
	CreatedBy         string    `gorm:"size:100"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	ModifiedBy        string    `gorm:"size:100"`
	ModifiedAt        time.Time `gorm:"autoUpdateTime"`
}
