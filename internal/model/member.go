package model

import (
	"time"

	"github.com/google/uuid"
)

// Member is one entry in the parish member directory. The directory itself
// is maintained elsewhere; the reconciliation engine only reads it.
type Member struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	DisplayName string    `gorm:"size:200;not null"`
	// BankReferenceCode is the short stable string members are asked to put
	// in their bank transfer reference field. At most one per member, unique
	// across the directory when set.
	BankReferenceCode string    `gorm:"size:50"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
}

// MemberRegisterEntry maps a small per-year register number to a member.
// Register numbers are reassigned each year, so identity is the
// (register number, year) pair.
type MemberRegisterEntry struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	RegisterNumber int       `gorm:"uniqueIndex:idx_register_number_year;not null"`
	Year           int       `gorm:"uniqueIndex:idx_register_number_year;not null"`
	MemberID       uuid.UUID `gorm:"type:uuid;index;not null"`
}
