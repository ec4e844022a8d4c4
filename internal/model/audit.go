package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry is one row in the append-only audit trail. Imports and batch
// commits each append one entry; nothing ever updates or removes them.
type AuditEntry struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	At       time.Time `gorm:"autoCreateTime;index"`
	Actor    string    `gorm:"size:100"`
	Action   string    `gorm:"size:50;index"`
	Details  string    `gorm:"size:500"`
	EntityID string    `gorm:"size:50"`
}
