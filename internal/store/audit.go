package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/model"
)

// AppendAudit writes one audit trail row.
func (s *Store) AppendAudit(ctx context.Context, e *model.AuditEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("appending audit entry: %w", err)
	}
	return nil
}

// AuditTrail returns all audit entries, oldest first.
func (s *Store) AuditTrail(ctx context.Context) ([]model.AuditEntry, error) {
	var entries []model.AuditEntry
	if err := s.db.WithContext(ctx).Order("at, id").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("reading audit trail: %w", err)
	}
	return entries, nil
}
