package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/model"
)

// InsertEnvelopeBatch persists a batch header. A second batch for the same
// date hits the unique index and returns ErrBatchDateTaken.
func (s *Store) InsertEnvelopeBatch(ctx context.Context, b *model.EnvelopeBatch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.BatchDate = model.DateOnly(b.BatchDate)

	if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrBatchDateTaken
		}
		return fmt.Errorf("inserting envelope batch: %w", err)
	}
	return nil
}

// BatchExistsForDate reports whether a batch already exists for the date.
// This is the fast-path check; the unique index is the guarantee.
func (s *Store) BatchExistsForDate(ctx context.Context, date time.Time) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&model.EnvelopeBatch{}).
		Where("batch_date = ?", model.DateOnly(date)).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("checking batch date: %w", err)
	}
	return n > 0, nil
}

// GetBatch returns a batch by id and verifies its conservation invariants
// against the persisted line items: totalAmount must equal the item sum and
// envelopeCount their count. A mismatch means the store was tampered with
// outside the domain and is reported as an error, not repaired.
func (s *Store) GetBatch(ctx context.Context, id uuid.UUID) (model.EnvelopeBatch, []model.Contribution, error) {
	var b model.EnvelopeBatch
	if err := s.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return model.EnvelopeBatch{}, nil, ErrNotFound
		}
		return model.EnvelopeBatch{}, nil, fmt.Errorf("loading batch: %w", err)
	}

	items, err := s.ContributionsForBatch(ctx, id)
	if err != nil {
		return model.EnvelopeBatch{}, nil, err
	}

	if err := verifyBatch(b, items); err != nil {
		return model.EnvelopeBatch{}, nil, err
	}
	return b, items, nil
}

// GetBatchByDate returns the batch for a collection date, with the same
// invariant verification as GetBatch.
func (s *Store) GetBatchByDate(ctx context.Context, date time.Time) (model.EnvelopeBatch, []model.Contribution, error) {
	var b model.EnvelopeBatch
	err := s.db.WithContext(ctx).First(&b, "batch_date = ?", model.DateOnly(date)).Error
	if err != nil {
		if isNotFound(err) {
			return model.EnvelopeBatch{}, nil, ErrNotFound
		}
		return model.EnvelopeBatch{}, nil, fmt.Errorf("loading batch by date: %w", err)
	}

	items, err := s.ContributionsForBatch(ctx, b.ID)
	if err != nil {
		return model.EnvelopeBatch{}, nil, err
	}

	if err := verifyBatch(b, items); err != nil {
		return model.EnvelopeBatch{}, nil, err
	}
	return b, items, nil
}

func verifyBatch(b model.EnvelopeBatch, items []model.Contribution) error {
	if len(items) != b.EnvelopeCount {
		return fmt.Errorf("batch %s: envelope count %d does not match %d line items",
			b.ID, b.EnvelopeCount, len(items))
	}
	if sum := SumAmounts(items); !sum.Equal(b.TotalAmount) {
		return fmt.Errorf("batch %s: total %s does not match line item sum %s",
			b.ID, b.TotalAmount.StringFixed(2), sum.StringFixed(2))
	}
	return nil
}
