package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/model"
)

// InsertContribution posts one contribution. Amounts must already be
// validated non-negative by the caller; the unique index on the bank
// transaction link is enforced here and surfaces as ErrContributionExists.
func (s *Store) InsertContribution(ctx context.Context, c *model.Contribution) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.ContributionDate = model.DateOnly(c.ContributionDate)

	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrContributionExists
		}
		return fmt.Errorf("inserting contribution: %w", err)
	}
	return nil
}

// SoftDeleteContribution sets the deleted flag on a contribution. Set-only,
// like the transaction flags.
func (s *Store) SoftDeleteContribution(ctx context.Context, id uuid.UUID, actor string) error {
	res := s.db.WithContext(ctx).
		Model(&model.Contribution{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(map[string]any{"deleted": true, "modified_by": actor})
	if res.Error != nil {
		return fmt.Errorf("soft-deleting contribution: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ContributionExistsForTransaction reports whether a live contribution is
// already linked to the given bank transaction.
func (s *Store) ContributionExistsForTransaction(ctx context.Context, txnID uuid.UUID) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&model.Contribution{}).
		Where("bank_transaction_id = ? AND deleted = ?", txnID, false).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("checking contribution for transaction: %w", err)
	}
	return n > 0, nil
}

// ContributionsForBatch returns the live line items of an envelope batch.
func (s *Store) ContributionsForBatch(ctx context.Context, batchID uuid.UUID) ([]model.Contribution, error) {
	var items []model.Contribution
	err := s.db.WithContext(ctx).
		Where("envelope_batch_id = ? AND deleted = ?", batchID, false).
		Order("created_at").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("loading batch contributions: %w", err)
	}
	return items, nil
}

// ContributionsInRange returns live contributions dated within [from, to]
// inclusive, optionally filtered by type (empty means all types).
func (s *Store) ContributionsInRange(ctx context.Context, from, to time.Time, typ model.ContributionType) ([]model.Contribution, error) {
	q := s.db.WithContext(ctx).
		Where("contribution_date >= ? AND contribution_date <= ? AND deleted = ?",
			model.DateOnly(from), model.DateOnly(to), false)
	if typ != "" {
		q = q.Where("type = ?", typ)
	}

	var items []model.Contribution
	if err := q.Order("contribution_date, created_at").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("loading contributions in range: %w", err)
	}
	return items, nil
}

// ContributionsForMemberYear returns a member's live contributions for one
// calendar year, the rows behind an annual giving statement.
func (s *Store) ContributionsForMemberYear(ctx context.Context, memberID uuid.UUID, year int) ([]model.Contribution, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	var items []model.Contribution
	err := s.db.WithContext(ctx).
		Where("member_id = ? AND contribution_date >= ? AND contribution_date <= ? AND deleted = ?",
			memberID, from, to, false).
		Order("contribution_date, created_at").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("loading member contributions: %w", err)
	}
	return items, nil
}

// SumAmounts totals a contribution slice with exact decimal math. Aggregates
// are computed in Go rather than SQL so amounts never pass through floats.
func SumAmounts(items []model.Contribution) decimal.Decimal {
	total := decimal.Zero
	for _, c := range items {
		total = total.Add(c.Amount)
	}
	return total
}
