package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/model"
)

// InsertBankTransaction persists a new imported statement row. A fingerprint
// collision on (date, reference, amount) returns ErrDuplicateTransaction.
func (s *Store) InsertBankTransaction(ctx context.Context, txn *model.BankTransaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	txn.TxnDate = model.DateOnly(txn.TxnDate)

	if err := s.db.WithContext(ctx).Create(txn).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTransaction
		}
		return fmt.Errorf("inserting bank transaction: %w", err)
	}
	return nil
}

// MarkTransactionProcessed flips the processed flag. The flag is set-only;
// there is no path that clears it.
func (s *Store) MarkTransactionProcessed(ctx context.Context, id uuid.UUID, actor string) error {
	res := s.db.WithContext(ctx).
		Model(&model.BankTransaction{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(map[string]any{"processed": true, "modified_by": actor})
	if res.Error != nil {
		return fmt.Errorf("marking transaction processed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDeleteTransaction sets the deleted flag. Rows are never hard-deleted
// and never un-deleted.
func (s *Store) SoftDeleteTransaction(ctx context.Context, id uuid.UUID, actor string) error {
	res := s.db.WithContext(ctx).
		Model(&model.BankTransaction{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(map[string]any{"deleted": true, "modified_by": actor})
	if res.Error != nil {
		return fmt.Errorf("soft-deleting transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TransactionExistsByReference reports whether a non-deleted transaction
// with the exact (date, reference, amount) triple has been imported.
func (s *Store) TransactionExistsByReference(ctx context.Context, date time.Time, reference string, amount decimal.Decimal) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&model.BankTransaction{}).
		Where("txn_date = ? AND reference = ? AND amount = ? AND deleted = ?",
			model.DateOnly(date), reference, amount, false).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("checking transaction by reference: %w", err)
	}
	return n > 0, nil
}

// TransactionExistsByDescription is the blank-reference fallback identity
// check over (date, description, amount).
func (s *Store) TransactionExistsByDescription(ctx context.Context, date time.Time, description string, amount decimal.Decimal) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&model.BankTransaction{}).
		Where("txn_date = ? AND description = ? AND amount = ? AND deleted = ?",
			model.DateOnly(date), description, amount, false).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("checking transaction by description: %w", err)
	}
	return n > 0, nil
}

// GetBankTransaction returns a transaction by id, deleted or not.
func (s *Store) GetBankTransaction(ctx context.Context, id uuid.UUID) (model.BankTransaction, error) {
	var txn model.BankTransaction
	err := s.db.WithContext(ctx).First(&txn, "id = ?", id).Error
	if err != nil {
		if isNotFound(err) {
			return model.BankTransaction{}, ErrNotFound
		}
		return model.BankTransaction{}, fmt.Errorf("loading bank transaction: %w", err)
	}
	return txn, nil
}

// UnprocessedTransactions returns non-deleted transactions that have not yet
// produced a contribution, oldest first. This is the manual-reconciliation
// worklist.
func (s *Store) UnprocessedTransactions(ctx context.Context) ([]model.BankTransaction, error) {
	var txns []model.BankTransaction
	err := s.db.WithContext(ctx).
		Where("processed = ? AND deleted = ?", false, false).
		Order("txn_date, created_at").
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("listing unprocessed transactions: %w", err)
	}
	return txns, nil
}
