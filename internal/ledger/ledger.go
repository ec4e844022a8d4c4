// Package ledger is the read and aggregate surface over posted
// contributions, plus the one-off manual contribution path used to correct
// committed batches.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/model"
	"github.com/mtaylor99/ChurchRegister-sub001/internal/store"
)

// ErrInvalidManualEntry rejects a manual contribution that fails the policy
// checks below.
var ErrInvalidManualEntry = errors.New("invalid manual contribution")

// ErrInvalidLink rejects a manual transaction link to a deleted transaction
// or an unknown member.
var ErrInvalidLink = errors.New("invalid transaction link")

// Service answers ledger queries. All reads exclude soft-deleted rows.
type Service struct {
	store *store.Store
	actor string
}

// NewService creates a ledger Service.
func NewService(st *store.Store, actor string) *Service {
	return &Service{store: st, actor: actor}
}

// SumInRange totals live contributions dated within [from, to] inclusive.
// An empty type means all types.
func (s *Service) SumInRange(ctx context.Context, from, to time.Time, typ model.ContributionType) (decimal.Decimal, error) {
	items, err := s.store.ContributionsInRange(ctx, from, to, typ)
	if err != nil {
		return decimal.Zero, err
	}
	return store.SumAmounts(items), nil
}

// MemberStatement holds one member's giving for a year.
type MemberStatement struct {
	Member        model.Member
	Year          int
	Total         decimal.Decimal
	Contributions []model.Contribution
}

// StatementForMember builds the annual giving statement for a member.
func (s *Service) StatementForMember(ctx context.Context, memberID uuid.UUID, year int) (*MemberStatement, error) {
	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	items, err := s.store.ContributionsForMemberYear(ctx, memberID, year)
	if err != nil {
		return nil, err
	}

	return &MemberStatement{
		Member:        member,
		Year:          year,
		Total:         store.SumAmounts(items),
		Contributions: items,
	}, nil
}

// ManualParams are the inputs for a manual one-off contribution.
type ManualParams struct {
	MemberID uuid.UUID
	Amount   decimal.Decimal
	Date     time.Time
	// Reference must name what the entry is for. When a manual entry offsets
	// a committed envelope batch (the only correction mechanism for one),
	// the reference must cite the original batch for audit purposes.
	Reference string
	Type      model.ContributionType
}

// AddManual posts a manual contribution. Amounts may be zero but never
// negative; corrections are entered as offsetting positives with the
// reference carrying the audit link, since ledger mutation is only ever
// additive.
func (s *Service) AddManual(ctx context.Context, p ManualParams) (*model.Contribution, error) {
	if p.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount %s is negative", ErrInvalidManualEntry, p.Amount)
	}
	if p.Reference == "" {
		return nil, fmt.Errorf("%w: reference is required", ErrInvalidManualEntry)
	}
	if p.Type == "" {
		p.Type = model.ContributionCash
	}

	if _, err := s.store.GetMember(ctx, p.MemberID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown member %s", ErrInvalidManualEntry, p.MemberID)
		}
		return nil, err
	}

	contrib := &model.Contribution{
		MemberID:         p.MemberID,
		Amount:           p.Amount,
		ContributionDate: p.Date,
		Reference:        p.Reference,
		Type:             p.Type,
		Manual:           true,
		CreatedBy:        s.actor,
		ModifiedBy:       s.actor,
	}
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.InsertContribution(ctx, contrib); err != nil {
			return err
		}
		return tx.AppendAudit(ctx, &model.AuditEntry{
			Actor:    s.actor,
			Action:   "manual-contribution",
			Details:  fmt.Sprintf("member=%s amount=%s ref=%q", p.MemberID, p.Amount.StringFixed(2), p.Reference),
			EntityID: contrib.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	return contrib, nil
}

// Unreconciled returns imported bank transactions still awaiting a manual
// member link.
func (s *Service) Unreconciled(ctx context.Context) ([]model.BankTransaction, error) {
	return s.store.UnprocessedTransactions(ctx)
}

// LinkTransaction manually attributes an imported, unmatched bank
// transaction to a member, creating the contribution the importer could not.
// The contribution, the processed flag, and the audit entry commit in one
// transaction; the unique index on the bank transaction link is the backstop
// against linking the same transaction twice.
func (s *Service) LinkTransaction(ctx context.Context, txnID, memberID uuid.UUID) (*model.Contribution, error) {
	if _, err := s.store.GetMember(ctx, memberID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown member %s", ErrInvalidLink, memberID)
		}
		return nil, err
	}

	txn, err := s.store.GetBankTransaction(ctx, txnID)
	if err != nil {
		return nil, err
	}
	if txn.Deleted {
		return nil, fmt.Errorf("%w: transaction %s is deleted", ErrInvalidLink, txnID)
	}
	if txn.Processed {
		return nil, store.ErrContributionExists
	}

	contrib := &model.Contribution{
		MemberID:          memberID,
		Amount:            txn.Amount,
		ContributionDate:  txn.TxnDate,
		Reference:         txn.Reference,
		BankTransactionID: &txn.ID,
		Type:              model.ContributionTransfer,
		Manual:            true,
		CreatedBy:         s.actor,
		ModifiedBy:        s.actor,
	}
	err = s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.InsertContribution(ctx, contrib); err != nil {
			return err
		}
		if err := tx.MarkTransactionProcessed(ctx, txn.ID, s.actor); err != nil {
			return err
		}
		return tx.AppendAudit(ctx, &model.AuditEntry{
			Actor:    s.actor,
			Action:   "transaction-link",
			Details:  fmt.Sprintf("txn=%s member=%s amount=%s", txn.ID, memberID, txn.Amount.StringFixed(2)),
			EntityID: contrib.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	return contrib, nil
}
