// Package envelope commits batches of cash envelope contributions. A batch
// is one collection date's envelopes, validated against the member register
// and persisted atomically; once committed it is permanently read-only.
package envelope

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/model"
	"github.com/mtaylor99/ChurchRegister-sub001/internal/store"
)

// Entry is one submitted envelope: the member's register number for the
// batch year and the cash amount inside.
type Entry struct {
	RegisterNumber int
	Amount         decimal.Decimal
}

// Result describes a committed batch.
type Result struct {
	BatchID       uuid.UUID
	BatchDate     time.Time
	TotalAmount   decimal.Decimal
	EnvelopeCount int
}

// RegisterLookup resolves a register number for a year to a member. The
// caller's UI pre-validates interactively, but the ledger re-validates at
// commit time as the authoritative check.
type RegisterLookup interface {
	MemberForRegisterNumber(ctx context.Context, registerNumber, year int) (model.Member, error)
}

// Service is the envelope batch ledger.
type Service struct {
	store    *store.Store
	register RegisterLookup
	log      *logrus.Entry
	actor    string
}

// NewService creates an envelope batch Service.
func NewService(st *store.Store, register RegisterLookup, log *logrus.Entry, actor string) *Service {
	return &Service{store: st, register: register, log: log, actor: actor}
}

// Submit validates and commits one batch. Validation failures are collected
// across every entry and returned together as ValidationErrors; any invalid
// entry rejects the whole batch. The commit itself is atomic: the batch
// header and all line-item contributions persist in one transaction or not
// at all, and the unique index on the batch date is the final guard against
// two concurrent submissions for the same day.
func (s *Service) Submit(ctx context.Context, batchDate time.Time, entries []Entry) (*Result, error) {
	date := model.DateOnly(batchDate)
	year := date.Year()

	var verrs ValidationErrors

	taken, err := s.store.BatchExistsForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if taken {
		verrs = append(verrs, ValidationError{
			Index:  -1,
			Reason: fmt.Sprintf("a batch already exists for %s", date.Format("2006-01-02")),
		})
	}

	if len(entries) == 0 {
		verrs = append(verrs, ValidationError{Index: -1, Reason: "batch has no envelopes"})
	}

	members := make([]model.Member, len(entries))
	for i, entry := range entries {
		if !entry.Amount.IsPositive() {
			verrs = append(verrs, ValidationError{
				Index:          i,
				RegisterNumber: entry.RegisterNumber,
				Reason:         fmt.Sprintf("amount %s must be greater than zero", entry.Amount.StringFixed(2)),
			})
			continue
		}
		if !exactPence(entry.Amount) {
			verrs = append(verrs, ValidationError{
				Index:          i,
				RegisterNumber: entry.RegisterNumber,
				Reason:         fmt.Sprintf("amount %s has more than 2 decimal places", entry.Amount),
			})
			continue
		}

		member, err := s.register.MemberForRegisterNumber(ctx, entry.RegisterNumber, year)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				verrs = append(verrs, ValidationError{
					Index:          i,
					RegisterNumber: entry.RegisterNumber,
					Reason:         fmt.Sprintf("register number %d not found for %d", entry.RegisterNumber, year),
				})
				continue
			}
			return nil, err
		}
		members[i] = member
	}

	if len(verrs) > 0 {
		return nil, verrs
	}

	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.Amount)
	}

	batch := &model.EnvelopeBatch{
		BatchDate:     date,
		TotalAmount:   total,
		EnvelopeCount: len(entries),
		Status:        model.BatchSubmitted,
		CreatedBy:     s.actor,
	}

	err = s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.InsertEnvelopeBatch(ctx, batch); err != nil {
			return err
		}
		for i, entry := range entries {
			contrib := &model.Contribution{
				MemberID:         members[i].ID,
				Amount:           entry.Amount,
				ContributionDate: date,
				Reference:        fmt.Sprintf("Envelope %d", entry.RegisterNumber),
				EnvelopeBatchID:  &batch.ID,
				Type:             model.ContributionCash,
				CreatedBy:        s.actor,
				ModifiedBy:       s.actor,
			}
			if err := tx.InsertContribution(ctx, contrib); err != nil {
				return err
			}
		}
		// Inside the transaction so a failed audit write cannot leave a
		// committed batch reported as an error.
		return tx.AppendAudit(ctx, &model.AuditEntry{
			Actor:    s.actor,
			Action:   "envelope-batch-commit",
			Details:  fmt.Sprintf("date=%s envelopes=%d total=%s", date.Format("2006-01-02"), len(entries), total.StringFixed(2)),
			EntityID: batch.ID.String(),
		})
	})
	if err != nil {
		if errors.Is(err, store.ErrBatchDateTaken) {
			// Lost the race between the existence check and the insert.
			return nil, ValidationErrors{{
				Index:  -1,
				Reason: fmt.Sprintf("a batch already exists for %s", date.Format("2006-01-02")),
			}}
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"date":      date.Format("2006-01-02"),
		"envelopes": len(entries),
		"total":     total.StringFixed(2),
	}).Info("envelope batch committed")

	return &Result{
		BatchID:       batch.ID,
		BatchDate:     date,
		TotalAmount:   total,
		EnvelopeCount: len(entries),
	}, nil
}
