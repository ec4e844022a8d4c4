package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/dedup"
	"github.com/mtaylor99/ChurchRegister-sub001/internal/matcher"
	"github.com/mtaylor99/ChurchRegister-sub001/internal/model"
	"github.com/mtaylor99/ChurchRegister-sub001/internal/store"
)

// Summary is the structured result of one import run. Business-level
// mismatches land in the counters; only structural failures surface as
// errors from Import.
type Summary struct {
	TotalProcessed        int
	NewTransactions       int
	DuplicatesSkipped     int
	IgnoredNoMoneyIn      int
	MatchedTransactions   int
	UnmatchedTransactions int
	AmbiguousTransactions int
	TotalAmountProcessed  decimal.Decimal
	UnmatchedReferences   []string
	AmbiguousReferences   []string
}

// Service imports parsed statement rows into the contribution ledger.
type Service struct {
	store    *store.Store
	detector *dedup.Detector
	matcher  *matcher.Matcher
	log      *logrus.Entry
	actor    string
}

// NewService creates an import Service.
func NewService(st *store.Store, det *dedup.Detector, m *matcher.Matcher, log *logrus.Entry, actor string) *Service {
	return &Service{store: st, detector: det, matcher: m, log: log, actor: actor}
}

// Import processes rows in file order. Rows are independent: a duplicate,
// zero credit, or unmatched reference never aborts the rest, and each row's
// persist step is its own atomic unit, so a partial run leaves committed
// rows intact and a retry is idempotent through the duplicate detector.
func (s *Service) Import(ctx context.Context, rows []model.StatementRow) (*Summary, error) {
	summary := &Summary{TotalAmountProcessed: decimal.Zero}

	for i, row := range rows {
		summary.TotalProcessed++

		if !row.Credit.IsPositive() {
			summary.IgnoredNoMoneyIn++
			continue
		}

		result, err := s.detector.Check(ctx, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: checking duplicates: %w", i+1, err)
		}
		if result == dedup.Duplicate {
			summary.DuplicatesSkipped++
			continue
		}

		match, err := s.matcher.Match(ctx, row.Reference)
		if err != nil {
			return nil, fmt.Errorf("row %d: matching reference: %w", i+1, err)
		}

		if err := s.persistRow(ctx, row, match); err != nil {
			if errors.Is(err, store.ErrDuplicateTransaction) {
				// Lost a race with a concurrent import of the same file;
				// the fingerprint index caught it.
				summary.DuplicatesSkipped++
				continue
			}
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		summary.NewTransactions++

		switch match.Outcome {
		case matcher.Matched:
			summary.MatchedTransactions++
			summary.TotalAmountProcessed = summary.TotalAmountProcessed.Add(row.Credit)
		case matcher.Ambiguous:
			summary.AmbiguousTransactions++
			summary.AmbiguousReferences = append(summary.AmbiguousReferences, row.Reference)
			s.log.WithFields(logrus.Fields{
				"reference":  row.Reference,
				"candidates": len(match.Candidates),
			}).Warn("ambiguous bank reference, left for manual reconciliation")
		default:
			summary.UnmatchedTransactions++
			summary.UnmatchedReferences = append(summary.UnmatchedReferences, row.Reference)
		}
	}

	if err := s.store.AppendAudit(ctx, &model.AuditEntry{
		Actor:  s.actor,
		Action: "statement-import",
		Details: fmt.Sprintf("rows=%d new=%d duplicates=%d ignored=%d matched=%d unmatched=%d ambiguous=%d total=%s",
			summary.TotalProcessed, summary.NewTransactions, summary.DuplicatesSkipped,
			summary.IgnoredNoMoneyIn, summary.MatchedTransactions,
			summary.UnmatchedTransactions, summary.AmbiguousTransactions,
			summary.TotalAmountProcessed.StringFixed(2)),
	}); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"new":       summary.NewTransactions,
		"matched":   summary.MatchedTransactions,
		"unmatched": summary.UnmatchedTransactions,
	}).Info("statement import complete")

	return summary, nil
}

// persistRow writes one row atomically: the bank transaction, plus its
// contribution and processed flag when the reference matched a member.
func (s *Service) persistRow(ctx context.Context, row model.StatementRow, match matcher.Result) error {
	// Persist the trimmed reference so the stored fingerprint matches what
	// the duplicate detector queries.
	reference := strings.TrimSpace(row.Reference)

	return s.store.WithTx(ctx, func(tx *store.Store) error {
		txn := &model.BankTransaction{
			TxnDate:     row.Date,
			Description: row.Description,
			Reference:   reference,
			Amount:      row.Credit,
			CreatedBy:   s.actor,
			ModifiedBy:  s.actor,
		}
		if err := tx.InsertBankTransaction(ctx, txn); err != nil {
			return err
		}

		if match.Outcome != matcher.Matched {
			return nil
		}

		contrib := &model.Contribution{
			MemberID:          match.MemberID,
			Amount:            row.Credit,
			ContributionDate:  row.Date,
			Reference:         reference,
			BankTransactionID: &txn.ID,
			Type:              model.ContributionTransfer,
			CreatedBy:         s.actor,
			ModifiedBy:        s.actor,
		}
		if err := tx.InsertContribution(ctx, contrib); err != nil {
			return err
		}
		return tx.MarkTransactionProcessed(ctx, txn.ID, s.actor)
	})
}
