package envelope

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/model"
	"github.com/mtaylor99/ChurchRegister-sub001/internal/register"
	"github.com/mtaylor99/ChurchRegister-sub001/internal/store"
	"github.com/mtaylor99/ChurchRegister-sub001/pkg/logging"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newTestService builds an envelope service over a fresh store with the
// given register numbers assigned for 2025.
func newTestService(t *testing.T, registerNumbers ...int) (*Service, *store.Store) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	var rows []register.SeedRow
	for _, n := range registerNumbers {
		rows = append(rows, register.SeedRow{
			DisplayName:    "Member " + string(rune('A'+n%26)),
			RegisterNumber: n,
		})
	}
	reg := register.NewService(st)
	require.NoError(t, reg.Seed(context.Background(), rows, 2025))

	log := logging.ForComponent(logging.New("error"), "envelope")
	return NewService(st, reg, log, "test"), st
}

func TestSubmit_CommitsBatch(t *testing.T) {
	svc, st := newTestService(t, 101, 102)

	result, err := svc.Submit(context.Background(), date(2025, 6, 8), []Entry{
		{RegisterNumber: 101, Amount: dec("20.00")},
		{RegisterNumber: 102, Amount: dec("15.50")},
	})
	require.NoError(t, err)

	assert.True(t, result.TotalAmount.Equal(dec("35.50")))
	assert.Equal(t, 2, result.EnvelopeCount)
	assert.Equal(t, date(2025, 6, 8), result.BatchDate)

	// Conservation: stored totals match post-hoc summation of line items.
	batch, items, err := st.GetBatch(context.Background(), result.BatchID)
	require.NoError(t, err)
	assert.Equal(t, model.BatchSubmitted, batch.Status)
	require.Len(t, items, 2)
	assert.True(t, store.SumAmounts(items).Equal(batch.TotalAmount))
	for _, c := range items {
		assert.Equal(t, model.ContributionCash, c.Type)
		require.NotNil(t, c.EnvelopeBatchID)
		assert.Equal(t, result.BatchID, *c.EnvelopeBatchID)
		assert.Nil(t, c.BankTransactionID)
	}
}

func TestSubmit_AuditCommitsWithBatch(t *testing.T) {
	svc, st := newTestService(t, 101)
	ctx := context.Background()

	result, err := svc.Submit(ctx, date(2025, 6, 8), []Entry{
		{RegisterNumber: 101, Amount: dec("20.00")},
	})
	require.NoError(t, err)

	// The audit row is part of the commit transaction: a successful Submit
	// always leaves exactly one entry pointing at the batch.
	entries, err := st.AuditTrail(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "envelope-batch-commit", entries[0].Action)
	assert.Equal(t, result.BatchID.String(), entries[0].EntityID)

	// And a rejected submission leaves none behind.
	_, err = svc.Submit(ctx, date(2025, 6, 15), []Entry{
		{RegisterNumber: 999, Amount: dec("5.00")},
	})
	require.Error(t, err)
	entries, err = st.AuditTrail(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSubmit_SecondBatchSameDateRejected(t *testing.T) {
	svc, _ := newTestService(t, 101)

	_, err := svc.Submit(context.Background(), date(2025, 6, 8), []Entry{
		{RegisterNumber: 101, Amount: dec("20.00")},
	})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), date(2025, 6, 8), []Entry{
		{RegisterNumber: 101, Amount: dec("5.00")},
	})
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.Error(), "already exists")
}

func TestSubmit_InvalidRegisterRejectsWholeBatch(t *testing.T) {
	svc, st := newTestService(t, 101)

	_, err := svc.Submit(context.Background(), date(2025, 6, 8), []Entry{
		{RegisterNumber: 101, Amount: dec("20.00")},
		{RegisterNumber: 999, Amount: dec("15.50")},
	})
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, 1, verrs[0].Index)
	assert.Equal(t, 999, verrs[0].RegisterNumber)

	// Nothing partial was committed, not even the valid entry.
	_, _, err = st.GetBatchByDate(context.Background(), date(2025, 6, 8))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSubmit_AllFailuresReportedTogether(t *testing.T) {
	svc, _ := newTestService(t, 101)

	_, err := svc.Submit(context.Background(), date(2025, 6, 8), []Entry{
		{RegisterNumber: 101, Amount: dec("0.00")},
		{RegisterNumber: 999, Amount: dec("10.00")},
		{RegisterNumber: 101, Amount: dec("5.123")},
	})
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3, "every invalid entry named, not fail-fast")
}

func TestSubmit_NonPositiveAmountRejected(t *testing.T) {
	svc, _ := newTestService(t, 101)

	_, err := svc.Submit(context.Background(), date(2025, 6, 8), []Entry{
		{RegisterNumber: 101, Amount: dec("-5.00")},
	})
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs[0].Reason, "greater than zero")
}

func TestSubmit_EmptyBatchRejected(t *testing.T) {
	svc, _ := newTestService(t, 101)

	_, err := svc.Submit(context.Background(), date(2025, 6, 8), nil)
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.Error(), "no envelopes")
}

func TestSubmit_RegisterYearFollowsBatchDate(t *testing.T) {
	// Register numbers are per-year; a 2026 batch must not resolve through
	// the 2025 register.
	svc, _ := newTestService(t, 101)

	_, err := svc.Submit(context.Background(), date(2026, 1, 4), []Entry{
		{RegisterNumber: 101, Amount: dec("20.00")},
	})
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs[0].Reason, "not found for 2026")
}

func TestSubmit_DifferentDatesBothCommit(t *testing.T) {
	svc, _ := newTestService(t, 101)

	_, err := svc.Submit(context.Background(), date(2025, 6, 8), []Entry{
		{RegisterNumber: 101, Amount: dec("20.00")},
	})
	require.NoError(t, err)

	result, err := svc.Submit(context.Background(), date(2025, 6, 15), []Entry{
		{RegisterNumber: 101, Amount: dec("25.00")},
	})
	require.NoError(t, err)
	assert.True(t, result.TotalAmount.Equal(dec("25.00")))
}
