package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/model"
	"github.com/mtaylor99/ChurchRegister-sub001/internal/store"
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

func newTestLedger(t *testing.T) (*Service, *store.Store, *model.Member) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	member := &model.Member{DisplayName: "A Member"}
	require.NoError(t, st.InsertMember(context.Background(), member))

	return NewService(st, "test"), st, member
}

func post(t *testing.T, st *store.Store, member *model.Member, d time.Time, amount string, typ model.ContributionType) *model.Contribution {
	t.Helper()
	c := &model.Contribution{
		MemberID:         member.ID,
		Amount:           dec(amount),
		ContributionDate: d,
		Reference:        "test",
		Type:             typ,
	}
	require.NoError(t, st.InsertContribution(context.Background(), c))
	return c
}

func TestSumInRange(t *testing.T) {
	svc, st, member := newTestLedger(t)
	ctx := context.Background()

	post(t, st, member, date(2025, 6, 1), "10.00", model.ContributionCash)
	post(t, st, member, date(2025, 6, 8), "20.00", model.ContributionTransfer)
	post(t, st, member, date(2025, 7, 1), "40.00", model.ContributionCash)

	total, err := svc.SumInRange(ctx, date(2025, 6, 1), date(2025, 6, 30), "")
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("30.00")))

	cash, err := svc.SumInRange(ctx, date(2025, 6, 1), date(2025, 7, 31), model.ContributionCash)
	require.NoError(t, err)
	assert.True(t, cash.Equal(dec("50.00")))
}

func TestSumInRange_ExcludesSoftDeleted(t *testing.T) {
	svc, st, member := newTestLedger(t)
	ctx := context.Background()

	kept := post(t, st, member, date(2025, 6, 1), "10.00", model.ContributionCash)
	gone := post(t, st, member, date(2025, 6, 8), "20.00", model.ContributionCash)
	require.NoError(t, st.SoftDeleteContribution(ctx, gone.ID, "test"))

	total, err := svc.SumInRange(ctx, date(2025, 6, 1), date(2025, 6, 30), "")
	require.NoError(t, err)
	assert.True(t, total.Equal(kept.Amount))
}

func TestStatementForMember(t *testing.T) {
	svc, st, member := newTestLedger(t)
	ctx := context.Background()

	post(t, st, member, date(2025, 1, 5), "10.00", model.ContributionCash)
	post(t, st, member, date(2025, 12, 28), "15.00", model.ContributionTransfer)
	post(t, st, member, date(2024, 12, 29), "99.00", model.ContributionCash) // prior year

	stmt, err := svc.StatementForMember(ctx, member.ID, 2025)
	require.NoError(t, err)
	assert.Equal(t, member.DisplayName, stmt.Member.DisplayName)
	require.Len(t, stmt.Contributions, 2)
	assert.True(t, stmt.Total.Equal(dec("25.00")))
}

func TestAddManual(t *testing.T) {
	svc, st, member := newTestLedger(t)
	ctx := context.Background()

	c, err := svc.AddManual(ctx, ManualParams{
		MemberID:  member.ID,
		Amount:    dec("12.50"),
		Date:      date(2025, 6, 8),
		Reference: "Correction for batch 2025-06-01",
	})
	require.NoError(t, err)
	assert.True(t, c.Manual)
	assert.Nil(t, c.BankTransactionID)
	assert.Nil(t, c.EnvelopeBatchID)

	// The audit trail recorded it.
	entries, err := st.AuditTrail(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "manual-contribution", entries[0].Action)
}

func TestAddManual_RequiresReference(t *testing.T) {
	svc, _, member := newTestLedger(t)

	_, err := svc.AddManual(context.Background(), ManualParams{
		MemberID: member.ID,
		Amount:   dec("12.50"),
		Date:     date(2025, 6, 8),
	})
	assert.ErrorIs(t, err, ErrInvalidManualEntry)
}

func TestAddManual_RejectsNegativeAmount(t *testing.T) {
	svc, _, member := newTestLedger(t)

	_, err := svc.AddManual(context.Background(), ManualParams{
		MemberID:  member.ID,
		Amount:    dec("-5.00"),
		Date:      date(2025, 6, 8),
		Reference: "refund",
	})
	assert.ErrorIs(t, err, ErrInvalidManualEntry)
}

func importedTxn(t *testing.T, st *store.Store, d time.Time, ref, amount string) *model.BankTransaction {
	t.Helper()
	txn := &model.BankTransaction{
		TxnDate:     d,
		Description: "FASTER PAYMENT",
		Reference:   ref,
		Amount:      dec(amount),
		CreatedBy:   "test",
		ModifiedBy:  "test",
	}
	require.NoError(t, st.InsertBankTransaction(context.Background(), txn))
	return txn
}

func TestLinkTransaction(t *testing.T) {
	svc, st, member := newTestLedger(t)
	ctx := context.Background()

	txn := importedTxn(t, st, date(2025, 6, 8), "UNKNOWN99", "30.00")

	c, err := svc.LinkTransaction(ctx, txn.ID, member.ID)
	require.NoError(t, err)
	assert.True(t, c.Manual)
	assert.Equal(t, member.ID, c.MemberID)
	assert.True(t, c.Amount.Equal(dec("30.00")))
	require.NotNil(t, c.BankTransactionID)
	assert.Equal(t, txn.ID, *c.BankTransactionID)

	// The transaction left the manual-reconciliation worklist.
	got, err := st.GetBankTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.True(t, got.Processed)
	pending, err := svc.Unreconciled(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	entries, err := st.AuditTrail(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "transaction-link", entries[0].Action)
}

func TestLinkTransaction_SecondLinkRejected(t *testing.T) {
	svc, st, member := newTestLedger(t)
	ctx := context.Background()

	txn := importedTxn(t, st, date(2025, 6, 8), "UNKNOWN99", "30.00")
	_, err := svc.LinkTransaction(ctx, txn.ID, member.ID)
	require.NoError(t, err)

	_, err = svc.LinkTransaction(ctx, txn.ID, member.ID)
	assert.ErrorIs(t, err, store.ErrContributionExists)
}

func TestLinkTransaction_DeletedTransaction(t *testing.T) {
	svc, st, member := newTestLedger(t)
	ctx := context.Background()

	txn := importedTxn(t, st, date(2025, 6, 8), "UNKNOWN99", "30.00")
	require.NoError(t, st.SoftDeleteTransaction(ctx, txn.ID, "test"))

	_, err := svc.LinkTransaction(ctx, txn.ID, member.ID)
	assert.ErrorIs(t, err, ErrInvalidLink)
}

func TestLinkTransaction_UnknownMember(t *testing.T) {
	svc, st, _ := newTestLedger(t)
	ctx := context.Background()

	txn := importedTxn(t, st, date(2025, 6, 8), "UNKNOWN99", "30.00")

	_, err := svc.LinkTransaction(ctx, txn.ID, uuid.New())
	assert.ErrorIs(t, err, ErrInvalidLink)

	// The transaction stays on the worklist untouched.
	got, err := st.GetBankTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.False(t, got.Processed)
}

func TestLinkTransaction_UnknownTransaction(t *testing.T) {
	svc, _, member := newTestLedger(t)

	_, err := svc.LinkTransaction(context.Background(), uuid.New(), member.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAddManual_UnknownMember(t *testing.T) {
	svc, _, _ := newTestLedger(t)

	_, err := svc.AddManual(context.Background(), ManualParams{
		MemberID:  uuid.New(),
		Amount:    dec("5.00"),
		Date:      date(2025, 6, 8),
		Reference: "oops",
	})
	assert.ErrorIs(t, err, ErrInvalidManualEntry)
}
