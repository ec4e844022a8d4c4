package register

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/store"
)

const sampleSeed = `display_name,bank_code,register_number
Alice Smith,SMITH01,101
Bob Jones,JONES02,102
Carol White,,103
Dan Brown,BROWN04,
`

func TestReadSeed(t *testing.T) {
	rows, err := ReadSeed(strings.NewReader(sampleSeed))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "Alice Smith", rows[0].DisplayName)
	assert.Equal(t, "SMITH01", rows[0].BankCode)
	assert.Equal(t, 101, rows[0].RegisterNumber)

	// Bank code and register number are each optional.
	assert.Empty(t, rows[2].BankCode)
	assert.Zero(t, rows[3].RegisterNumber)
}

func TestReadSeed_RejectsBadRows(t *testing.T) {
	_, err := ReadSeed(strings.NewReader("display_name,bank_code,register_number\n,X,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "display name is required")

	_, err = ReadSeed(strings.NewReader("display_name,bank_code,register_number\nA,X,-2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
}

func TestSeed_AtomicOnBadRow(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	svc := NewService(st)
	ctx := context.Background()

	// The third row reuses register number 101 for the same year and fails
	// the unique index; the earlier rows must roll back with it.
	err = svc.Seed(ctx, []SeedRow{
		{DisplayName: "Alice Smith", BankCode: "SMITH01", RegisterNumber: 101},
		{DisplayName: "Bob Jones", BankCode: "JONES02", RegisterNumber: 102},
		{DisplayName: "Carol White", RegisterNumber: 101},
	}, 2025)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")

	codes, err := svc.MemberBankCodes(ctx)
	require.NoError(t, err)
	assert.Empty(t, codes, "no partial directory after a failed seed")

	_, err = svc.MemberForRegisterNumber(ctx, 101, 2025)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSeedAndLookup(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	svc := NewService(st)
	ctx := context.Background()

	rows, err := ReadSeed(strings.NewReader(sampleSeed))
	require.NoError(t, err)
	require.NoError(t, svc.Seed(ctx, rows, 2025))

	member, err := svc.MemberForRegisterNumber(ctx, 101, 2025)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", member.DisplayName)

	// Dan Brown has no register number for 2025.
	_, err = svc.MemberForRegisterNumber(ctx, 104, 2025)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Only members with bank codes appear in the matcher feed.
	codes, err := svc.MemberBankCodes(ctx)
	require.NoError(t, err)
	require.Len(t, codes, 3)
	got := make([]string, len(codes))
	for i, c := range codes {
		got[i] = c.Code
	}
	assert.ElementsMatch(t, []string{"SMITH01", "JONES02", "BROWN04"}, got)
}
