package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/model"
)

// Sentinel errors returned when a storage-level constraint rejects a write.
// The application-level checks are the fast path; these are the backstop.
var (
	// ErrDuplicateTransaction means a bank transaction with the same
	// (date, reference, amount) fingerprint already exists.
	ErrDuplicateTransaction = errors.New("bank transaction already imported")
	// ErrBatchDateTaken means an envelope batch already exists for the date.
	ErrBatchDateTaken = errors.New("envelope batch already exists for date")
	// ErrContributionExists means the bank transaction is already linked to
	// a contribution.
	ErrContributionExists = errors.New("contribution already exists for bank transaction")
	// ErrNotFound is returned by lookups that find no row.
	ErrNotFound = errors.New("not found")
)

// Store wraps the contribution database. All methods take a context and run
// against either the root connection or, inside WithTx, a transaction.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the SQLite database at path and migrates
// the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	if err := db.AutoMigrate(
		&model.Member{},
		&model.MemberRegisterEntry{},
		&model.BankTransaction{},
		&model.EnvelopeBatch{},
		&model.Contribution{},
		&model.AuditEntry{},
	); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// WithTx runs fn inside a single database transaction. The Store passed to
// fn is scoped to the transaction; any error rolls the whole thing back.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// isUniqueViolation reports whether err is a storage uniqueness-constraint
// rejection, however the driver phrased it.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
