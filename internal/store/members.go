package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/model"
)

// InsertMember adds a directory entry.
func (s *Store) InsertMember(ctx context.Context, m *model.Member) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("inserting member: %w", err)
	}
	return nil
}

// InsertRegisterEntry maps a register number to a member for one year.
func (s *Store) InsertRegisterEntry(ctx context.Context, e *model.MemberRegisterEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("inserting register entry: %w", err)
	}
	return nil
}

// GetMember returns a member by id.
func (s *Store) GetMember(ctx context.Context, id uuid.UUID) (model.Member, error) {
	var m model.Member
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return model.Member{}, ErrNotFound
		}
		return model.Member{}, fmt.Errorf("loading member: %w", err)
	}
	return m, nil
}

// MemberForRegisterNumber resolves a (register number, year) pair to its
// member.
func (s *Store) MemberForRegisterNumber(ctx context.Context, registerNumber, year int) (model.Member, error) {
	var entry model.MemberRegisterEntry
	err := s.db.WithContext(ctx).
		First(&entry, "register_number = ? AND year = ?", registerNumber, year).Error
	if err != nil {
		if isNotFound(err) {
			return model.Member{}, ErrNotFound
		}
		return model.Member{}, fmt.Errorf("resolving register number %d/%d: %w", registerNumber, year, err)
	}
	return s.GetMember(ctx, entry.MemberID)
}

// MembersWithBankCodes returns every member carrying a bank reference code.
func (s *Store) MembersWithBankCodes(ctx context.Context) ([]model.Member, error) {
	var members []model.Member
	err := s.db.WithContext(ctx).
		Where("bank_reference_code <> ''").
		Order("display_name").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("listing members with bank codes: %w", err)
	}
	return members, nil
}
