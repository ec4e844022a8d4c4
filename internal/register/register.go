// Package register adapts the member directory for the reconciliation
// engine: register-number resolution for envelope entry and bank-code
// lookups for reference matching. The directory itself is maintained by the
// wider parish administration system; this package only reads it, plus a
// CSV seeding path for standalone use.
package register

import (
	"context"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/matcher"
	"github.com/mtaylor99/ChurchRegister-sub001/internal/model"
	"github.com/mtaylor99/ChurchRegister-sub001/internal/store"
)

// Service answers member register and bank-code lookups.
type Service struct {
	store *store.Store
}

// NewService creates a register Service.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// MemberForRegisterNumber resolves a (register number, year) pair to its
// member. Returns store.ErrNotFound when the pair is unassigned.
func (s *Service) MemberForRegisterNumber(ctx context.Context, registerNumber, year int) (model.Member, error) {
	return s.store.MemberForRegisterNumber(ctx, registerNumber, year)
}

// MemberBankCodes returns the (member, code) pairs for every member with a
// configured bank reference code.
func (s *Service) MemberBankCodes(ctx context.Context) ([]matcher.MemberCode, error) {
	members, err := s.store.MembersWithBankCodes(ctx)
	if err != nil {
		return nil, err
	}

	codes := make([]matcher.MemberCode, 0, len(members))
	for _, m := range members {
		codes = append(codes, matcher.MemberCode{MemberID: m.ID, Code: m.BankReferenceCode})
	}
	return codes, nil
}
