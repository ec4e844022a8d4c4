// Package matcher resolves raw bank transaction references to members via
// each member's stable bank reference code.
package matcher

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Outcome is the kind of match result.
type Outcome int

const (
	// Matched means exactly one member's code matched the reference.
	Matched Outcome = iota
	// Unmatched means no member's code matched; the raw reference is kept
	// for manual reconciliation.
	Unmatched
	// Ambiguous means the substring fallback matched more than one member.
	// Never resolved automatically.
	Ambiguous
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case Ambiguous:
		return "ambiguous"
	default:
		return "unmatched"
	}
}

// Result is a tagged match result. MemberID is set only for Matched;
// Candidates only for Ambiguous; RawReference is always retained.
type Result struct {
	Outcome      Outcome
	MemberID     uuid.UUID
	RawReference string
	Candidates   []uuid.UUID
}

// MemberCode pairs a member with their bank reference code.
type MemberCode struct {
	MemberID uuid.UUID
	Code     string
}

// CodeDirectory supplies the member bank codes, typically from the member
// directory store. Code uniqueness is the directory's invariant, not ours.
type CodeDirectory interface {
	MemberBankCodes(ctx context.Context) ([]MemberCode, error)
}

// Matcher matches references against the directory's codes.
type Matcher struct {
	dir CodeDirectory
}

// NewMatcher creates a Matcher over a code directory.
func NewMatcher(dir CodeDirectory) *Matcher {
	return &Matcher{dir: dir}
}

// Match resolves a raw reference string. Policy: case-insensitive,
// whitespace-trimmed exact match first; failing that, a "reference contains
// code" fallback, since bank systems often wrap the configured reference in
// free text. Multiple fallback hits are Ambiguous.
func (m *Matcher) Match(ctx context.Context, rawReference string) (Result, error) {
	codes, err := m.dir.MemberBankCodes(ctx)
	if err != nil {
		return Result{}, err
	}

	ref := normalize(rawReference)
	if ref == "" {
		return Result{Outcome: Unmatched, RawReference: rawReference}, nil
	}

	for _, mc := range codes {
		if code := normalize(mc.Code); code != "" && code == ref {
			return Result{Outcome: Matched, MemberID: mc.MemberID, RawReference: rawReference}, nil
		}
	}

	var candidates []uuid.UUID
	for _, mc := range codes {
		if code := normalize(mc.Code); code != "" && strings.Contains(ref, code) {
			candidates = append(candidates, mc.MemberID)
		}
	}

	switch len(candidates) {
	case 0:
		return Result{Outcome: Unmatched, RawReference: rawReference}, nil
	case 1:
		return Result{Outcome: Matched, MemberID: candidates[0], RawReference: rawReference}, nil
	default:
		return Result{Outcome: Ambiguous, RawReference: rawReference, Candidates: candidates}, nil
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
