package envelope

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError describes a single rejected line item or batch-level
// precondition failure. Index is the zero-based position in the submitted
// entry list, or -1 for batch-level failures.
type ValidationError struct {
	Index          int
	RegisterNumber int
	Reason         string
}

func (e ValidationError) Error() string {
	if e.Index < 0 {
		return e.Reason
	}
	return fmt.Sprintf("entry %d (register %d): %s", e.Index+1, e.RegisterNumber, e.Reason)
}

// ValidationErrors aggregates every failure found in a submission. The whole
// batch is rejected when any entry is invalid; failures are collected, not
// reported one at a time.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return "batch validation failed: " + strings.Join(msgs, "; ")
}

// exactPence reports whether amount has at most two decimal places.
func exactPence(amount decimal.Decimal) bool {
	hundred := decimal.NewFromInt(100)
	scaled := amount.Mul(hundred)
	return scaled.Equal(scaled.Floor())
}
