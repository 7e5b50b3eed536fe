package bills

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/conciliador/internal/model"
	"github.com/cleared-dev/conciliador/internal/ref"
)

// Rule names a bill export check.
type Rule string

const (
	RuleUniqueID     Rule = "unique-id"
	RuleOnePerPeriod Rule = "one-per-period"
	RulePositive     Rule = "positive-total"
	RuleCents        Rule = "cents"
)

// ValidationError describes a single problem in a bill export.
type ValidationError struct {
	Rule        Rule
	BillID      string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Rule, e.BillID, e.Description)
}

var hundred = decimal.NewFromInt(100)

// Validate checks an export for problems that make matching ambiguous or
// meaningless. Matching still runs; callers decide what to do.
func Validate(bills []model.Bill) []ValidationError {
	var errs []ValidationError

	seenID := make(map[string]bool, len(bills))
	seenPeriod := make(map[string]string, len(bills))
	for _, b := range bills {
		if seenID[b.ID] {
			errs = append(errs, ValidationError{
				Rule:        RuleUniqueID,
				BillID:      b.ID,
				Description: "duplicate bill id",
			})
		}
		seenID[b.ID] = true

		// Two bills share a reference code when house and period repeat.
		key := ref.ForBill(b)
		if first, ok := seenPeriod[key]; ok {
			errs = append(errs, ValidationError{
				Rule:        RuleOnePerPeriod,
				BillID:      b.ID,
				Description: fmt.Sprintf("same house and month as bill %s (%s)", first, key),
			})
		} else {
			seenPeriod[key] = b.ID
		}

		if !b.Total.IsPositive() {
			errs = append(errs, ValidationError{
				Rule:        RulePositive,
				BillID:      b.ID,
				Description: fmt.Sprintf("total %s is not positive", b.Total),
			})
		}
		if scaled := b.Total.Mul(hundred); !scaled.Equal(scaled.Floor()) {
			errs = append(errs, ValidationError{
				Rule:        RuleCents,
				BillID:      b.ID,
				Description: fmt.Sprintf("total %s has more than 2 decimal places", b.Total),
			})
		}
	}
	return errs
}
