// Package normalize turns raw statement tokens into canonical amounts and
// dates, following Chilean bank export conventions.
package normalize

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/conciliador/internal/model"
)

// ParseAmount converts a token like "$1.234.567,89" into its absolute
// decimal value. Unparseable input yields zero.
//
// Separator rules:
//   - both "." and ",": "." groups thousands, "," is the decimal mark
//   - only ",": decimal mark when it appears once, thousands otherwise
//   - only ".": thousands unless the last group has at most two digits
func ParseAmount(token string) decimal.Decimal {
	s := keepNumeric(token)
	if s == "" {
		return decimal.Zero
	}

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = replaceAllButLast(s, ",", "")
		s = strings.Replace(s, ",", ".", 1)
	case hasComma:
		if strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasDot:
		last := s[strings.LastIndex(s, ".")+1:]
		if len(last) > 0 && len(last) <= 2 {
			s = replaceAllButLast(s, ".", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d.Abs()
}

// SignOf infers the movement direction from the raw token: a minus sign or
// accounting parentheses mean money left the account.
func SignOf(token string) model.TransactionType {
	t := strings.TrimSpace(token)
	if strings.Contains(t, "-") || (strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")")) {
		return model.TransactionExpense
	}
	return model.TransactionIncome
}

// keepNumeric drops currency symbols, letters, signs and whitespace.
func keepNumeric(token string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == ',' {
			return r
		}
		return -1
	}, token)
}

func replaceAllButLast(s, old, repl string) string {
	n := strings.Count(s, old)
	if n <= 1 {
		return s
	}
	return strings.Replace(s, old, repl, n-1)
}
