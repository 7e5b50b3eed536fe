// Package matching scores bank transactions against outstanding bills and
// assigns each bill to at most one transaction.
//
// Assignment is greedy and order-dependent: transactions are processed in
// input order and each claims the best bill still free. A later, better
// fitting transaction can therefore lose a contested bill.
//
// Example usage:
//
//	m := matching.NewMatcher(matching.DefaultConfig(), log)
//	result := m.Run(transactions, bills)
//	for _, c := range result.Candidates {
//		...
//	}
package matching

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/conciliador/internal/model"
)

// Config controls the matcher.
type Config struct {
	Thresholds Thresholds
}

// DefaultConfig returns the production tiers.
func DefaultConfig() Config {
	return Config{Thresholds: DefaultThresholds()}
}

// Matcher assigns transactions to bills.
type Matcher struct {
	config Config
	log    zerolog.Logger
}

// NewMatcher creates a matcher with the given config.
func NewMatcher(config Config, log zerolog.Logger) *Matcher {
	return &Matcher{config: config, log: log}
}

// Result is the outcome of one matching run.
type Result struct {
	Candidates []model.MatchCandidate // sorted by score, highest first
	Assigned   []bool                 // indexed like the input bills
	Stats      model.Stats
}

// Run matches every transaction. Each transaction yields exactly one
// candidate; bills are used at most once.
func (m *Matcher) Run(transactions []model.Transaction, bills []model.Bill) Result {
	assigned := make([]bool, len(bills))
	candidates := make([]model.MatchCandidate, 0, len(transactions))

	for i, txn := range transactions {
		best := -1
		bestScore := 0
		var bestReasons []string

		for j := range bills {
			if assigned[j] {
				continue
			}
			score, reasons := Score(txn, bills[j])
			if score < m.config.Thresholds.Low || score <= bestScore {
				continue
			}
			best, bestScore, bestReasons = j, score, reasons
		}

		if best < 0 {
			candidates = append(candidates, model.MatchCandidate{
				Transaction: txn,
				Status:      model.MatchNone,
			})
			continue
		}

		assigned[best] = true
		bill := bills[best]
		status := m.config.Thresholds.Classify(bestScore)
		m.log.Debug().
			Int("transaction", i).
			Str("bill", bill.ID).
			Int("score", bestScore).
			Str("status", string(status)).
			Msg("bill assigned")

		candidates = append(candidates, model.MatchCandidate{
			Transaction: txn,
			Bill:        &bill,
			Score:       bestScore,
			Status:      status,
			Reasons:     bestReasons,
		})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Score > candidates[b].Score
	})

	return Result{
		Candidates: candidates,
		Assigned:   assigned,
		Stats:      ComputeStats(candidates),
	}
}

// Match returns only the candidates of Run.
func (m *Matcher) Match(transactions []model.Transaction, bills []model.Bill) []model.MatchCandidate {
	return m.Run(transactions, bills).Candidates
}

// MatchTransactionsToBills runs a matcher with default thresholds and no logging.
func MatchTransactionsToBills(transactions []model.Transaction, bills []model.Bill) []model.MatchCandidate {
	return NewMatcher(DefaultConfig(), zerolog.Nop()).Match(transactions, bills)
}
