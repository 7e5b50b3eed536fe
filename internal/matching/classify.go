package matching

import "github.com/cleared-dev/conciliador/internal/model"

// Thresholds are the score cut-offs for each confidence tier.
type Thresholds struct {
	High           int
	Medium         int
	Low            int
	SafeMinReasons int // evidence lines required for unattended confirmation
}

// DefaultThresholds returns the 80/60/50 tiers with three reasons for auto-match.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 80, Medium: 60, Low: 50, SafeMinReasons: 3}
}

// Classify buckets a score into a tier.
func (th Thresholds) Classify(score int) model.MatchStatus {
	switch {
	case score >= th.High:
		return model.MatchHigh
	case score >= th.Medium:
		return model.MatchMedium
	case score >= th.Low:
		return model.MatchLow
	}
	return model.MatchNone
}

// IsSafeAutoMatch reports whether m may be confirmed without a human.
func (th Thresholds) IsSafeAutoMatch(m model.MatchCandidate) bool {
	return m.Score >= th.High && len(m.Reasons) >= th.SafeMinReasons
}

// Classify buckets a score using the default thresholds.
func Classify(score int) model.MatchStatus {
	return DefaultThresholds().Classify(score)
}

// IsSafeAutoMatch applies the default thresholds.
func IsSafeAutoMatch(m model.MatchCandidate) bool {
	return DefaultThresholds().IsSafeAutoMatch(m)
}

// ComputeStats tallies a candidate list.
func ComputeStats(candidates []model.MatchCandidate) model.Stats {
	stats := model.Stats{TotalTransactions: len(candidates)}
	for _, c := range candidates {
		if c.Matched() {
			stats.TotalMatches++
		}
		switch c.Status {
		case model.MatchHigh:
			stats.HighConfidence++
		case model.MatchMedium:
			stats.MediumConfidence++
		case model.MatchLow:
			stats.LowConfidence++
		default:
			stats.NoMatch++
		}
	}
	return stats
}
