package model

// MatchStatus is the confidence tier of a candidate.
type MatchStatus string

const (
	MatchHigh   MatchStatus = "high-confidence"
	MatchMedium MatchStatus = "medium-confidence"
	MatchLow    MatchStatus = "low-confidence"
	MatchNone   MatchStatus = "no-match"
)

// MatchCandidate pairs one transaction with at most one bill.
type MatchCandidate struct {
	Transaction Transaction
	Bill        *Bill // nil for no-match
	Score       int   // 0-100, zero for no-match
	Status      MatchStatus
	Reasons     []string
}

// Matched reports whether a bill was assigned.
func (m MatchCandidate) Matched() bool {
	return m.Bill != nil
}

// Stats aggregates a matching run.
type Stats struct {
	TotalTransactions int `json:"totalTransactions"`
	TotalMatches      int `json:"totalMatches"`
	HighConfidence    int `json:"highConfidence"`
	MediumConfidence  int `json:"mediumConfidence"`
	LowConfidence     int `json:"lowConfidence"`
	NoMatch           int `json:"noMatch"`
}
