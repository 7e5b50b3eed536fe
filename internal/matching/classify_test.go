package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/conciliador/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		score int
		want  model.MatchStatus
	}{
		{100, model.MatchHigh},
		{80, model.MatchHigh},
		{79, model.MatchMedium},
		{60, model.MatchMedium},
		{59, model.MatchLow},
		{50, model.MatchLow},
		{49, model.MatchNone},
		{0, model.MatchNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "Classify(%d)", tt.score)
	}
}

func TestClassify_CustomThresholds(t *testing.T) {
	th := Thresholds{High: 90, Medium: 70, Low: 40, SafeMinReasons: 4}
	assert.Equal(t, model.MatchMedium, th.Classify(85))
	assert.Equal(t, model.MatchLow, th.Classify(45))
	assert.Equal(t, model.MatchNone, th.Classify(39))
}

func TestIsSafeAutoMatch(t *testing.T) {
	reasons := func(n int) []string { return make([]string, n) }
	tests := []struct {
		score   int
		reasons int
		want    bool
	}{
		{80, 3, true},
		{95, 4, true},
		{80, 2, false},
		{79, 3, false},
		{100, 0, false},
		{50, 4, false},
	}
	for _, tt := range tests {
		m := model.MatchCandidate{Score: tt.score, Reasons: reasons(tt.reasons)}
		assert.Equal(t, tt.want, IsSafeAutoMatch(m), "score=%d reasons=%d", tt.score, tt.reasons)
	}
}

func TestComputeStats(t *testing.T) {
	b := bill("b1", "house1", 2025, 1, "10")
	cands := []model.MatchCandidate{
		{Bill: &b, Score: 90, Status: model.MatchHigh},
		{Bill: &b, Score: 85, Status: model.MatchHigh},
		{Bill: &b, Score: 65, Status: model.MatchMedium},
		{Bill: &b, Score: 55, Status: model.MatchLow},
		{Status: model.MatchNone},
		{Status: model.MatchNone},
	}
	stats := ComputeStats(cands)
	assert.Equal(t, model.Stats{
		TotalTransactions: 6,
		TotalMatches:      4,
		HighConfidence:    2,
		MediumConfidence:  1,
		LowConfidence:     1,
		NoMatch:           2,
	}, stats)

	assert.Equal(t, model.Stats{}, ComputeStats(nil))
}
