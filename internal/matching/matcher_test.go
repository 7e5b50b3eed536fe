package matching

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/conciliador/internal/model"
)

func strongPayment(house string, amt string) model.Transaction {
	return model.Transaction{
		Date:        date(2025, time.March, 3),
		Amount:      amount(amt),
		Reference:   "BILL-2025-03-" + house,
		Description: "TRANSFERENCIA GGCC",
		Type:        model.TransactionIncome,
	}
}

func TestMatch_EmptyBills(t *testing.T) {
	txns := []model.Transaction{
		strongPayment("house1", "45000"),
		strongPayment("house2", "30000"),
		{Amount: amount("100")},
	}

	got := MatchTransactionsToBills(txns, nil)
	require.Len(t, got, len(txns))
	for _, c := range got {
		assert.Nil(t, c.Bill)
		assert.Equal(t, model.MatchNone, c.Status)
		assert.Equal(t, 0, c.Score)
	}
}

func TestMatch_GreedyFirstTransactionWins(t *testing.T) {
	b := bill("b1", "house12", 2025, 3, "45000")
	first := strongPayment("house12", "45000")
	first.Description = "PRIMERO"
	second := strongPayment("house12", "45000")
	second.Description = "SEGUNDO"

	s1, _ := Score(first, b)
	s2, _ := Score(second, b)
	require.Equal(t, s1, s2)
	require.GreaterOrEqual(t, s1, 80)

	got := MatchTransactionsToBills([]model.Transaction{first, second}, []model.Bill{b})
	require.Len(t, got, 2)

	assert.Equal(t, "PRIMERO", got[0].Transaction.Description)
	require.NotNil(t, got[0].Bill)
	assert.Equal(t, "b1", got[0].Bill.ID)

	assert.Equal(t, "SEGUNDO", got[1].Transaction.Description)
	assert.Nil(t, got[1].Bill)
	assert.Equal(t, model.MatchNone, got[1].Status)
}

func TestMatch_GreedyIsOrderDependent(t *testing.T) {
	// The weak payment comes first and takes the only bill it clears.
	b := bill("b1", "house5", 2025, 3, "40000")
	weak := model.Transaction{Date: date(2025, time.March, 2), Amount: amount("40000"), Description: "ABONO"}
	strong := strongPayment("house5", "40000")

	got := NewMatcher(DefaultConfig(), zerolog.Nop()).Run([]model.Transaction{weak, strong}, []model.Bill{b})
	require.Len(t, got.Candidates, 2)

	var matched, unmatched model.MatchCandidate
	for _, c := range got.Candidates {
		if c.Matched() {
			matched = c
		} else {
			unmatched = c
		}
	}
	assert.Equal(t, "ABONO", matched.Transaction.Description)
	assert.Equal(t, strong.Reference, unmatched.Transaction.Reference)
	assert.Equal(t, []bool{true}, got.Assigned)
}

func TestMatch_EachBillUsedOnce(t *testing.T) {
	bills := []model.Bill{
		bill("b1", "house1", 2025, 3, "45000"),
		bill("b2", "house2", 2025, 3, "45000"),
		bill("b3", "house3", 2025, 3, "30000"),
	}
	txns := []model.Transaction{
		strongPayment("house2", "45000"),
		strongPayment("house1", "45000"),
		{Date: date(2025, time.March, 9), Amount: amount("45000"), Description: "PAGO CASA 9"},
		strongPayment("house3", "30000"),
		{Amount: amount("1"), Description: "COMISION"},
	}

	result := NewMatcher(DefaultConfig(), zerolog.Nop()).Run(txns, bills)
	require.Len(t, result.Candidates, len(txns))

	seen := make(map[string]bool)
	for _, c := range result.Candidates {
		if c.Bill == nil {
			continue
		}
		assert.False(t, seen[c.Bill.ID], "bill %s assigned twice", c.Bill.ID)
		seen[c.Bill.ID] = true
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, []bool{true, true, true}, result.Assigned)
	assert.Equal(t, 5, result.Stats.TotalTransactions)
	assert.Equal(t, 3, result.Stats.TotalMatches)
	assert.Equal(t, 2, result.Stats.NoMatch)
}

func TestMatch_PicksHighestScoringBill(t *testing.T) {
	bills := []model.Bill{
		bill("wrong", "house4", 2025, 3, "45000"),
		bill("right", "house12", 2025, 3, "45000"),
	}
	txn := model.Transaction{Date: date(2025, time.March, 4), Amount: amount("45000"), Description: "GGCC PARCELA 12"}

	got := MatchTransactionsToBills([]model.Transaction{txn}, bills)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Bill)
	assert.Equal(t, "right", got[0].Bill.ID)
	assert.Equal(t, 70, got[0].Score)
}

func TestMatch_BelowThresholdIsNoMatch(t *testing.T) {
	b := bill("b1", "house7", 2025, 3, "45000")
	txn := model.Transaction{Amount: amount("44000"), Description: "TRANSFERENCIA"}

	score, _ := Score(txn, b)
	require.Less(t, score, 50)

	got := MatchTransactionsToBills([]model.Transaction{txn}, []model.Bill{b})
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Bill)
	assert.Equal(t, 0, got[0].Score)
	assert.Nil(t, got[0].Reasons)
}

func TestMatch_SortedByScoreDescending(t *testing.T) {
	bills := []model.Bill{
		bill("low", "house8", 2025, 3, "20000"),
		bill("high", "house9", 2025, 3, "45000"),
	}
	txns := []model.Transaction{
		{Amount: amount("1"), Description: "COMISION"},
		{Date: date(2025, time.March, 4), Amount: amount("20000"), Description: "ABONO"},
		strongPayment("house9", "45000"),
	}

	got := MatchTransactionsToBills(txns, bills)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
	assert.Equal(t, "high", got[0].Bill.ID)
	assert.Nil(t, got[2].Bill)
}

func TestMatch_DoesNotMutateBills(t *testing.T) {
	bills := []model.Bill{bill("b1", "house1", 2025, 3, "45000")}
	got := MatchTransactionsToBills([]model.Transaction{strongPayment("house1", "45000")}, bills)
	require.NotNil(t, got[0].Bill)

	got[0].Bill.Status = model.BillPaid
	assert.Equal(t, model.BillPending, bills[0].Status)
}
