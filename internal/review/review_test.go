package review

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/conciliador/internal/matching"
	"github.com/cleared-dev/conciliador/internal/model"
)

func candidates() []model.MatchCandidate {
	bill := &model.Bill{ID: "b1", HouseID: "house12", Year: 2024, Month: 3, Total: decimal.NewFromInt(150000), Status: model.BillPending}
	return []model.MatchCandidate{
		{
			Transaction: model.Transaction{
				Date:        time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
				Amount:      decimal.NewFromInt(150000),
				Description: "Transferencia, PARCELA 12",
				Type:        model.TransactionIncome,
			},
			Bill:    bill,
			Score:   85,
			Status:  model.MatchHigh,
			Reasons: []string{"Monto exacto", "Mismo mes", "Parcela 12 mencionada"},
		},
		{
			Transaction: model.Transaction{
				Amount:      decimal.NewFromInt(999),
				Description: "Comision",
				Type:        model.TransactionExpense,
			},
			Status: model.MatchNone,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Entries(candidates(), matching.DefaultThresholds())))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Len(t, records[0], numFields)

	first := records[1]
	assert.Equal(t, "2024-03-05", first[colDate])
	assert.Equal(t, "Transferencia, PARCELA 12", first[colDesc])
	assert.Equal(t, "150000", first[colAmount])
	assert.Equal(t, "b1", first[colBillID])
	assert.Equal(t, "BILL-2024-03-house12", first[colBillRef])
	assert.Equal(t, "85", first[colScore])
	assert.Equal(t, "true", first[colSafe])
	assert.Equal(t, "Monto exacto; Mismo mes; Parcela 12 mencionada", first[colReasons])

	second := records[2]
	assert.Empty(t, second[colDate])
	assert.Empty(t, second[colBillID])
	assert.Equal(t, "no-match", second[colStatus])
	assert.Equal(t, "false", second[colSafe])
}

func TestWriteJSON(t *testing.T) {
	cands := candidates()
	doc := Document{
		File:    "cartola.xlsx",
		Entries: Entries(cands, matching.DefaultThresholds()),
		Stats:   matching.ComputeStats(cands),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, doc))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "cartola.xlsx", got["file"])

	matches := got["matches"].([]any)
	require.Len(t, matches, 2)
	second := matches[1].(map[string]any)
	assert.Equal(t, []any{}, second["reasons"])
	assert.NotContains(t, second, "billId")

	stats := got["stats"].(map[string]any)
	assert.EqualValues(t, 2, stats["totalTransactions"])
	assert.EqualValues(t, 1, stats["highConfidence"])
}

func TestWriteJSON_EmptyEntries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Document{}))
	assert.Contains(t, buf.String(), `"matches": []`)
}
