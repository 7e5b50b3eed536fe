package bills

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/conciliador/internal/model"
)

func TestValidate_Clean(t *testing.T) {
	assert.Empty(t, Validate(sampleBills()))
	assert.Empty(t, Validate(nil))
}

func TestValidate_Rules(t *testing.T) {
	bill := func(id, house string, month int, total string) model.Bill {
		return model.Bill{ID: id, HouseID: house, Year: 2024, Month: month, Total: decimal.RequireFromString(total), Status: model.BillPending}
	}

	tests := []struct {
		name  string
		bills []model.Bill
		rule  Rule
		id    string
	}{
		{name: "duplicate id", bills: []model.Bill{bill("b1", "house1", 1, "10"), bill("b1", "house2", 1, "10")}, rule: RuleUniqueID, id: "b1"},
		{name: "same period", bills: []model.Bill{bill("b1", "house1", 1, "10"), bill("b2", "house1", 1, "20")}, rule: RuleOnePerPeriod, id: "b2"},
		{name: "zero total", bills: []model.Bill{bill("b1", "house1", 1, "0")}, rule: RulePositive, id: "b1"},
		{name: "sub-cent", bills: []model.Bill{bill("b1", "house1", 1, "10.005")}, rule: RuleCents, id: "b1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.bills)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.rule, errs[0].Rule)
			assert.Equal(t, tt.id, errs[0].BillID)
			assert.Contains(t, errs[0].Error(), string(tt.rule))
		})
	}
}
