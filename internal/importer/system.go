package importer

import (
	"github.com/google/uuid"

	"github.com/cleared-dev/conciliador/internal/model"
)

// DefaultDescription labels transactions that arrived without one.
const DefaultDescription = "Transacción bancaria"

// FormatTransactionsForSystem gives each transaction a fresh id and the
// shape the portal stores. Nothing is marked matched.
func FormatTransactionsForSystem(txns []model.Transaction) []model.SystemTransaction {
	out := make([]model.SystemTransaction, 0, len(txns))
	for _, t := range txns {
		st := model.SystemTransaction{
			ID:            uuid.NewString(),
			Amount:        t.Amount.Abs(),
			Description:   t.Description,
			Reference:     t.Reference,
			Type:          t.Type,
			RawAmountText: t.RawAmountText,
		}
		if st.Description == "" {
			st.Description = DefaultDescription
		}
		if t.HasDate() {
			d := t.Date
			st.Date = &d
		}
		out = append(out, st)
	}
	return out
}
