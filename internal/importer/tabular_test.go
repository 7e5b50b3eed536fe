package importer

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/conciliador/internal/model"
)

func TestFindHeader(t *testing.T) {
	rows := []Row{
		{"Banco Ejemplo"},
		{"Cuenta 123-456"},
		{"Fecha", "Descripción", "Monto"},
		{"15/03/2024", "Pago", "1000"},
	}
	assert.Equal(t, 2, FindHeader(rows, DefaultHeaderScanRows))
	assert.Equal(t, 0, FindHeader(rows, 2), "header beyond scan window")
	assert.Equal(t, 0, FindHeader([]Row{{"a", "b"}, {"c"}}, DefaultHeaderScanRows))
}

func TestResolveColumns(t *testing.T) {
	tests := []struct {
		name   string
		header Row
		want   Columns
	}{
		{
			name:   "named columns",
			header: Row{"Referencia", "Fecha", "Glosa", "Monto"},
			want:   Columns{Date: 1, Amount: 3, Description: 2, Reference: 0, Debit: -1},
		},
		{
			name:   "accented and split debit credit",
			header: Row{"FECHA", "DESCRIPCIÓN", "MONTO CARGO", "MONTO ABONO"},
			want:   Columns{Date: 0, Amount: 3, Description: 1, Reference: -1, Debit: 2},
		},
		{
			name:   "combined cargo abono before description",
			header: Row{"Fecha", "Cargo/Abono", "Descripción"},
			want:   Columns{Date: 0, Amount: 1, Description: 2, Reference: -1, Debit: -1},
		},
		{
			name:   "combined cargo abono after description",
			header: Row{"Fecha", "Descripción", "Cargo / Abono"},
			want:   Columns{Date: 0, Amount: 2, Description: 1, Reference: -1, Debit: -1},
		},
		{
			name:   "fallbacks with three columns",
			header: Row{"a", "b", "c"},
			want:   Columns{Date: 0, Amount: 2, Description: 1, Reference: -1, Debit: -1},
		},
		{
			name:   "fallbacks with two columns",
			header: Row{"a", "b"},
			want:   Columns{Date: 0, Amount: 1, Description: 1, Reference: -1, Debit: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveColumns(tt.header))
		})
	}
}

func TestRow_CellOutOfRange(t *testing.T) {
	r := Row{" a ", ""}
	assert.Equal(t, "a", r.Cell(0))
	assert.Equal(t, "", r.Cell(5))
	assert.Equal(t, "", r.Cell(-1))
	assert.False(t, r.Empty())
	assert.True(t, Row{" ", ""}.Empty())
}

func TestTabularExtractor_Extract(t *testing.T) {
	raw := [][]string{
		{"Cartola de cuenta corriente"},
		{"Fecha", "Descripción", "Monto", "Referencia"},
		{"15/03/2024", "Transferencia PARCELA 12", "$150.000", ""},
		{},
		{"", "fila sin fecha", "999"},
		{"16/03/2024", "pago BILL-2024-03-house7", "85.000,50", ""},
		{"17/03/2024", "comision", "0", ""},
		{"18/03/2024", "cheque", "-20.000", "CHQ-1"},
	}

	txns := NewTabularExtractor(0, zerolog.Nop()).Extract(raw)
	require.Len(t, txns, 3)

	assert.Equal(t, "150000", txns[0].Amount.String())
	assert.Equal(t, "Transferencia PARCELA 12", txns[0].Description)
	assert.Equal(t, 2024, txns[0].Date.Year())
	assert.Equal(t, 15, txns[0].Date.Day())
	assert.Equal(t, model.TransactionIncome, txns[0].Type)
	assert.Empty(t, txns[0].Reference)

	assert.Equal(t, "85000.5", txns[1].Amount.String())
	assert.Equal(t, "BILL-2024-03-house7", txns[1].Reference)

	assert.Equal(t, "20000", txns[2].Amount.String())
	assert.Equal(t, model.TransactionExpense, txns[2].Type)
	assert.Equal(t, "CHQ-1", txns[2].Reference)

	for _, txn := range txns {
		assert.True(t, txn.Amount.IsPositive())
	}
}

func TestTabularExtractor_DebitColumn(t *testing.T) {
	raw := [][]string{
		{"Fecha", "Detalle", "Cargo", "Abono"},
		{"01/04/2024", "Gasto comun casa 3", "", "45.000"},
		{"02/04/2024", "Pago proveedor", "12.500", ""},
	}

	txns := NewTabularExtractor(0, zerolog.Nop()).Extract(raw)
	require.Len(t, txns, 2)
	assert.Equal(t, model.TransactionIncome, txns[0].Type)
	assert.Equal(t, "45000", txns[0].Amount.String())
	assert.Equal(t, model.TransactionExpense, txns[1].Type)
	assert.Equal(t, "12500", txns[1].Amount.String())
	assert.Equal(t, "12.500", txns[1].RawAmountText)
}

func TestTabularExtractor_CombinedCargoAbono(t *testing.T) {
	raw := [][]string{
		{"Fecha", "Cargo/Abono", "Descripción"},
		{"05/03/2025", "45.000", "Transferencia PARCELA 12"},
		{"06/03/2025", "-8.000", "Comision mantencion"},
	}

	txns := NewTabularExtractor(0, zerolog.Nop()).Extract(raw)
	require.Len(t, txns, 2)
	assert.Equal(t, "45000", txns[0].Amount.String())
	assert.Equal(t, model.TransactionIncome, txns[0].Type)
	assert.Equal(t, "Transferencia PARCELA 12", txns[0].Description)
	assert.Equal(t, "8000", txns[1].Amount.String())
	assert.Equal(t, model.TransactionExpense, txns[1].Type)
}

func TestTabularExtractor_SerialDates(t *testing.T) {
	raw := [][]string{
		{"fecha", "descripcion", "monto"},
		{"45366", "Pago", "1000"},
		{"no es fecha", "Pago sin fecha", "2000"},
	}

	txns := NewTabularExtractor(0, zerolog.Nop()).Extract(raw)
	require.Len(t, txns, 2)
	assert.Equal(t, "2024-03-15", txns[0].Date.Format("2006-01-02"))
	assert.False(t, txns[1].HasDate())
}

func TestTabularExtractor_Empty(t *testing.T) {
	assert.Empty(t, NewTabularExtractor(0, zerolog.Nop()).Extract(nil))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "descripcion", fold("Descripción"))
	assert.Equal(t, "ano", fold("AÑO"))
}
