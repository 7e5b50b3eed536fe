package importer

import (
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cleared-dev/conciliador/internal/model"
	"github.com/cleared-dev/conciliador/internal/normalize"
	"github.com/cleared-dev/conciliador/internal/ref"
)

// DefaultHeaderScanRows is how many leading rows are searched for a header.
const DefaultHeaderScanRows = 10

var headerKeywords = []string{"fecha", "monto", "descripcion", "referencia", "abono", "cargo"}

// Row is one worksheet row of raw cell text.
type Row []string

// Cell returns the trimmed cell at i, or "" when out of range.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[i])
}

// Empty reports whether every cell is blank.
func (r Row) Empty() bool {
	for i := range r {
		if r.Cell(i) != "" {
			return false
		}
	}
	return true
}

// Columns maps statement roles to cell indices; -1 means absent.
type Columns struct {
	Date        int
	Amount      int
	Description int
	Reference   int
	Debit       int // separate "cargo" column in two-column exports
}

// ResolveColumns reads the role of each header cell and fills in the
// positional fallbacks for roles that were not found.
func ResolveColumns(header Row) Columns {
	cols := Columns{Date: -1, Amount: -1, Description: -1, Reference: -1, Debit: -1}
	set := func(idx *int, i int) {
		if *idx < 0 {
			*idx = i
		}
	}

	for i := range header {
		h := fold(header.Cell(i))
		switch {
		case h == "":
		case strings.Contains(h, "fecha"):
			set(&cols.Date, i)
		case strings.Contains(h, "cargo") && !strings.Contains(h, "abono"):
			set(&cols.Debit, i)
		case strings.Contains(h, "abono"), strings.Contains(h, "monto"):
			set(&cols.Amount, i)
		case strings.Contains(h, "descripcion"), strings.Contains(h, "detalle"), strings.Contains(h, "glosa"):
			set(&cols.Description, i)
		case strings.Contains(h, "referencia"), strings.Contains(h, "ref"):
			set(&cols.Reference, i)
		}
	}

	if cols.Date < 0 {
		cols.Date = 0
	}
	if cols.Amount < 0 {
		cols.Amount = 1
		if len(header) > 2 {
			cols.Amount = 2
		}
	}
	if cols.Description < 0 {
		cols.Description = 1
	}
	return cols
}

// FindHeader returns the index of the first of the leading scan rows whose
// text mentions a statement keyword, or 0.
func FindHeader(rows []Row, scan int) int {
	for i := 0; i < len(rows) && i < scan; i++ {
		text := fold(strings.Join(rows[i], " "))
		for _, kw := range headerKeywords {
			if strings.Contains(text, kw) {
				return i
			}
		}
	}
	return 0
}

// TabularExtractor turns worksheet rows into transactions.
type TabularExtractor struct {
	scanRows int
	log      zerolog.Logger
}

// NewTabularExtractor creates an extractor; scanRows <= 0 uses the default.
func NewTabularExtractor(scanRows int, log zerolog.Logger) *TabularExtractor {
	if scanRows <= 0 {
		scanRows = DefaultHeaderScanRows
	}
	return &TabularExtractor{scanRows: scanRows, log: log}
}

// Extract returns one transaction per usable row, in row order. Rows
// without a positive amount are skipped.
func (e *TabularExtractor) Extract(raw [][]string) []model.Transaction {
	rows := make([]Row, len(raw))
	for i, r := range raw {
		rows[i] = Row(r)
	}
	if len(rows) == 0 {
		return nil
	}

	headerIdx := FindHeader(rows, e.scanRows)
	cols := ResolveColumns(rows[headerIdx])
	e.log.Debug().
		Int("header_row", headerIdx+1).
		Int("date_col", cols.Date).
		Int("amount_col", cols.Amount).
		Int("description_col", cols.Description).
		Int("reference_col", cols.Reference).
		Int("debit_col", cols.Debit).
		Msg("resolved statement columns")

	var txns []model.Transaction
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if row.Empty() || row.Cell(0) == "" {
			continue
		}
		txn, ok := e.extractRow(row, cols)
		if !ok {
			e.log.Warn().
				Int("row", i+1).
				Str("amount", row.Cell(cols.Amount)).
				Msg("skipping row without a positive amount")
			continue
		}
		txns = append(txns, txn)
	}
	return txns
}

func (e *TabularExtractor) extractRow(row Row, cols Columns) (model.Transaction, bool) {
	raw := row.Cell(cols.Amount)
	amount := normalize.ParseAmount(raw)
	kind := normalize.SignOf(raw)

	if amount.IsZero() && cols.Debit >= 0 {
		if debit := row.Cell(cols.Debit); debit != "" {
			raw = debit
			amount = normalize.ParseAmount(debit)
			kind = model.TransactionExpense
		}
	}
	if !amount.IsPositive() {
		return model.Transaction{}, false
	}

	date, _ := normalize.ParseDate(row.Cell(cols.Date))
	description := row.Cell(cols.Description)
	reference := row.Cell(cols.Reference)
	if reference == "" {
		reference = ref.Find(description)
	}

	return model.Transaction{
		Date:          date,
		Amount:        amount,
		Description:   description,
		Reference:     reference,
		Type:          kind,
		RawAmountText: raw,
	}, true
}

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lower-cases and strips accents so "Descripción" matches "descripcion".
func fold(s string) string {
	out, _, err := transform.String(foldAccents, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
