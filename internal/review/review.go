// Package review writes match candidates in the shapes the portal's review
// screen imports: CSV for spreadsheets and JSON for the web client.
package review

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cleared-dev/conciliador/internal/matching"
	"github.com/cleared-dev/conciliador/internal/model"
	"github.com/cleared-dev/conciliador/internal/ref"
)

// Header is the CSV header for review exports.
const Header = "date,description,amount,type,reference,bill_id,house_id,bill_ref,score,status,safe_auto_match,reasons"

const (
	numFields  = 12
	dateFormat = "2006-01-02"
	reasonSep  = "; "
	colDate    = 0
	colDesc    = 1
	colAmount  = 2
	colType    = 3
	colRef     = 4
	colBillID  = 5
	colHouseID = 6
	colBillRef = 7
	colScore   = 8
	colStatus  = 9
	colSafe    = 10
	colReasons = 11
)

// Entry is one candidate flattened for review.
type Entry struct {
	Date          string                `json:"date,omitempty"`
	Description   string                `json:"description"`
	Amount        string                `json:"amount"`
	Type          model.TransactionType `json:"type"`
	Reference     string                `json:"reference,omitempty"`
	BillID        string                `json:"billId,omitempty"`
	HouseID       string                `json:"houseId,omitempty"`
	BillReference string                `json:"billReference,omitempty"`
	Score         int                   `json:"score"`
	Status        model.MatchStatus     `json:"status"`
	SafeAutoMatch bool                  `json:"safeAutoMatch"`
	Reasons       []string              `json:"reasons"`
}

// NewEntry flattens a candidate, classifying auto-match safety with th.
func NewEntry(m model.MatchCandidate, th matching.Thresholds) Entry {
	e := Entry{
		Description:   m.Transaction.Description,
		Amount:        m.Transaction.Amount.String(),
		Type:          m.Transaction.Type,
		Reference:     m.Transaction.Reference,
		Score:         m.Score,
		Status:        m.Status,
		SafeAutoMatch: th.IsSafeAutoMatch(m),
		Reasons:       m.Reasons,
	}
	if e.Reasons == nil {
		e.Reasons = []string{}
	}
	if m.Transaction.HasDate() {
		e.Date = m.Transaction.Date.Format(dateFormat)
	}
	if m.Bill != nil {
		e.BillID = m.Bill.ID
		e.HouseID = m.Bill.HouseID
		e.BillReference = ref.ForBill(*m.Bill)
	}
	return e
}

// Entries flattens candidates in order.
func Entries(cands []model.MatchCandidate, th matching.Thresholds) []Entry {
	out := make([]Entry, 0, len(cands))
	for _, m := range cands {
		out = append(out, NewEntry(m, th))
	}
	return out
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colDate] = e.Date
	row[colDesc] = e.Description
	row[colAmount] = e.Amount
	row[colType] = string(e.Type)
	row[colRef] = e.Reference
	row[colBillID] = e.BillID
	row[colHouseID] = e.HouseID
	row[colBillRef] = e.BillReference
	row[colScore] = strconv.Itoa(e.Score)
	row[colStatus] = string(e.Status)
	row[colSafe] = strconv.FormatBool(e.SafeAutoMatch)
	row[colReasons] = strings.Join(e.Reasons, reasonSep)
	return row
}

// WriteCSV writes entries with a header row.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Document is the JSON export of one reconciliation.
type Document struct {
	File    string      `json:"file,omitempty"`
	Entries []Entry     `json:"matches"`
	Stats   model.Stats `json:"stats"`
}

// WriteJSON writes an indented Document.
func WriteJSON(w io.Writer, doc Document) error {
	if doc.Entries == nil {
		doc.Entries = []Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding review JSON: %w", err)
	}
	return nil
}
