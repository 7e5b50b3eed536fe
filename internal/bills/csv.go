// Package bills reads the outstanding bills a statement is reconciled
// against from a CSV export of the community's bill store.
package bills

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/conciliador/internal/model"
)

const (
	numFields = 6
	colID     = 0
	colHouse  = 1
	colYear   = 2
	colMonth  = 3
	colTotal  = 4
	colStatus = 5
)

var header = []string{"id", "house_id", "year", "month", "total", "status"}

// ReadBills reads a bills CSV. The first row is the header.
func ReadBills(r io.Reader) ([]model.Bill, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading bills CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var bills []model.Bill
	for i, rec := range records[1:] {
		b, err := UnmarshalBill(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		bills = append(bills, b)
	}
	return bills, nil
}

// WriteBills writes bills with a header row.
func WriteBills(w io.Writer, bills []model.Bill) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, b := range bills {
		if err := cw.Write(MarshalBill(b)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalBill converts a Bill to a CSV row.
func MarshalBill(b model.Bill) []string {
	row := make([]string, numFields)
	row[colID] = b.ID
	row[colHouse] = b.HouseID
	row[colYear] = strconv.Itoa(b.Year)
	row[colMonth] = strconv.Itoa(b.Month)
	row[colTotal] = b.Total.String()
	row[colStatus] = string(b.Status)
	return row
}

// UnmarshalBill converts a CSV row to a Bill.
func UnmarshalBill(record []string) (model.Bill, error) {
	if len(record) != numFields {
		return model.Bill{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	year, err := strconv.Atoi(record[colYear])
	if err != nil {
		return model.Bill{}, fmt.Errorf("parsing year %q: %w", record[colYear], err)
	}
	month, err := strconv.Atoi(record[colMonth])
	if err != nil {
		return model.Bill{}, fmt.Errorf("parsing month %q: %w", record[colMonth], err)
	}
	if month < 1 || month > 12 {
		return model.Bill{}, fmt.Errorf("month %d out of range", month)
	}
	total, err := decimal.NewFromString(record[colTotal])
	if err != nil {
		return model.Bill{}, fmt.Errorf("parsing total %q: %w", record[colTotal], err)
	}
	status := model.BillStatus(strings.ToLower(record[colStatus]))
	if !status.Valid() {
		return model.Bill{}, fmt.Errorf("unknown status %q", record[colStatus])
	}
	if record[colHouse] == "" {
		return model.Bill{}, fmt.Errorf("bill %s has no house_id", record[colID])
	}

	return model.Bill{
		ID:      record[colID],
		HouseID: record[colHouse],
		Year:    year,
		Month:   month,
		Total:   total,
		Status:  status,
	}, nil
}
