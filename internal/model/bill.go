package model

import "github.com/shopspring/decimal"

// BillStatus is the billing lifecycle state owned by the billing subsystem.
type BillStatus string

const (
	BillPending BillStatus = "pending"
	BillPartial BillStatus = "partial"
	BillPaid    BillStatus = "paid"
	BillOverdue BillStatus = "overdue"
)

// Valid reports whether s is a known status.
func (s BillStatus) Valid() bool {
	switch s {
	case BillPending, BillPartial, BillPaid, BillOverdue:
		return true
	}
	return false
}

// Bill is an outstanding charge for one parcel and month. Read-only here.
type Bill struct {
	ID      string
	HouseID string // e.g. "house12"
	Year    int
	Month   int // 1-12
	Total   decimal.Decimal
	Status  BillStatus
}
