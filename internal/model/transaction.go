package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a bank movement.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Transaction is a normalized bank-statement line item.
type Transaction struct {
	Date          time.Time       // zero when the statement had no usable date
	Amount        decimal.Decimal // always >= 0; direction lives in Type
	Description   string
	Reference     string // empty when none was found
	Type          TransactionType
	RawAmountText string // original token, kept for audit
}

// HasDate reports whether the transaction carries a calendar date.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// SystemTransaction is a Transaction shaped for the portal's review screens.
type SystemTransaction struct {
	ID            string          `json:"id"`
	Date          *time.Time      `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Reference     string          `json:"reference,omitempty"`
	Type          TransactionType `json:"type"`
	RawAmountText string          `json:"rawAmountText,omitempty"`
	Matched       bool            `json:"matched"`
}
