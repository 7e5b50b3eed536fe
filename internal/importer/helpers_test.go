package importer

import (
	"time"

	"github.com/shopspring/decimal"
)

func amountOf(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
