package matching

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/conciliador/internal/model"
	"github.com/cleared-dev/conciliador/internal/ref"
)

// Signal weights. The four maxima add up to 100.
const (
	amountExact    = 40
	amountWithin1  = 35
	amountWithin5  = 25
	amountWithin10 = 15

	refInReference   = 30
	refInDescription = 25
	houseIDMentioned = 10

	dateSameMonth     = 15
	dateAdjacentMonth = 8

	houseLabelled = 15
	houseBare     = 8

	maxScore = 100
)

var (
	cent    = decimal.New(1, -2)
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
	five    = decimal.NewFromInt(5)
	ten     = decimal.NewFromInt(10)
)

// Score rates how well t pays b on a 0-100 scale and returns the evidence
// behind the number. The amount outcome is always recorded; the other
// signals only when they contribute.
func Score(t model.Transaction, b model.Bill) (int, []string) {
	var reasons []string
	score := 0

	pts, why := scoreAmount(t.Amount, b.Total)
	score += pts
	reasons = append(reasons, why)

	if pts, why := scoreReference(t, b); pts > 0 {
		score += pts
		reasons = append(reasons, why)
	}
	if pts, why := scoreDate(t, b); pts > 0 {
		score += pts
		reasons = append(reasons, why)
	}
	if pts, why := scoreHouse(t.Description, b.HouseID); pts > 0 {
		score += pts
		reasons = append(reasons, why)
	}

	return clamp(score), reasons
}

func scoreAmount(amount, total decimal.Decimal) (int, string) {
	diff := amount.Sub(total).Abs()
	if diff.LessThan(cent) {
		return amountExact, "Monto exacto"
	}
	if !total.IsPositive() {
		return 0, "Monto diferente"
	}

	pct := diff.Div(total).Mul(hundred)
	label := fmt.Sprintf("%s%% de diferencia", pct.StringFixed(1))
	switch {
	case pct.LessThan(one):
		return amountWithin1, "Monto similar (" + label + ")"
	case pct.LessThan(five):
		return amountWithin5, "Monto similar (" + label + ")"
	case pct.LessThan(ten):
		return amountWithin10, "Monto aproximado (" + label + ")"
	}
	return 0, "Monto diferente (" + label + ")"
}

func scoreReference(t model.Transaction, b model.Bill) (int, string) {
	billRef := strings.ToUpper(ref.ForBill(b))
	reference := strings.ToUpper(t.Reference)
	description := strings.ToUpper(t.Description)

	if reference != "" && strings.Contains(reference, billRef) {
		return refInReference, "Referencia exacta " + ref.ForBill(b)
	}
	if strings.Contains(description, billRef) {
		return refInDescription, "Referencia en la descripción"
	}
	house := strings.ToUpper(strings.TrimSpace(b.HouseID))
	if house != "" && (strings.Contains(reference, house) || strings.Contains(description, house)) {
		return houseIDMentioned, "Identificador de parcela " + b.HouseID + " mencionado"
	}
	return 0, ""
}

func scoreDate(t model.Transaction, b model.Bill) (int, string) {
	if !t.HasDate() || t.Date.Year() != b.Year {
		return 0, ""
	}
	switch diff := int(t.Date.Month()) - b.Month; diff {
	case 0:
		return dateSameMonth, "Fecha dentro del período de la cuenta"
	case -1, 1:
		return dateAdjacentMonth, "Fecha en mes adyacente al período"
	}
	return 0, ""
}

func scoreHouse(description, houseID string) (int, string) {
	n := ref.HouseNumber(houseID)
	if n == "" {
		return 0, ""
	}
	desc := strings.ToUpper(description)
	for _, label := range []string{"PARCELA " + n, "PARC " + n, "CASA " + n, "#" + n} {
		if strings.Contains(desc, label) {
			return houseLabelled, "Parcela mencionada (" + label + ")"
		}
	}
	if strings.Contains(desc, n) {
		return houseBare, "Número " + n + " presente en la descripción"
	}
	return 0, ""
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
