// Package ref formats and recognizes bill reference codes of the form
// BILL-YYYY-MM-<houseID>, which payers copy into transfer descriptions.
package ref

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cleared-dev/conciliador/internal/model"
)

const prefix = "BILL"

var embedded = regexp.MustCompile(`(?i)BILL-\d{4}-\d{2}-[A-Za-z0-9]+`)

// Format returns a reference like "BILL-2025-03-house12".
func Format(year, month int, houseID string) string {
	return fmt.Sprintf("%s-%d-%02d-%s", prefix, year, month, houseID)
}

// ForBill returns the reference a payer should quote for b.
func ForBill(b model.Bill) string {
	return Format(b.Year, b.Month, b.HouseID)
}

// Parse splits "BILL-2025-03-house12" into its parts. The prefix is
// matched case-insensitively.
func Parse(ref string) (year, month int, houseID string, err error) {
	parts := strings.SplitN(strings.TrimSpace(ref), "-", 4)
	if len(parts) != 4 || !strings.EqualFold(parts[0], prefix) {
		return 0, 0, "", fmt.Errorf("invalid bill reference format: %q", ref)
	}

	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, "", fmt.Errorf("invalid year in bill reference %q: %w", ref, err)
	}

	month, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, "", fmt.Errorf("invalid month in bill reference %q: %w", ref, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, "", fmt.Errorf("month out of range in bill reference %q", ref)
	}

	if parts[3] == "" {
		return 0, 0, "", fmt.Errorf("missing house in bill reference %q", ref)
	}
	return year, month, parts[3], nil
}

// Find returns the first reference embedded in free text, or "".
func Find(text string) string {
	return embedded.FindString(text)
}

// HouseNumber strips the "house" prefix: "house12" -> "12".
func HouseNumber(houseID string) string {
	id := strings.TrimSpace(houseID)
	if len(id) >= 5 && strings.EqualFold(id[:5], "house") {
		return id[5:]
	}
	return id
}
