package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var dayMonthYear = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})`)

// Generic layouts tried after the day-first forms.
var layouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02.01.2006",
	"2.1.2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
	"2 Jan 2006",
	"Jan 2, 2006",
	"02/01/06",
	"2/1/06",
}

// Serials outside this window are amounts or ids, not dates (1900-01-01 to 9999-12-31).
var serialToken = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

const (
	minSerial = 1
	maxSerial = 2958465
)

// ParseDate interprets a spreadsheet serial, a D/M/YYYY string or a generic
// date string. ok is false when no interpretation fits.
func ParseDate(token string) (t time.Time, ok bool) {
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()

	s := strings.TrimSpace(token)
	if s == "" {
		return time.Time{}, false
	}

	if serialToken.MatchString(s) {
		serial, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, false
		}
		return fromSerial(serial)
	}

	if m := dayMonthYear.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return civil(year, month, day)
	}

	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return truncate(parsed), true
		}
	}
	return time.Time{}, false
}

// DayMonth builds a date from a "D/M" statement token and an inferred year.
func DayMonth(token string, year int) (time.Time, bool) {
	parts := strings.FieldsFunc(strings.TrimSpace(token), func(r rune) bool {
		return r == '/' || r == '-'
	})
	if len(parts) < 2 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	if len(parts) > 2 {
		y, err := strconv.Atoi(parts[2])
		if err != nil {
			return time.Time{}, false
		}
		if y < 100 {
			y += 2000
		}
		year = y
	}
	return civil(year, month, day)
}

func fromSerial(serial float64) (time.Time, bool) {
	if serial < minSerial || serial > maxSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return truncate(t), true
}

// civil rejects overflowing values such as 31/02 instead of rolling them over.
func civil(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
