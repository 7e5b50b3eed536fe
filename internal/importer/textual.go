package importer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/conciliador/internal/model"
	"github.com/cleared-dev/conciliador/internal/normalize"
	"github.com/cleared-dev/conciliador/internal/ref"
)

// TextStrategy selects how extracted statement text is split into
// transactions.
type TextStrategy string

const (
	// StrategyStatement reads one transaction per dated line.
	StrategyStatement TextStrategy = "statement"
	// StrategyLines lets undated lines continue the previous description.
	StrategyLines TextStrategy = "lines"
)

// ParseTextStrategy maps a config value to a strategy; "" is statement.
func ParseTextStrategy(s string) (TextStrategy, bool) {
	switch TextStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyStatement:
		return StrategyStatement, true
	case StrategyLines:
		return StrategyLines, true
	}
	return "", false
}

var (
	// D/M[/Y] then the rest of the line
	openLine = regexp.MustCompile(`^(\d{1,2}/\d{1,2}(?:/\d{2,4})?)\s+(.+)$`)
	// D/M or D-M, optional year, then the rest of the line
	datedLine   = regexp.MustCompile(`^(\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?)\s+(.+)$`)
	amountToken = regexp.MustCompile(`^[-+]?\$?\d[\d.,]*-?$`)
	// amounts stuck to the preceding word: "Transferencia$45.000", "Abono+45.000"
	signedGlued = regexp.MustCompile(`^(.*?[^\s\d.,$+-])([-+]\$?\d[\d.,]*-?)$`)
	dollarGlued = regexp.MustCompile(`^(.*?\S)(\$\d[\d.,]*-?)$`)
	fullDate    = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-](\d{4})\b`)
)

// TextExtractor turns extracted statement text into transactions.
type TextExtractor struct {
	// Year completes D/M dates; 0 infers it from the text.
	Year int
	// Now is used when no year can be inferred.
	Now func() time.Time

	log zerolog.Logger
}

// NewTextExtractor returns an extractor that infers the statement year.
func NewTextExtractor(log zerolog.Logger) *TextExtractor {
	return &TextExtractor{Now: time.Now, log: log}
}

// Extract runs the given strategy over text.
func (e *TextExtractor) Extract(text string, strategy TextStrategy) []model.Transaction {
	if strategy == StrategyLines {
		return e.ExtractLines(text)
	}
	return e.ParseBankStatement(text)
}

type lineState int

const (
	stateIdle lineState = iota
	stateAccumulating
)

// lineScanner holds the transaction being built while lines are fed in.
type lineScanner struct {
	state lineState
	open  model.Transaction
	desc  []string
	out   []model.Transaction
}

func (s *lineScanner) start(t model.Transaction) {
	s.flush()
	s.open = t
	s.desc = nil
	if t.Description != "" {
		s.desc = append(s.desc, t.Description)
	}
	s.state = stateAccumulating
}

func (s *lineScanner) continueWith(line string) {
	if s.state == stateAccumulating {
		s.desc = append(s.desc, line)
	}
}

func (s *lineScanner) flush() {
	if s.state != stateAccumulating {
		return
	}
	s.state = stateIdle
	if s.open.Amount.IsZero() {
		return
	}
	s.open.Description = strings.Join(s.desc, " ")
	if s.open.Reference == "" {
		s.open.Reference = ref.Find(s.open.Description)
	}
	s.out = append(s.out, s.open)
}

// ExtractLines reads text where a dated line with a trailing amount opens a
// transaction and the undated lines that follow extend its description.
func (e *TextExtractor) ExtractLines(text string) []model.Transaction {
	year := e.statementYear(text)
	var s lineScanner

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		m := openLine.FindStringSubmatch(line)
		if m == nil {
			s.continueWith(line)
			continue
		}
		fields := splitGlued(strings.Fields(m[2]))
		last := len(fields) - 1
		if !amountToken.MatchString(fields[last]) {
			s.continueWith(line)
			continue
		}
		date, ok := normalize.DayMonth(m[1], year)
		if !ok {
			e.log.Debug().Str("line", line).Msg("invalid date in statement line")
		}
		token := fields[last]
		s.start(model.Transaction{
			Date:          date,
			Amount:        normalize.ParseAmount(token),
			Description:   strings.Join(fields[:last], " "),
			Type:          normalize.SignOf(token),
			RawAmountText: token,
		})
	}
	s.flush()
	return s.out
}

// ParseBankStatement reads one transaction from every line that starts with
// a date. The last amount-shaped token on the line is the amount; the rest
// is the description.
func (e *TextExtractor) ParseBankStatement(text string) []model.Transaction {
	year := e.statementYear(text)
	var txns []model.Transaction

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		m := datedLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		date, ok := normalize.DayMonth(m[1], year)
		if !ok {
			e.log.Debug().Str("line", line).Msg("skipping line with invalid date")
			continue
		}

		fields := splitGlued(strings.Fields(m[2]))
		at := -1
		for i := len(fields) - 1; i >= 0; i-- {
			if amountToken.MatchString(fields[i]) {
				at = i
				break
			}
		}
		if at < 0 {
			continue
		}
		token := fields[at]
		amount := normalize.ParseAmount(token)
		if amount.IsZero() {
			e.log.Debug().Str("line", line).Msg("skipping line with zero amount")
			continue
		}

		desc := strings.Join(append(fields[:at:at], fields[at+1:]...), " ")
		txns = append(txns, model.Transaction{
			Date:          date,
			Amount:        amount,
			Description:   desc,
			Reference:     ref.Find(desc),
			Type:          normalize.SignOf(token),
			RawAmountText: token,
		})
	}
	return txns
}

// splitGlued separates an amount stuck to the end of the last field.
func splitGlued(fields []string) []string {
	n := len(fields)
	if n == 0 || amountToken.MatchString(fields[n-1]) {
		return fields
	}
	m := signedGlued.FindStringSubmatch(fields[n-1])
	if m == nil {
		m = dollarGlued.FindStringSubmatch(fields[n-1])
	}
	if m == nil {
		return fields
	}
	return append(fields[:n-1:n-1], m[1], m[2])
}

// statementYear is the configured year, else the first full date's year,
// else the current year.
func (e *TextExtractor) statementYear(text string) int {
	if e.Year > 0 {
		return e.Year
	}
	if m := fullDate.FindStringSubmatch(text); m != nil {
		if y, err := strconv.Atoi(m[1]); err == nil {
			return y
		}
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	return now().Year()
}
