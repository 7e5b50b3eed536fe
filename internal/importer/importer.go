// Package importer reads bank statements (spreadsheets, CSV exports, PDFs
// and extracted text) into normalized transactions.
package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/conciliador/internal/model"
)

// Parser converts the bytes of one statement file into transactions.
type Parser interface {
	Parse(data []byte) ([]model.Transaction, error)
	Format() Format
}

// Registry holds parsers by format.
type Registry struct {
	parsers map[Format]Parser
}

// FileInfo describes a statement waiting in the inbox directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Options tune the built-in parsers.
type Options struct {
	HeaderScanRows int
	Strategy       TextStrategy
	Year           int
	Password       string
	MaxBytes       int64
	Now            func() time.Time
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[Format]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := p.Format()
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + string(key))
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format Format) Parser {
	return r.parsers[format]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry(opts Options, log zerolog.Logger) *Registry {
	tab := NewTabularExtractor(opts.HeaderScanRows, log)
	text := NewTextExtractor(log)
	text.Year = opts.Year
	if opts.Now != nil {
		text.Now = opts.Now
	}

	r := NewRegistry()
	for _, f := range []Format{FormatXLSX, FormatXLS, FormatCSV} {
		r.Register(&SpreadsheetParser{format: f, extractor: tab})
	}
	r.Register(&PDFParser{Password: opts.Password, Strategy: opts.Strategy, extractor: text})
	r.Register(&TextParser{Strategy: opts.Strategy, extractor: text})
	return r
}

// SpreadsheetParser reads the first worksheet of a workbook or CSV export.
type SpreadsheetParser struct {
	format    Format
	extractor *TabularExtractor
}

func (p *SpreadsheetParser) Format() Format { return p.format }

func (p *SpreadsheetParser) Parse(data []byte) ([]model.Transaction, error) {
	rows, err := ReadRows(p.format, data)
	if err != nil {
		return nil, err
	}
	return p.extractor.Extract(rows), nil
}

// PDFParser reads the text layer of a PDF statement.
type PDFParser struct {
	Password  string
	Strategy  TextStrategy
	extractor *TextExtractor
}

func (p *PDFParser) Format() Format { return FormatPDF }

func (p *PDFParser) Parse(data []byte) ([]model.Transaction, error) {
	text, err := ExtractPDFText(data, p.Password)
	if err != nil {
		return nil, err
	}
	return p.extractor.Extract(text, p.Strategy), nil
}

// TextParser reads statement text that was already extracted elsewhere.
type TextParser struct {
	Strategy  TextStrategy
	extractor *TextExtractor
}

func (p *TextParser) Format() Format { return FormatText }

func (p *TextParser) Parse(data []byte) ([]model.Transaction, error) {
	return p.extractor.Extract(string(data), p.Strategy), nil
}

// Load validates a statement file and parses it with the matching parser.
func Load(name string, data []byte, opts Options, log zerolog.Logger) ([]model.Transaction, error) {
	format, err := Validate(name, data, opts.MaxBytes)
	if err != nil {
		return nil, err
	}
	return Parse(DefaultRegistry(opts, log), format, data, log.With().Str("file", name).Logger())
}

// Parse runs the registered parser for format over data.
func Parse(reg *Registry, format Format, data []byte, log zerolog.Logger) ([]model.Transaction, error) {
	p := reg.Get(format)
	if p == nil {
		return nil, fmt.Errorf("no parser registered for %s", format)
	}
	txns, err := p.Parse(data)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, ErrNoTransactions
	}
	log.Info().Str("format", string(format)).Int("transactions", len(txns)).Msg("statement parsed")
	return txns, nil
}

// processedDir is the inbox subdirectory for statements already reconciled.
const processedDir = "processed"

// Scan returns the statement files in dir, sorted by name.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading inbox: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := FormatOf(e.Name()); !ok || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// MarkProcessed moves a file from dir to dir/processed/.
func MarkProcessed(dir, fileName string) error {
	dstDir := filepath.Join(dir, processedDir)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	src := filepath.Join(dir, fileName)
	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
