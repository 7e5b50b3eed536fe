package importer

import (
	"errors"
	"fmt"
)

// ErrNoTransactions means the file was readable but held no usable rows.
var ErrNoTransactions = errors.New("no transactions found in statement")

// FileFormatError rejects a file before any parsing happens.
type FileFormatError struct {
	Name     string
	Reason   string
	TooLarge bool // rejected only for size
}

func (e *FileFormatError) Error() string {
	return fmt.Sprintf("unsupported file %s: %s", e.Name, e.Reason)
}

// ParseError means the whole source could not be read.
type ParseError struct {
	Format Format
	Err    error
	Hint   string // what the user can do about it
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("reading %s statement: %v", e.Format, e.Err)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }
