package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Format identifies a statement file type.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatText Format = "txt"
)

// DefaultMaxBytes is the upload size limit (10 MB).
const DefaultMaxBytes int64 = 10 << 20

// MIME types accepted per format; a detected type also passes when one of
// its parents is listed.
var allowedMIME = map[Format][]string{
	FormatXLSX: {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "application/zip"},
	FormatXLS:  {"application/vnd.ms-excel", "application/x-ole-storage"},
	FormatCSV:  {"text/csv", "text/plain"},
	FormatPDF:  {"application/pdf"},
	FormatText: {"text/plain"},
}

// FormatOf maps a file name to its Format by extension.
func FormatOf(name string) (Format, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	f := Format(ext)
	if _, ok := allowedMIME[f]; !ok {
		return "", false
	}
	return f, true
}

// Validate checks extension, size and sniffed content type.
// maxBytes <= 0 means DefaultMaxBytes.
func Validate(name string, data []byte, maxBytes int64) (Format, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	format, ok := FormatOf(name)
	if !ok {
		return "", &FileFormatError{Name: name, Reason: "expected .xlsx, .xls, .csv, .pdf or .txt"}
	}
	if len(data) == 0 {
		return "", &FileFormatError{Name: name, Reason: "file is empty"}
	}
	if int64(len(data)) > maxBytes {
		return "", &FileFormatError{
			Name:     name,
			Reason:   fmt.Sprintf("file is %d bytes, limit is %d bytes", len(data), maxBytes),
			TooLarge: true,
		}
	}

	detected := mimetype.Detect(data)
	if !mimeAllowed(detected, allowedMIME[format]) {
		return "", &FileFormatError{
			Name:   name,
			Reason: fmt.Sprintf("content looks like %s, not a .%s file", detected.String(), format),
		}
	}
	return format, nil
}

func mimeAllowed(m *mimetype.MIME, allowed []string) bool {
	for ; m != nil; m = m.Parent() {
		for _, a := range allowed {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}
