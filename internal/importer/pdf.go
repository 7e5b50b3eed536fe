package importer

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

const pdfHint = "convert the statement to .xlsx, or supply the PDF password"

// ExtractPDFText returns the text of every page, one visual row per line.
// password may be empty.
func ExtractPDFText(data []byte, password string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ParseError{Format: FormatPDF, Err: fmt.Errorf("pdf reader panic: %v", r), Hint: pdfHint}
		}
	}()

	ra := bytes.NewReader(data)
	var doc *pdf.Reader
	if password != "" {
		tried := false
		doc, err = pdf.NewReaderEncrypted(ra, int64(len(data)), func() string {
			if tried {
				return ""
			}
			tried = true
			return password
		})
	} else {
		doc, err = pdf.NewReader(ra, int64(len(data)))
	}
	if err != nil {
		return "", &ParseError{Format: FormatPDF, Err: err, Hint: pdfHint}
	}

	var sb strings.Builder
	for i := 1; i <= doc.NumPage(); i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", &ParseError{Format: FormatPDF, Err: fmt.Errorf("page %d: %w", i, err), Hint: pdfHint}
		}
		for _, row := range rows {
			for j, word := range row.Content {
				if j > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(word.S)
			}
			sb.WriteByte('\n')
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", &ParseError{Format: FormatPDF, Err: errors.New("no text layer"), Hint: pdfHint}
	}
	return sb.String(), nil
}
