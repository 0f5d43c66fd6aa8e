// Implements the CSV text codec: RFC 4180 quoting, serialization in header
// order, and a quote-aware parser that round-trips embedded newlines.

package csvledger

import (
	"fmt"
	"strings"
)

// Row maps column names to string values. The document header decides which
// columns exist and in what order they serialize.
type Row map[string]string

// Escape quotes a single CSV field. Values containing none of comma, double
// quote, CR or LF pass through unchanged; anything else is wrapped in double
// quotes with internal quotes doubled.
func Escape(s string) string {
	if s == "" || !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Serialize renders a header and rows as CSV text. Every line, including the
// last, is terminated by "\n". An empty row set still yields the header line.
func Serialize(header []string, rows []Row) string {
	var b strings.Builder
	writeRecord(&b, header)
	for _, row := range rows {
		fields := make([]string, len(header))
		for i, col := range header {
			fields[i] = row[col]
		}
		writeRecord(&b, fields)
	}
	return b.String()
}

func writeRecord(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(Escape(f))
	}
	b.WriteByte('\n')
}

// Parse decodes CSV text into a header and rows. The first non-empty record
// is the header. Rows shorter than the header are padded with empty strings;
// extra trailing fields are dropped. Quoted fields may contain commas, quotes
// and newlines, so Parse(Serialize(h, rows)) reproduces rows exactly.
func Parse(text string) ([]string, []Row, error) {
	records, err := splitRecords(text)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: missing header line", ErrMalformed)
	}
	header := records[0]
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// splitRecords scans text into records, honoring RFC 4180 quoting: a field
// starting with a double quote runs until a closing quote not followed by
// another quote, and commas or newlines inside quotes are literal. Blank
// lines are skipped. CRLF line endings are accepted.
func splitRecords(text string) ([][]string, error) {
	var (
		records  [][]string
		fields   []string
		field    strings.Builder
		inQuotes bool
		sawQuote bool // any field of the current record was quoted
	)

	endField := func() {
		fields = append(fields, field.String())
		field.Reset()
	}
	endRecord := func() {
		endField()
		// A record that is a single unquoted empty field is a blank line.
		if len(fields) == 1 && fields[0] == "" && !sawQuote {
			fields = nil
			return
		}
		records = append(records, fields)
		fields = nil
		sawQuote = false
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inQuotes {
			if c != '"' {
				field.WriteByte(c)
				continue
			}
			if i+1 < len(text) && text[i+1] == '"' {
				field.WriteByte('"')
				i++
			} else {
				inQuotes = false
			}
			continue
		}
		switch c {
		case '"':
			if field.Len() == 0 {
				inQuotes = true
				sawQuote = true
			} else {
				// Stray quote mid-field; keep it verbatim.
				field.WriteByte(c)
			}
		case ',':
			endField()
		case '\n':
			endRecord()
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				// CRLF; the LF ends the record.
				continue
			}
			field.WriteByte(c)
		default:
			field.WriteByte(c)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("%w: unterminated quoted field", ErrMalformed)
	}
	if field.Len() > 0 || len(fields) > 0 || sawQuote {
		endRecord()
	}
	return records, nil
}
