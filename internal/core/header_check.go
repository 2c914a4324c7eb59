package core

// header_check.go compares the source header line against the schema.
//
// Rows are mapped by position, so the header is never needed to render. It is
// still the only signal that someone inserted or reordered a column in the
// spreadsheet, which would silently shift every rendered cell. A mismatch is
// reported, never fatal.

import (
	"fmt"
	"strings"
)

// HeaderMismatch describes one schema column whose header differs from the
// expected name.
type HeaderMismatch struct {
	Index int    // Field index in the source
	Want  string // Expected header name
	Got   string // Header found at Index ("" when the header is too short)
}

func (m HeaderMismatch) Error() string {
	if m.Got == "" {
		return fmt.Sprintf("column %d: missing, want %q", m.Index, m.Want)
	}
	return fmt.Sprintf("column %d: got %q, want %q", m.Index, m.Got, m.Want)
}

// CheckHeader parses the first line of text and returns a mismatch for every
// schema column whose header does not match, ignoring case and surrounding
// space. Empty text yields no mismatches.
func CheckHeader(text string) []HeaderMismatch {
	line, _, _ := strings.Cut(text, "\n")
	if strings.TrimSpace(line) == "" {
		return nil
	}

	header := ParseLine(line)
	var out []HeaderMismatch
	for _, col := range Schema {
		got := header.Field(col.Index)
		if !strings.EqualFold(got, col.Source) {
			out = append(out, HeaderMismatch{Index: col.Index, Want: col.Source, Got: got})
		}
	}
	return out
}
