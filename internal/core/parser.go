package core

import "strings"

const (
	// Delimiter separates fields outside quoted regions.
	Delimiter = ','
	// Quote toggles a quoted region. It is never part of a field value.
	Quote = '"'
)

// scanState is the state of the per-line scanner.
type scanState int

const (
	stateUnquoted scanState = iota
	stateQuoted
)

// lineScanner accumulates the fields of a single line.
// A fresh scanner is used for every line, so an unterminated quote never
// leaks into the next record.
type lineScanner struct {
	state scanState
	field strings.Builder
	row   Row
}

// ParseRows converts document text into data rows.
//
// The text is split on '\n' and the first line (the header) is discarded.
// Every remaining line produces exactly one Row, including blank lines,
// so len(result) == max(lines-1, 0). Parsing never fails: malformed quoting
// only moves field boundaries.
func ParseRows(text string) []Row {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return []Row{}
	}

	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, ParseLine(line))
	}
	return rows
}

// ParseLine scans a single line into trimmed fields.
// A trailing '\r' from a CRLF line ending is dropped before scanning.
func ParseLine(line string) Row {
	line = strings.TrimSuffix(line, "\r")

	var s lineScanner
	return s.scan(line)
}

// scan walks the line byte by byte. Quote and Delimiter are ASCII and can
// never appear inside a multi-byte UTF-8 sequence, so byte iteration keeps
// the input intact.
func (s *lineScanner) scan(line string) Row {
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == Quote:
			s.toggle()
		case c == Delimiter && s.state == stateUnquoted:
			s.emit()
		default:
			s.field.WriteByte(c)
		}
	}

	// End of line closes the last field whatever the quote state.
	s.emit()
	return s.row
}

func (s *lineScanner) toggle() {
	if s.state == stateQuoted {
		s.state = stateUnquoted
	} else {
		s.state = stateQuoted
	}
}

func (s *lineScanner) emit() {
	s.row = append(s.row, strings.TrimSpace(s.field.String()))
	s.field.Reset()
}
