package core

// streaming.go normalizes source bytes before they reach the parser.
//
// Every loader reads its body through readDocument, which:
//
//   - counts raw bytes and enforces the configured size limit
//   - removes a leading UTF-8 BOM (0xEF 0xBB 0xBF) added by spreadsheet exports
//   - replaces invalid UTF-8 bytes with '?'

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// countingReader tracks the bytes read from the underlying source.
type countingReader struct {
	reader    io.Reader
	BytesRead int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}

// readDocument reads r to EOF and returns the sanitized text and the raw
// byte count. maxBytes <= 0 disables the size limit.
func readDocument(r io.Reader, maxBytes int64) (string, int64, error) {
	counter := &countingReader{reader: r}

	var src io.Reader = counter
	if maxBytes > 0 {
		// One byte past the limit is enough to detect an oversized body.
		src = io.LimitReader(counter, maxBytes+1)
	}

	br := bufio.NewReader(src)
	if head, _ := br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	data, err := io.ReadAll(br)
	if err != nil {
		return "", counter.BytesRead, err
	}
	if maxBytes > 0 && counter.BytesRead > maxBytes {
		return "", counter.BytesRead, ErrDocumentTooLarge
	}

	return string(sanitizeUTF8(data)), counter.BytesRead, nil
}

// sanitizeUTF8 replaces each invalid byte with '?'. The one-byte
// replacement keeps every valid byte at its original offset.
func sanitizeUTF8(data []byte) []byte {
	if isAllASCII(data) || utf8.Valid(data) {
		return data
	}

	out := make([]byte, 0, len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			out = append(out, '?')
		} else {
			out = append(out, data[:size]...)
		}
		data = data[size:]
	}
	return out
}

// isAllASCII is the fast path; most book lists are plain ASCII.
func isAllASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
