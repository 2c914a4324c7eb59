package core

import (
	"context"
	"strings"
	"time"
)

// Loader fetches the raw text of a location.
// Implementations must return a *LoadError for every failure.
type Loader interface {
	Load(ctx context.Context, location string) (Document, error)
}

// Document is the unparsed content of a fetched resource.
type Document struct {
	Location string
	Text     string
	Size     int64 // Bytes read from the source, before BOM removal
}

// Row is one data record: the trimmed fields of a single CSV line.
type Row []string

// Field returns the value at index i, or "" when the row is too short.
func (r Row) Field(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// IsBlank reports whether every field is empty, as produced by a blank line.
func (r Row) IsBlank() bool {
	for _, f := range r {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Catalog is the result of one pipeline run.
type Catalog struct {
	RunID    string
	Location string
	Rows     []Row
	Books    []Book
	Header   []HeaderMismatch // Schema columns whose source header looks wrong
	Bytes    int64
	LoadedAt time.Time
	Duration time.Duration
}
