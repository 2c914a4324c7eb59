package core

import (
	"net/url"
	"strings"
)

// ColumnKey names a semantic field of a book row.
type ColumnKey string

const (
	ColTitle       ColumnKey = "title"
	ColAuthor      ColumnKey = "author"
	ColThemes      ColumnKey = "themes"
	ColDescription ColumnKey = "description"
	ColISBN        ColumnKey = "isbn"
	ColTargetAge   ColumnKey = "target_age"
)

// Visibility controls on which layouts a rendered column is shown.
type Visibility string

const (
	VisibleAlways  Visibility = "always"  // shown on mobile and desktop
	VisibleDesktop Visibility = "desktop" // hidden on narrow screens
)

// Column maps a semantic field to its position in the source CSV.
type Column struct {
	Key        ColumnKey
	Header     string // Table header text
	Source     string // Expected header name in the source CSV
	Index      int    // Zero-based field index in a data row
	Visibility Visibility
	Class      string // CSS class applied to the header and cells
}

// Schema lists the rendered columns in display order.
//
// Source layout: Top 10, For therapists, Book Title, Author, Key themes,
// Genre, Description, ISBN, Amazon Price, Target Age. Indices 0, 1, 5 and 8
// are not rendered.
var Schema = []Column{
	{Key: ColTitle, Header: "Title", Source: "Book Title", Index: 2, Visibility: VisibleAlways, Class: "mobile-title"},
	{Key: ColAuthor, Header: "Author", Source: "Author", Index: 3, Visibility: VisibleDesktop, Class: "desktop-only"},
	{Key: ColThemes, Header: "Key themes", Source: "Key themes", Index: 4, Visibility: VisibleDesktop, Class: "desktop-only"},
	{Key: ColDescription, Header: "Description", Source: "Description", Index: 6, Visibility: VisibleDesktop, Class: "desktop-only"},
	{Key: ColISBN, Header: "ISBN", Source: "ISBN", Index: 7, Visibility: VisibleAlways, Class: "mobile-isbn"},
	{Key: ColTargetAge, Header: "Target Age", Source: "Target Age", Index: 9, Visibility: VisibleDesktop, Class: "desktop-only"},
}

// ISBNSearchURL is the lookup page an ISBN cell links to.
const ISBNSearchURL = "https://isbnsearch.org/isbn/"

// ColumnFor returns the schema column for key.
func ColumnFor(key ColumnKey) (Column, bool) {
	for _, c := range Schema {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// Value returns the field for a schema column, or "" when the row is short.
func (r Row) Value(key ColumnKey) string {
	c, ok := ColumnFor(key)
	if !ok {
		return ""
	}
	return r.Field(c.Index)
}

// Book is the renderer's view of one data row.
type Book struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Themes      []string `json:"themes"`
	Description string   `json:"description"`
	ISBN        string   `json:"isbn"`
	TargetAge   string   `json:"target_age"`
}

// BookFromRow reads a row through the schema. Missing fields become "".
func BookFromRow(r Row) Book {
	return Book{
		Title:       r.Value(ColTitle),
		Author:      r.Value(ColAuthor),
		Themes:      SplitThemes(r.Value(ColThemes)),
		Description: r.Value(ColDescription),
		ISBN:        r.Value(ColISBN),
		TargetAge:   r.Value(ColTargetAge),
	}
}

// BooksFromRows maps rows to books, skipping blank rows such as the one
// produced by a trailing newline.
func BooksFromRows(rows []Row) []Book {
	books := make([]Book, 0, len(rows))
	for _, r := range rows {
		if r.IsBlank() {
			continue
		}
		books = append(books, BookFromRow(r))
	}
	return books
}

// SplitThemes splits a comma-separated themes field into trimmed,
// non-empty items.
func SplitThemes(field string) []string {
	parts := strings.Split(field, ",")
	themes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			themes = append(themes, p)
		}
	}
	return themes
}

// ISBNURL returns the lookup link for the book, or "" without an ISBN.
func (b Book) ISBNURL() string {
	if b.ISBN == "" {
		return ""
	}
	return ISBNSearchURL + url.PathEscape(b.ISBN)
}
