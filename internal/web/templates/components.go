// Package templates holds the HTML components for the book list page.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/JonMunkholm/booklist/internal/core"
	"github.com/a-h/templ"
)

// StylesheetPath is where the server mounts the embedded stylesheet.
const StylesheetPath = "/static/styles.css"

// ErrorHeading is shown above the message in the error row.
const ErrorHeading = "Error loading book data."

// Page renders a complete HTML document around content.
func Page(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`, templ.EscapeString(title), `</title>`,
			`<link rel="stylesheet" href="`, StylesheetPath, `">`,
			`</head><body><main class="container"><h1>`, templ.EscapeString(title), `</h1>`,
		); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		return write(w, `</main></body></html>`)
	})
}

// BookTable renders the book table with one row per book.
func BookTable(books []core.Book) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := tableOpen(w); err != nil {
			return err
		}
		for _, b := range books {
			if err := BookRow(b).Render(ctx, w); err != nil {
				return err
			}
		}
		return write(w, `</tbody></table>`)
	})
}

// BookRow renders a single <tr>. The row id is the ISBN so a page can link
// straight to a book.
func BookRow(b core.Book) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w, `<tr id="`, templ.EscapeString(b.ISBN), `">`); err != nil {
			return err
		}
		for _, col := range core.Schema {
			if err := write(w, `<td class="`, col.Class, `">`); err != nil {
				return err
			}
			if err := bookCell(w, col.Key, b); err != nil {
				return err
			}
			if err := write(w, `</td>`); err != nil {
				return err
			}
		}
		return write(w, `</tr>`)
	})
}

func bookCell(w io.Writer, key core.ColumnKey, b core.Book) error {
	switch key {
	case core.ColTitle:
		return write(w, `<span class="book-title mobile-title">`, templ.EscapeString(b.Title), `</span>`)
	case core.ColAuthor:
		return write(w, templ.EscapeString(b.Author))
	case core.ColThemes:
		return themeList(w, b.Themes)
	case core.ColDescription:
		return write(w, `<span class="description">`, templ.EscapeString(b.Description), `</span>`)
	case core.ColISBN:
		if b.ISBN == "" {
			return nil
		}
		href := templ.EscapeString(string(templ.URL(b.ISBNURL())))
		return write(w,
			`<a href="`, href, `" target="_blank" rel="noopener noreferrer">`,
			templ.EscapeString(b.ISBN), `</a>`,
		)
	case core.ColTargetAge:
		if b.TargetAge == "" {
			return nil
		}
		return themeList(w, []string{b.TargetAge})
	}
	return nil
}

func themeList(w io.Writer, items []string) error {
	if len(items) == 0 {
		return nil
	}
	if err := write(w, `<ul class="theme-list">`); err != nil {
		return err
	}
	for _, item := range items {
		if err := write(w, `<li>`, templ.EscapeString(item), `</li>`); err != nil {
			return err
		}
	}
	return write(w, `</ul>`)
}

// ErrorTable renders the table with a single row spanning every column.
// No book rows are ever rendered alongside it.
func ErrorTable(msg core.UserMessage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := tableOpen(w); err != nil {
			return err
		}
		if err := write(w,
			`<tr class="error-row"><td colspan="`, strconv.Itoa(len(core.Schema)), `">`,
			`<strong>`, ErrorHeading, `</strong>`,
		); err != nil {
			return err
		}
		if msg.Message != "" {
			if err := write(w, ` <span class="error-message">`, templ.EscapeString(msg.Message), `</span>`); err != nil {
				return err
			}
		}
		if msg.Action != "" {
			if err := write(w, ` <span class="error-action">`, templ.EscapeString(msg.Action), `</span>`); err != nil {
				return err
			}
		}
		if msg.Code != "" {
			if err := write(w, ` <code class="error-code">`, templ.EscapeString(msg.Code), `</code>`); err != nil {
				return err
			}
		}
		return write(w, `</td></tr></tbody></table>`)
	})
}

func tableOpen(w io.Writer) error {
	if err := write(w, `<table class="book-table"><thead><tr>`); err != nil {
		return err
	}
	for _, col := range core.Schema {
		if err := write(w, `<th class="`, col.Class, `">`, templ.EscapeString(col.Header), `</th>`); err != nil {
			return err
		}
	}
	return write(w, `</tr></thead><tbody>`)
}

// write emits each part in order and stops at the first error.
func write(w io.Writer, parts ...string) error {
	for _, p := range parts {
		if _, err := io.WriteString(w, p); err != nil {
			return err
		}
	}
	return nil
}
