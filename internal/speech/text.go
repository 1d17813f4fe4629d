package speech

import (
	"strings"

	"github.com/example/morning-report/internal/markup"
)

// PlainText renders a as a transcript: a title banner, a publication line,
// each heading as "-- heading --" and a blank line after every paragraph.
func PlainText(a Article) string {
	var b strings.Builder
	if a.Title != "" {
		b.WriteString("=== " + a.Title + " ===\n")
		b.WriteString("Published " + a.PublishedAt.Format(dateLayout))
		if a.Author != "" {
			b.WriteString(" by " + a.Author)
		}
		b.WriteString("\n\n")
	}
	markup.Walk(a.Body, markup.VisitorFuncs{
		Enter: func(name string) {
			if markup.HeadingLevel(name) > 0 {
				b.WriteString("-- ")
			}
		},
		Exit: func(name string) {
			if markup.HeadingLevel(name) > 0 {
				b.WriteString(" --\n")
				return
			}
			b.WriteString("\n\n")
		},
		OnText: func(v string) { b.WriteString(markup.DecodeEntities(v)) },
	})
	return b.String()
}
