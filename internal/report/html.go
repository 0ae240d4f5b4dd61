// html.go — печатный HTML-поток отчёта (A4, многостраничный).
package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

const printCSS = `@page { size: A4; margin: 15mm; }
body { font-family: sans-serif; font-size: 11pt; color: #111; }
h1 { font-size: 16pt; margin: 0 0 4mm; }
.meta { margin-bottom: 6mm; }
section { break-inside: auto; margin-bottom: 6mm; }
h2 { font-size: 13pt; border-bottom: 1px solid #999; break-after: avoid; }
table { width: 100%; border-collapse: collapse; }
tr { break-inside: avoid; }
td { padding: 1mm 2mm; vertical-align: top; }
td.label { width: 40%; color: #555; }
.comments { white-space: pre-wrap; }`

// HTML возвращает компонент с печатной версией отчёта.
func HTML(l *Layout) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		e := templ.EscapeString[string]

		b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>")
		b.WriteString(e(l.Title + " " + l.Reference))
		b.WriteString("</title><style>")
		b.WriteString(printCSS)
		b.WriteString("</style></head><body>")

		fmt.Fprintf(&b, "<h1>%s: %s</h1>", e(l.Title), e(l.Reference))
		fmt.Fprintf(&b, "<div class=\"meta\"><div>Owner: %s</div><div>Status: %s</div>"+
			"<div>Days since instruction: %s</div><div>Generated: %s</div></div>",
			e(l.Owner), e(l.Status), e(l.DaysSinceInstruction), e(l.GeneratedAt.Format("02/01/2006 15:04")))

		for _, s := range l.Sections {
			fmt.Fprintf(&b, "<section><h2>%s</h2><table>", e(s.Title))
			for _, r := range s.Rows {
				style := ""
				if r.Color != "" {
					style = fmt.Sprintf(" style=\"background-color:%s\"", e(r.Color))
				}
				fmt.Fprintf(&b, "<tr><td class=\"label\">%s</td><td%s>%s</td></tr>", e(r.Label), style, e(r.Value))
			}
			b.WriteString("</table></section>")
		}

		if l.Comments != "" {
			fmt.Fprintf(&b, "<section><h2>Comments</h2><div class=\"comments\">%s</div></section>", e(l.Comments))
		}
		b.WriteString("</body></html>")

		_, err := io.WriteString(w, b.String())
		return err
	})
}
