// render.go — вывод карточек и подсветка значений.
package cli

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/bigkaa/casedesk/internal/domain/datefmt"
	"github.com/bigkaa/casedesk/internal/domain/model"
	"github.com/bigkaa/casedesk/internal/report"
	"github.com/bigkaa/casedesk/internal/session"
)

// palette — цвета оформления для темы.
type palette struct {
	heading *color.Color
	label   *color.Color
	muted   *color.Color
	alert   *color.Color
}

func paletteFor(t session.Theme) palette {
	if t == session.ThemeDark {
		return palette{
			heading: color.New(color.FgHiCyan, color.Bold),
			label:   color.New(color.FgHiBlack),
			muted:   color.New(color.FgHiBlack),
			alert:   color.New(color.FgHiYellow, color.Bold),
		}
	}
	return palette{
		heading: color.New(color.FgBlue, color.Bold),
		label:   color.New(color.FgBlack),
		muted:   color.New(color.Faint),
		alert:   color.New(color.FgRed, color.Bold),
	}
}

// highlight возвращает значение с фоном из подсветки поля (#rgb или #rrggbb).
func highlight(value, hex string) string {
	c, ok := report.ParseHexColor(hex)
	if !ok {
		return value
	}
	return color.BgRGB(int(c.R), int(c.G), int(c.B)).Sprint(value)
}

// cell — ячейка таблицы: текст и необязательное оформление.
// Ширина столбца считается по text, оформление не влияет на выравнивание.
type cell struct {
	text  string
	style func(string) string
}

func plain(text string) cell { return cell{text: text} }

func colored(text, hex string) cell {
	return cell{text: text, style: func(s string) string { return highlight(s, hex) }}
}

// writeTable выводит таблицу с выравниванием по ширине текста ячеек.
// Между столбцами два пробела, после последнего столбца отступа нет.
func writeTable(w io.Writer, header []string, rows [][]cell) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, c := range row {
			if n := utf8.RuneCountInString(c.text); n > widths[i] {
				widths[i] = n
			}
		}
	}

	line := func(cells []cell) {
		var b strings.Builder
		for i, c := range cells {
			text := c.text
			if c.style != nil {
				text = c.style(text)
			}
			b.WriteString(text)
			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(c.text)+2))
			}
		}
		fmt.Fprintln(w, b.String())
	}

	head := make([]cell, len(header))
	for i, h := range header {
		head[i] = plain(h)
	}
	line(head)
	for _, row := range rows {
		line(row)
	}
}

// printCase выводит карточку: текстовые поля, этапы, комментарий.
func printCase(w io.Writer, c *model.Case, clock datefmt.Clock, p palette) {
	status := "active"
	if !c.IsActive {
		status = "inactive"
	}
	owner := c.CreatedBy.Username
	if owner == "" {
		owner = datefmt.Unknown
	}

	p.heading.Fprintf(w, "%s", orDash(c.Reference))
	fmt.Fprintf(w, "  [%s] %s\n", status, c.ID)
	fmt.Fprintf(w, "%s %s\n", p.label.Sprint("Owner:"), owner)
	fmt.Fprintf(w, "%s %s\n\n", p.label.Sprint("Days since instruction:"),
		datefmt.DaysSinceLabel(c.InstructionReceived, clock))

	p.heading.Fprintln(w, "Details")
	for _, f := range model.TextFields() {
		printField(w, p, f, orDash(c.Value(f)), c.Colors[f])
	}
	fmt.Fprintln(w)
	p.heading.Fprintln(w, "Milestones")
	for _, f := range model.DateFields() {
		printField(w, p, f, datefmt.Display(c.Value(f)), c.Colors[f])
	}

	if c.Comments != "" {
		fmt.Fprintln(w)
		p.heading.Fprintln(w, "Comments")
		fmt.Fprintln(w, c.Comments)
	}
}

func printField(w io.Writer, p palette, f model.Field, value, hex string) {
	fmt.Fprintf(w, "  %s %s\n", p.label.Sprintf("%-32s", f.Label()+":"), highlight(value, hex))
}

func orDash(v string) string {
	if v == "" {
		return datefmt.Unknown
	}
	return v
}
