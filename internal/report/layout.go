// Пакет report — отчёт по карточке дела.
// Build собирает макет (подписи, значения, подсветка), HTML выводит его
// как печатный поток, Rasterize/Paginate/Export превращают его в файлы.
package report

import (
	"time"

	"github.com/bigkaa/casedesk/internal/domain/datefmt"
	"github.com/bigkaa/casedesk/internal/domain/model"
)

// Row — строка отчёта.
type Row struct {
	Label string
	Value string
	// Color — подсветка значения (#rgb или #rrggbb), пусто — без подсветки
	Color string
}

// Section — раздел отчёта с заголовком.
type Section struct {
	Title string
	Rows  []Row
}

// Layout — макет отчёта, общий для HTML и растровых форматов.
type Layout struct {
	Title                string
	Reference            string
	Owner                string
	Status               string
	DaysSinceInstruction string
	Comments             string
	GeneratedAt          time.Time
	Sections             []Section
}

// Build собирает макет отчёта по карточке.
// Даты выводятся через datefmt.Display, пустые значения — прочерком.
func Build(c *model.Case, clock datefmt.Clock) *Layout {
	owner := c.CreatedBy.Username
	if owner == "" {
		owner = datefmt.Unknown
	}
	status := "Inactive"
	if c.IsActive {
		status = "Active"
	}

	l := &Layout{
		Title:                "Transaction report",
		Reference:            displayText(c.Reference),
		Owner:                owner,
		Status:               status,
		DaysSinceInstruction: datefmt.DaysSinceLabel(c.InstructionReceived, clock),
		Comments:             c.Comments,
		GeneratedAt:          clock.Now(),
	}

	details := Section{Title: "Details"}
	for _, f := range model.TextFields() {
		details.Rows = append(details.Rows, Row{
			Label: f.Label(),
			Value: displayText(c.Value(f)),
			Color: c.Colors[f],
		})
	}

	milestones := Section{Title: "Milestones"}
	for _, f := range model.DateFields() {
		milestones.Rows = append(milestones.Rows, Row{
			Label: f.Label(),
			Value: datefmt.Display(c.Value(f)),
			Color: c.Colors[f],
		})
	}

	l.Sections = []Section{details, milestones}
	return l
}

func displayText(v string) string {
	if v == "" {
		return datefmt.Unknown
	}
	return v
}
