package report

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/bigkaa/casedesk/internal/domain/datefmt"
	"github.com/bigkaa/casedesk/internal/domain/model"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func testCase() *model.Case {
	c := &model.Case{
		ID:        "c-1",
		IsActive:  true,
		Comments:  "Ожидаем гарантии\nвторая строка",
		CreatedBy: model.UserRef{ID: "u-1", Username: "alice"},
		Colors:    model.Colors{model.FieldBondAmount: "#ffcc00"},
	}
	c.Reference = "A-001"
	c.Parties = "Smith / Jones"
	c.BondAmount = "1 000 000"
	c.InstructionReceived = "2024-03-05"
	c.BondApproved = "N/A"
	return c
}

func findRow(l *Layout, label string) (Row, bool) {
	for _, s := range l.Sections {
		for _, r := range s.Rows {
			if r.Label == label {
				return r, true
			}
		}
	}
	return Row{}, false
}

func TestBuild(t *testing.T) {
	l := Build(testCase(), datefmt.FixedClock(testNow))

	if l.Reference != "A-001" {
		t.Errorf("Reference = %q, ожидалось A-001", l.Reference)
	}
	if l.DaysSinceInstruction != "10" {
		t.Errorf("DaysSinceInstruction = %q, ожидалось 10", l.DaysSinceInstruction)
	}
	if l.Status != "Active" || l.Owner != "alice" {
		t.Errorf("Status/Owner = %q/%q", l.Status, l.Owner)
	}

	tests := []struct {
		label string
		value string
		color string
	}{
		{"Instruction received", "05/03/2024", ""},
		{"Bond approved", "N/A", ""},
		{"Registration", "—", ""},
		{"Agent", "—", ""},
		{"Bond amount", "1 000 000", "#ffcc00"},
	}
	for _, tt := range tests {
		r, ok := findRow(l, tt.label)
		if !ok {
			t.Errorf("строка %q не найдена", tt.label)
			continue
		}
		if r.Value != tt.value || r.Color != tt.color {
			t.Errorf("%s = %q/%q, ожидалось %q/%q", tt.label, r.Value, r.Color, tt.value, tt.color)
		}
	}
}

func TestBuild_UnknownOwner(t *testing.T) {
	c := testCase()
	c.CreatedBy = model.UserRef{}
	c.InstructionReceived = ""
	l := Build(c, datefmt.FixedClock(testNow))
	if l.Owner != datefmt.Unknown {
		t.Errorf("Owner = %q, ожидался прочерк", l.Owner)
	}
	if l.DaysSinceInstruction != datefmt.Unknown {
		t.Errorf("DaysSinceInstruction = %q, ожидался прочерк", l.DaysSinceInstruction)
	}
}

func TestHTML(t *testing.T) {
	c := testCase()
	c.Parties = "<b>Smith</b>"
	var buf bytes.Buffer
	if err := HTML(Build(c, datefmt.FixedClock(testNow))).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"@page", "size: A4", "05/03/2024", "background-color:#ffcc00", "&lt;b&gt;Smith&lt;/b&gt;"} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML не содержит %q", want)
		}
	}
	if strings.Contains(out, "<b>Smith</b>") {
		t.Error("значение не экранировано")
	}
}

func TestPageHeight(t *testing.T) {
	if got := PageHeight(ReferenceWidth); got != 1123 {
		t.Errorf("PageHeight(794) = %d, ожидалось 1123", got)
	}
	if got := PageHeight(210); got != 297 {
		t.Errorf("PageHeight(210) = %d, ожидалось 297", got)
	}
}

func TestRasterize(t *testing.T) {
	img := Rasterize(Build(testCase(), datefmt.FixedClock(testNow)))
	b := img.Bounds()
	if b.Dx() != ReferenceWidth {
		t.Errorf("ширина = %d, ожидалось %d", b.Dx(), ReferenceWidth)
	}
	if b.Dy() <= 2*margin {
		t.Errorf("высота = %d, ожидалось больше полей", b.Dy())
	}
}

func TestPaginate(t *testing.T) {
	ph := PageHeight(ReferenceWidth)

	tests := []struct {
		name   string
		height int
		pages  int
		last   int
	}{
		{"меньше страницы", ph / 2, 1, ph / 2},
		{"ровно страница", ph, 1, ph},
		{"2.4 страницы", ph*24/10, 3, ph*24/10 - 2*ph},
		{"ровно две", 2 * ph, 2, ph},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, ReferenceWidth, tt.height))
			pages := Paginate(img, ph)
			if len(pages) != tt.pages {
				t.Fatalf("страниц = %d, ожидалось %d", len(pages), tt.pages)
			}
			if got := pages[len(pages)-1].Bounds().Dy(); got != tt.last {
				t.Errorf("высота последней = %d, ожидалось %d", got, tt.last)
			}
		})
	}
}

func TestPageNames(t *testing.T) {
	if got := PageNames("report", "png", 1); len(got) != 1 || got[0] != "report.png" {
		t.Errorf("одна страница: %v", got)
	}
	got := PageNames("report", "jpg", 3)
	want := []string{"report-1.jpg", "report-2.jpg", "report-3.jpg"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %q, ожидалось %q", i, got[i], want[i])
		}
	}
}

func TestExportImage_MultiPage(t *testing.T) {
	ph := PageHeight(ReferenceWidth)
	img := image.NewRGBA(image.Rect(0, 0, ReferenceWidth, ph*24/10))

	files, err := exportImage(img, FormatPNG, "A-001")
	if err != nil {
		t.Fatalf("exportImage: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("файлов = %d, ожидалось 3", len(files))
	}
	seen := map[string]bool{}
	for _, f := range files {
		if seen[f.Name] {
			t.Errorf("повтор имени %q", f.Name)
		}
		seen[f.Name] = true
		if f.ContentType != "image/png" {
			t.Errorf("ContentType = %q", f.ContentType)
		}
	}

	decoded, err := png.Decode(bytes.NewReader(files[0].Data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if decoded.Bounds().Dy() != ph {
		t.Errorf("высота первой страницы = %d, ожидалось %d", decoded.Bounds().Dy(), ph)
	}
}

func TestExport_SinglePage(t *testing.T) {
	l := Build(testCase(), datefmt.FixedClock(testNow))
	l.Sections = l.Sections[:0]

	files, err := Export(l, FormatJPG, "A-001")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(files) != 1 || files[0].Name != "A-001.jpg" {
		t.Fatalf("ожидался один файл A-001.jpg, получено %+v", len(files))
	}
}

func TestExport_PDF(t *testing.T) {
	files, err := Export(Build(testCase(), datefmt.FixedClock(testNow)), FormatPDF, "A-001")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(files) != 1 || files[0].Name != "A-001.pdf" {
		t.Fatalf("ожидался один файл A-001.pdf")
	}
	if !bytes.HasPrefix(files[0].Data, []byte("%PDF")) {
		t.Error("данные не начинаются с %PDF")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"png": FormatPNG, "JPEG": FormatJPG, "jpg": FormatJPG, " pdf ": FormatPDF} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Error("ожидалась ошибка для gif")
	}
}

func TestWrap(t *testing.T) {
	got := wrap("aaa bbb ccc", 7)
	if len(got) != 2 || got[0] != "aaa bbb" || got[1] != "ccc" {
		t.Errorf("wrap = %q", got)
	}
	if got := wrap("abcdefghij", 4); len(got) != 3 {
		t.Errorf("wrap без пробелов = %q", got)
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		reference, id, want string
	}{
		{"A/001 x", "id", "report-A_001_x"},
		{" B-002 ", "id", "report-B-002"},
		{"", "c-1", "report-c-1"},
		{" ", "abc", "report-abc"},
	}
	for _, tt := range tests {
		if got := BaseName(tt.reference, tt.id); got != tt.want {
			t.Errorf("BaseName(%q, %q) = %q, ожидалось %q", tt.reference, tt.id, got, tt.want)
		}
	}
}
