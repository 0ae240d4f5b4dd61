// raster.go — растеризация макета и нарезка на страницы A4.
package report

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ReferenceWidth — ширина холста в пикселях (A4 при 96 dpi).
const ReferenceWidth = 794

const (
	margin      = 40
	lineHeight  = 18
	valueColumn = 300
	glyphWidth  = 7
)

// PageHeight возвращает высоту страницы для ширины width с соотношением сторон A4 (210:297).
func PageHeight(width int) int {
	return int(math.Round(float64(width) * 297 / 210))
}

// line — строка холста: подпись, значение и фон значения.
type line struct {
	label string
	value string
	bg    color.Color
	bold  bool
}

// Rasterize рисует макет на холсте ширины ReferenceWidth.
// Высота холста равна естественной высоте содержимого.
func Rasterize(l *Layout) *image.RGBA {
	lines := layoutLines(l)
	height := 2*margin + len(lines)*lineHeight

	img := image.NewRGBA(image.Rect(0, 0, ReferenceWidth, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Src: image.Black, Face: basicfont.Face7x13}
	for i, ln := range lines {
		top := margin + i*lineHeight
		baseline := top + 13

		if ln.bg != nil {
			bg := image.Rect(margin+valueColumn-2, top, ReferenceWidth-margin, top+lineHeight)
			draw.Draw(img, bg, image.NewUniform(ln.bg), image.Point{}, draw.Src)
		}

		d.Dot = fixed.P(margin, baseline)
		d.DrawString(ln.label)
		if ln.bold {
			// Жирный шрифт имитируется сдвигом на пиксель.
			d.Dot = fixed.P(margin+1, baseline)
			d.DrawString(ln.label)
		}
		if ln.value != "" {
			d.Dot = fixed.P(margin+valueColumn, baseline)
			d.DrawString(ln.value)
		}
	}
	return img
}

// Paginate нарезает изображение на последовательные полосы высотой pageHeight.
// Последняя полоса может быть короче.
func Paginate(img image.Image, pageHeight int) []image.Image {
	b := img.Bounds()
	if pageHeight <= 0 || b.Dy() <= pageHeight {
		return []image.Image{img}
	}

	var pages []image.Image
	for y := b.Min.Y; y < b.Max.Y; y += pageHeight {
		r := image.Rect(b.Min.X, y, b.Max.X, min(y+pageHeight, b.Max.Y))
		pages = append(pages, subImage(img, r))
	}
	return pages
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func subImage(img image.Image, r image.Rectangle) image.Image {
	if s, ok := img.(subImager); ok {
		return s.SubImage(r)
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out
}

// layoutLines раскладывает макет по строкам холста с переносом длинных значений.
func layoutLines(l *Layout) []line {
	var lines []line
	add := func(label, value string, bg color.Color, bold bool) {
		for i, part := range wrap(ascii(value), (ReferenceWidth-2*margin-valueColumn)/glyphWidth) {
			if i > 0 {
				label = ""
			}
			lines = append(lines, line{label: ascii(label), value: part, bg: bg, bold: bold})
		}
	}

	add(l.Title+": "+l.Reference, "", nil, true)
	add("Owner", l.Owner, nil, false)
	add("Status", l.Status, nil, false)
	add("Days since instruction", l.DaysSinceInstruction, nil, false)
	add("Generated", l.GeneratedAt.Format("02/01/2006 15:04"), nil, false)

	for _, s := range l.Sections {
		lines = append(lines, line{})
		add(s.Title, "", nil, true)
		for _, r := range s.Rows {
			var bg color.Color
			if c, ok := ParseHexColor(r.Color); ok {
				bg = c
			}
			add(r.Label, r.Value, bg, false)
		}
	}

	if l.Comments != "" {
		lines = append(lines, line{})
		add("Comments", "", nil, true)
		for _, para := range strings.Split(l.Comments, "\n") {
			for _, part := range wrap(ascii(para), (ReferenceWidth-2*margin)/glyphWidth) {
				lines = append(lines, line{label: part})
			}
		}
	}
	return lines
}

// wrap режет строку на куски не длиннее width символов, по возможности по пробелам.
func wrap(s string, width int) []string {
	if s == "" || width <= 0 {
		return []string{s}
	}
	var out []string
	for len(s) > width {
		cut := strings.LastIndexByte(s[:width+1], ' ')
		if cut <= 0 {
			cut = width
		}
		out = append(out, strings.TrimRight(s[:cut], " "))
		s = strings.TrimLeft(s[cut:], " ")
	}
	return append(out, s)
}

// ascii заменяет символы вне набора basicfont.
func ascii(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '—' || r == '–':
			return '-'
		case r == '\t':
			return ' '
		case r < 0x20 || r > 0x7e:
			return '?'
		}
		return r
	}, s)
}

// ParseHexColor разбирает #rgb или #rrggbb.
func ParseHexColor(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}
