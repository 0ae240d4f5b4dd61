// export.go — выгрузка отчёта в PNG, JPG и PDF.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
)

// ErrUnsupportedFormat — неизвестный формат выгрузки.
var ErrUnsupportedFormat = errors.New("неподдерживаемый формат отчёта")

// Format — формат выгрузки.
type Format string

const (
	FormatPNG Format = "png"
	FormatJPG Format = "jpg"
	FormatPDF Format = "pdf"
)

// ParseFormat разбирает имя формата (без учёта регистра, jpeg == jpg).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPG, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType возвращает MIME-тип формата.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPG:
		return "image/jpeg"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// File — готовый файл отчёта.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// jpegQuality — качество JPG-выгрузки.
const jpegQuality = 90

// PageNames возвращает имена файлов для n страниц:
// base.ext для одной страницы, base-1.ext … base-n.ext для нескольких.
func PageNames(base, ext string, n int) []string {
	if n <= 1 {
		return []string{base + "." + ext}
	}
	names := make([]string, n)
	for i := range names {
		names[i] = base + "-" + strconv.Itoa(i+1) + "." + ext
	}
	return names
}

// BaseName возвращает базовое имя файлов отчёта: report-<номер дела>.
// Пустой номер заменяется id; символы вне [A-Za-z0-9-_] заменяются на '_'.
func BaseName(reference, id string) string {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		reference = id
	}
	return "report-" + strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, reference)
}

// Export растеризует макет и выгружает его в формате f.
// PNG и JPG — файл на каждую страницу, PDF — один файл со страницей A4 на полосу.
func Export(l *Layout, f Format, base string) ([]File, error) {
	return exportImage(Rasterize(l), f, base)
}

func exportImage(img image.Image, f Format, base string) ([]File, error) {
	pages := Paginate(img, PageHeight(img.Bounds().Dx()))

	switch f {
	case FormatPNG, FormatJPG:
		names := PageNames(base, string(f), len(pages))
		files := make([]File, 0, len(pages))
		for i, page := range pages {
			data, err := encodeImage(page, f)
			if err != nil {
				return nil, fmt.Errorf("кодирование страницы %d: %w", i+1, err)
			}
			files = append(files, File{Name: names[i], ContentType: f.ContentType(), Data: data})
		}
		return files, nil

	case FormatPDF:
		data, err := encodePDF(pages)
		if err != nil {
			return nil, err
		}
		return []File{{Name: base + ".pdf", ContentType: f.ContentType(), Data: data}}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
}

func encodeImage(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if f == FormatJPG {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	} else {
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodePDF кладёт каждую полосу на отдельную страницу A4 во всю ширину листа.
func encodePDF(pages []image.Image) ([]byte, error) {
	const pageWidthMM = 210.0

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	for i, page := range pages {
		data, err := encodeImage(page, FormatPNG)
		if err != nil {
			return nil, fmt.Errorf("кодирование страницы %d: %w", i+1, err)
		}
		name := "page-" + strconv.Itoa(i+1)
		doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))

		b := page.Bounds()
		heightMM := pageWidthMM * float64(b.Dy()) / float64(b.Dx())
		doc.AddPage()
		doc.ImageOptions(name, 0, 0, pageWidthMM, heightMM, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("формирование PDF: %w", err)
	}
	return buf.Bytes(), nil
}
