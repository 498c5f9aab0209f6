// path: pdfreport/engine.go
package pdfreport

import (
	"bytes"

	"github.com/go-pdf/fpdf"
)

// Engine is the text-layout/pagination and image-embedding primitive the
// renderer draws through. All positions and dimensions are millimeters on an
// A4 portrait page; y grows downward from the top edge.
type Engine interface {
	// AddPage starts a new blank page; subsequent writes land on it.
	AddPage()
	// SetFont selects the style ("" regular, "B" bold, "I" italic) and size
	// in points for following Text/TextWidth/SplitText calls.
	SetFont(style string, size float64)
	// SplitText word-wraps txt into lines no wider than width. A word that
	// fits the width on its own is never split.
	SplitText(txt string, width float64) []string
	// Text writes one prepared line with its left edge at x, baseline at y.
	Text(x, y float64, txt string)
	// TextWidth measures txt at the current font.
	TextWidth(txt string) float64
	// Image draws a validated payload into the w×h rectangle whose top-left
	// corner is (x, y). A failure is reported per call.
	Image(img ImagePayload, x, y, w, h float64) error
	// Output finalizes all pages into the document byte stream.
	Output() ([]byte, error)
}

// ImagePayload is a decoded-and-verified photo ready for embedding.
type ImagePayload struct {
	Name   string // registration handle, unique within one document
	Format string // "png", "jpeg" or "gif"
	Data   []byte
}

type fpdfEngine struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// NewEngine returns the production engine: go-pdf/fpdf on A4 portrait in
// millimeters. Automatic page breaks are disabled because the renderer owns
// pagination.
func NewEngine() Engine {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	return &fpdfEngine{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (e *fpdfEngine) AddPage() { e.pdf.AddPage() }

func (e *fpdfEngine) SetFont(style string, size float64) {
	e.pdf.SetFont("Helvetica", style, size)
}

// SplitText must see raw UTF-8: fpdf walks it as runes and indexes the
// 256-entry core-font width table by rune value, so Latin-1 accents land on
// the right slot while translated cp1252 bytes would decode to U+FFFD and
// blow past the table.
func (e *fpdfEngine) SplitText(txt string, width float64) []string {
	return e.pdf.SplitText(txt, width)
}

// Text and TextWidth translate to the cp1252 the core fonts need; fpdf walks
// both byte-wise for non-UTF-8 fonts.
func (e *fpdfEngine) Text(x, y float64, txt string) {
	e.pdf.Text(x, y, e.tr(txt))
}

func (e *fpdfEngine) TextWidth(txt string) float64 {
	return e.pdf.GetStringWidth(e.tr(txt))
}

func (e *fpdfEngine) Image(img ImagePayload, x, y, w, h float64) error {
	opts := fpdf.ImageOptions{ImageType: img.Format}
	e.pdf.RegisterImageOptionsReader(img.Name, opts, bytes.NewReader(img.Data))
	e.pdf.ImageOptions(img.Name, x, y, w, h, false, opts, 0, "")
	return e.pdf.Error()
}

func (e *fpdfEngine) Output() ([]byte, error) {
	var buf bytes.Buffer
	if err := e.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
