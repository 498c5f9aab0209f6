// path: pdfreport/renderer.go
package pdfreport

import (
	"fmt"

	"github.com/germanyribeiro/meu-relatorio-lavoura/models"
	"github.com/germanyribeiro/meu-relatorio-lavoura/schema"
)

// Page geometry. Fixed: documents produced by different builds must paginate
// identically.
const (
	pageWidth   = 210.0 // A4 portrait, mm
	pageHeight  = 297.0
	margin      = 20.0
	lineHeight  = 4.5
	usableWidth = pageWidth - 2*margin // 170

	titleFontSize   = 16.0
	sectionFontSize = 12.0
	bodyFontSize    = 10.0
	markerFontSize  = 7.0

	thumbSize   = 20.0
	thumbGutter = 5.0
)

const (
	docTitle       = "Relatório de Visita à Lavoura"
	photoTitle     = "Fotos:"
	imageErrorMark = "[erro ao carregar imagem]"
)

// Renderer turns one report into a paginated A4 document plus its derived
// filename. It holds no state between invocations; every Render builds a
// fresh engine and owns it exclusively.
type Renderer struct {
	newEngine func() Engine
	resolve   PhotoResolver
}

// New returns a renderer backed by the fpdf engine and the standard photo
// resolver.
func New() *Renderer {
	return &Renderer{newEngine: NewEngine, resolve: ResolvePhoto}
}

// NewWith swaps the engine factory and photo resolver. Tests use it to drive
// a recording engine.
func NewWith(newEngine func() Engine, resolve PhotoResolver) *Renderer {
	return &Renderer{newEngine: newEngine, resolve: resolve}
}

// Render walks the report's schema sections in order and lays them out as
// wrapped text, followed by the photo grid when photos exist. The only error
// paths are a missing filename field (checked up front, no document produced)
// and an engine failure at finalization; a bad photo never aborts the render.
func (r *Renderer) Render(rec *models.Report) ([]byte, string, error) {
	name, err := Filename(rec)
	if err != nil {
		return nil, "", err
	}

	eng := r.newEngine()
	l := &layout{eng: eng, y: margin}
	eng.AddPage()
	l.title(docTitle)

	for _, sec := range schema.Sections(rec.Version()) {
		l.sectionTitle(sec.Title)
		eng.SetFont("", bodyFontSize)
		for _, f := range sec.Fields {
			l.field(f.Label, f.Display(rec))
		}
		l.spacer()
	}

	if len(rec.Photos) > 0 {
		l.photoGrid(rec.Photos, r.resolve)
	}

	out, err := eng.Output()
	if err != nil {
		return nil, "", fmt.Errorf("pdf engine: %w", err)
	}
	return out, name, nil
}

// layout is the per-invocation writing cursor. y is the baseline of the next
// text line (top edge for images); it never belongs to more than one render.
type layout struct {
	eng Engine
	y   float64
}

// ensure is the page-overflow check: when the next write of height h would
// cross the bottom margin, start a new page and reset the cursor.
func (l *layout) ensure(h float64) {
	if l.y+h > pageHeight-margin {
		l.eng.AddPage()
		l.y = margin
	}
}

// title writes the single centered document title (page 1 only).
func (l *layout) title(txt string) {
	l.eng.SetFont("B", titleFontSize)
	l.ensure(lineHeight)
	x := (pageWidth - l.eng.TextWidth(txt)) / 2
	l.eng.Text(x, l.y, txt)
	l.y += 2 * lineHeight
}

func (l *layout) sectionTitle(txt string) {
	l.eng.SetFont("B", sectionFontSize)
	l.ensure(1.5 * lineHeight)
	l.eng.Text(margin, l.y, txt)
	l.y += 1.5 * lineHeight
}

// field writes "<label>: <value>" word-wrapped to the usable width. The
// overflow check runs before every wrapped line, not just the first, so a
// long value can itself span a page break.
func (l *layout) field(label, value string) {
	for _, ln := range l.eng.SplitText(label+": "+value, usableWidth) {
		l.ensure(lineHeight)
		l.eng.Text(margin, l.y, ln)
		l.y += lineHeight
	}
}

// spacer adds the inter-section gap.
func (l *layout) spacer() {
	l.ensure(lineHeight)
	l.y += lineHeight
}

// photoGrid lays out fixed-size thumbnails left to right, wrapping to a new
// row at the usable width and to a new page at the bottom margin. A photo
// that cannot be resolved or embedded gets an inline error marker in its
// cell; the remaining photos still render.
func (l *layout) photoGrid(photos []string, resolve PhotoResolver) {
	l.sectionTitle(photoTitle)

	x := margin
	for i, ref := range photos {
		if x+thumbSize > pageWidth-margin {
			x = margin
			l.y += thumbSize + thumbGutter
		}
		l.ensure(thumbSize)

		img, err := resolve(ref, i)
		if err == nil {
			err = l.eng.Image(img, x, l.y, thumbSize, thumbSize)
		}
		if err != nil {
			l.eng.SetFont("I", markerFontSize)
			l.eng.Text(x, l.y+thumbSize/2, imageErrorMark)
			l.eng.SetFont("", bodyFontSize)
		}
		x += thumbSize + thumbGutter
	}
	l.y += thumbSize + thumbGutter
}
