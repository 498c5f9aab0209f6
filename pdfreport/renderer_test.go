// path: pdfreport/renderer_test.go
package pdfreport

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/germanyribeiro/meu-relatorio-lavoura/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time check that the recording fake satisfies the engine contract.
var _ Engine = (*fakeEngine)(nil)

type fakeOp struct {
	Kind string // "page", "text", "image"
	X, Y float64
	Txt  string
	Size float64
}

// fakeEngine records every draw call. Text metrics are a flat 2mm per rune so
// wrapping is deterministic without real glyph data.
type fakeEngine struct {
	ops       []fakeOp
	fontSize  float64
	outputErr error
}

const fakeCharWidth = 2.0

func (f *fakeEngine) AddPage() { f.ops = append(f.ops, fakeOp{Kind: "page"}) }

func (f *fakeEngine) SetFont(style string, size float64) { f.fontSize = size }

func (f *fakeEngine) SplitText(txt string, width float64) []string {
	maxChars := int(width / fakeCharWidth)
	words := strings.Fields(txt)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		if len([]rune(cur))+1+len([]rune(w)) <= maxChars {
			cur += " " + w
		} else {
			lines = append(lines, cur)
			cur = w
		}
	}
	return append(lines, cur)
}

func (f *fakeEngine) Text(x, y float64, txt string) {
	f.ops = append(f.ops, fakeOp{Kind: "text", X: x, Y: y, Txt: txt, Size: f.fontSize})
}

func (f *fakeEngine) TextWidth(txt string) float64 {
	return fakeCharWidth * float64(len([]rune(txt)))
}

func (f *fakeEngine) Image(img ImagePayload, x, y, w, h float64) error {
	f.ops = append(f.ops, fakeOp{Kind: "image", X: x, Y: y, Txt: img.Name})
	return nil
}

func (f *fakeEngine) Output() ([]byte, error) {
	if f.outputErr != nil {
		return nil, f.outputErr
	}
	return []byte("%PDF-FAKE"), nil
}

// okResolver accepts everything except refs containing "corrupt".
func okResolver(ref string, index int) (ImagePayload, error) {
	if strings.Contains(ref, "corrupt") {
		return ImagePayload{}, errors.New("decode image: broken payload")
	}
	return ImagePayload{Name: fmt.Sprintf("photo_%d", index), Format: "png", Data: []byte{1}}, nil
}

// renderWithFake runs one render on a fresh recording engine.
func renderWithFake(t *testing.T, rec *models.Report) *fakeEngine {
	t.Helper()
	fe := &fakeEngine{}
	r := NewWith(func() Engine { return fe }, okResolver)
	_, _, err := r.Render(rec)
	require.NoError(t, err)
	return fe
}

func fullRecord() *models.Report {
	rec := &models.Report{SchemaVersion: 1}
	rec.Visit = models.VisitInfo{Date: "2024-03-15", Technician: "Carlos Andrade"}
	rec.Property = models.PropertyInfo{
		Name: "Fazenda Boa Esperança", Contractor: "AgroSul", Culture: "Soja", TotalArea: "120 ha",
	}
	rec.Quality = models.QualityAssessment{
		Pests: "Percevejo, baixa", Diseases: "Ferrugem, média", NutrientGaps: "Potássio",
		WeedControl: "Buva, eficiente", SoilAspects: "Compactação leve", OtherFindings: "Nenhuma",
	}
	rec.Potential = models.ProductionPotential{
		Estimate: "60 sc/ha", LimitingFactors: "Estiagem", FavorableFactors: "Bom stand",
	}
	rec.Guidance = models.TechnicalGuidance{
		ShortTerm: "Aplicar fungicida", PestManagement: "Inseticida X, 0.5 L/ha",
		Fertilization: "KCl 100 kg/ha", CulturalPractices: "Rotação com milho", Other: "Monitorar",
	}
	rec.NextSteps = models.NextSteps{NextVisitDate: "2024-03-29", ActionsToCheck: "Reavaliar ferrugem"}
	return rec
}

func textOps(fe *fakeEngine) []fakeOp {
	var out []fakeOp
	for _, op := range fe.ops {
		if op.Kind == "text" {
			out = append(out, op)
		}
	}
	return out
}

func pageCount(fe *fakeEngine) int {
	n := 0
	for _, op := range fe.ops {
		if op.Kind == "page" {
			n++
		}
	}
	return n
}

func TestRenderIsDeterministic(t *testing.T) {
	rec := fullRecord()
	rec.Photos = []string{"/uploads/a.png", "/uploads/b.png"}

	a := renderWithFake(t, rec)
	b := renderWithFake(t, rec)
	assert.Equal(t, a.ops, b.ops)
}

func TestSectionTitlesInSchemaOrder(t *testing.T) {
	rec := fullRecord()
	// Populate nothing in some sections: order must not depend on content.
	rec.Quality = models.QualityAssessment{}
	rec.Guidance = models.TechnicalGuidance{}

	fe := renderWithFake(t, rec)

	var titles []string
	for _, op := range textOps(fe) {
		if op.Size == sectionFontSize {
			titles = append(titles, op.Txt)
		}
	}
	assert.Equal(t, []string{
		"1. Dados da Visita e do Técnico",
		"2. Dados da Propriedade",
		"3. Avaliação da Qualidade da Lavoura",
		"4. Potencial Produtivo da Lavoura",
		"5. Orientações Técnicas Fornecidas ao Corpo Gerencial",
		"6. Próximos Passos e Ações de Acompanhamento",
	}, titles)
}

func TestNoLineCrossesBottomMargin(t *testing.T) {
	rec := fullRecord()
	rec.Quality.OtherFindings = strings.Repeat("observação detalhada da lavoura ", 200)

	fe := renderWithFake(t, rec)
	for _, op := range textOps(fe) {
		assert.LessOrEqual(t, op.Y, pageHeight-margin, "line %q", op.Txt)
	}
}

func TestBlankFieldsRenderPlaceholder(t *testing.T) {
	rec := fullRecord()
	rec.Potential = models.ProductionPotential{}

	fe := renderWithFake(t, rec)
	found := 0
	for _, op := range textOps(fe) {
		if strings.HasSuffix(op.Txt, ": N/A") {
			found++
		}
	}
	assert.Equal(t, 3, found)
}

func TestPhotoFailureIsIsolated(t *testing.T) {
	rec := fullRecord()
	rec.Photos = []string{"/uploads/ok1.png", "/uploads/corrupt.png", "/uploads/ok2.png"}

	fe := renderWithFake(t, rec)

	var images, markers int
	for _, op := range fe.ops {
		switch {
		case op.Kind == "image":
			images++
		case op.Kind == "text" && op.Txt == imageErrorMark:
			markers++
		}
	}
	assert.Equal(t, 2, images)
	assert.Equal(t, 1, markers)
}

func TestNoPhotoSectionWhenEmpty(t *testing.T) {
	fe := renderWithFake(t, fullRecord())
	for _, op := range textOps(fe) {
		assert.NotEqual(t, photoTitle, op.Txt)
	}
	for _, op := range fe.ops {
		assert.NotEqual(t, "image", op.Kind)
	}
}

func TestLongFieldWrapsAcrossPages(t *testing.T) {
	rec := fullRecord()
	rec.AdditionalNotes = strings.Repeat("acompanhamento semanal da lavoura de soja ", 400)
	rec.SchemaVersion = 2

	fe := renderWithFake(t, rec)
	require.GreaterOrEqual(t, pageCount(fe), 3, "long field must force 3+ pages")

	// The wrapped lines of the notes field advance by exactly one line
	// height, or reset to the top margin on a page break. Only body ops
	// after the notes section title belong to that single field.
	ops := textOps(fe)
	start := -1
	for i, op := range ops {
		if op.Txt == "8. Observações Adicionais" {
			start = i + 1
		}
	}
	require.GreaterOrEqual(t, start, 0)
	body := make([]fakeOp, 0)
	for _, op := range ops[start:] {
		if op.Size == bodyFontSize {
			body = append(body, op)
		}
	}
	require.Greater(t, len(body), 50)
	for i := 1; i < len(body); i++ {
		dy := body[i].Y - body[i-1].Y
		if dy < 0 {
			assert.Equal(t, margin, body[i].Y, "page break must reset cursor to top margin")
			continue
		}
		assert.InDelta(t, lineHeight, dy, 0.01)
	}
}

func TestShortReportFitsOnOnePage(t *testing.T) {
	fe := renderWithFake(t, fullRecord())

	assert.Equal(t, 1, pageCount(fe))

	var title, sections, body int
	for _, op := range textOps(fe) {
		switch op.Size {
		case titleFontSize:
			title++
		case sectionFontSize:
			sections++
		case bodyFontSize:
			body++
		}
	}
	assert.Equal(t, 1, title)
	assert.Equal(t, 6, sections)
	assert.Equal(t, 22, body) // v1 field count, all short enough for one line
}

func TestPhotoRowLayout(t *testing.T) {
	rec := fullRecord()
	rec.Photos = []string{"/u/1.png", "/u/2.png", "/u/3.png", "/u/4.png", "/u/5.png"}

	fe := renderWithFake(t, rec)
	assert.Equal(t, 1, pageCount(fe))

	var xs []float64
	var ys []float64
	for _, op := range fe.ops {
		if op.Kind == "image" {
			xs = append(xs, op.X)
			ys = append(ys, op.Y)
		}
	}
	require.Len(t, xs, 5)
	assert.Equal(t, []float64{20, 45, 70, 95, 120}, xs)
	for _, y := range ys[1:] {
		assert.Equal(t, ys[0], y, "five small photos fit a single row")
	}
}

func TestPhotoRowWraps(t *testing.T) {
	rec := fullRecord()
	for i := 0; i < 8; i++ {
		rec.Photos = append(rec.Photos, fmt.Sprintf("/u/%d.png", i))
	}

	fe := renderWithFake(t, rec)

	var ys []float64
	for _, op := range fe.ops {
		if op.Kind == "image" {
			ys = append(ys, op.Y)
		}
	}
	require.Len(t, ys, 8)
	// 7 cells of 25mm fit the 170mm usable width; the 8th starts a new row.
	assert.Equal(t, ys[0], ys[6])
	assert.InDelta(t, thumbSize+thumbGutter, ys[7]-ys[0], 0.01)
}

func TestMissingFilenameFieldFailsFast(t *testing.T) {
	rec := fullRecord()
	rec.Property.Name = ""

	fe := &fakeEngine{}
	r := NewWith(func() Engine { return fe }, okResolver)
	data, name, err := r.Render(rec)

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Nil(t, data)
	assert.Empty(t, name)
	assert.Empty(t, fe.ops, "no partial document on abort")
}

func TestEngineFailureIsTerminal(t *testing.T) {
	fe := &fakeEngine{outputErr: errors.New("font table corrupted")}
	r := NewWith(func() Engine { return fe }, okResolver)

	data, _, err := r.Render(fullRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf engine")
	assert.Nil(t, data)
}

func TestRenderProducesRealPDF(t *testing.T) {
	data, name, err := New().Render(fullRecord())
	require.NoError(t, err)
	assert.Equal(t, "Relatorio_Lavoura_Fazenda_Boa_Esperança_2024-03-15.pdf", name)
	require.Greater(t, len(data), 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderRealPDFWithDataURIPhoto(t *testing.T) {
	rec := fullRecord()
	rec.Photos = []string{
		"data:image/png;base64," + tinyPNG,
		"data:image/png;base64,bm90IGEgcG5n", // corrupt: decodes to "not a png"
	}

	data, _, err := New().Render(rec)
	require.NoError(t, err, "a corrupt photo must not abort the render")
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderRealPDFWrapsAccentedText(t *testing.T) {
	rec := fullRecord()
	rec.Quality.OtherFindings = strings.TrimSpace(strings.Repeat(
		"Observação de campo: variação acentuada no vigor da vegetação, "+
			"irrigação irregular próxima à sede e compactação média do solo. ", 40))

	data, _, err := New().Render(rec)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderRealPDFWithInterlacedPNG(t *testing.T) {
	rec := fullRecord()
	rec.Photos = []string{
		"data:image/png;base64," + base64.StdEncoding.EncodeToString(interlacedPNG(t)),
	}

	data, _, err := New().Render(rec)
	require.NoError(t, err, "an interlaced PNG must not abort the render")
	assert.Equal(t, "%PDF", string(data[:4]))
}
