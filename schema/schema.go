// path: schema/schema.go
package schema

import (
	"time"

	"github.com/germanyribeiro/meu-relatorio-lavoura/models"
)

// Placeholder is rendered for any field without a value. Blank fields are
// always shown as "<label>: N/A" rather than skipped, so the document layout
// is uniform regardless of how much of the form was filled in.
const Placeholder = "N/A"

// Field is one labeled entry of a section. Value reads the raw value from a
// report; it never fails, missing data is just the empty string.
type Field struct {
	Key   string
	Label string
	Value func(r *models.Report) string
}

// Display returns the value ready for the viewer/PDF, or the placeholder.
func (f Field) Display(r *models.Report) string {
	if v := f.Value(r); v != "" {
		return v
	}
	return Placeholder
}

// Section is a named, ordered group of fields. The slice order of
// Sections(version) is the document's table of contents and must not change
// within a schema version.
type Section struct {
	Title  string
	Fields []Field
}

// Sections returns the ordered section/field set for a schema version.
// Unknown versions resolve to the latest known one.
func Sections(version int) []Section {
	if version <= 1 {
		return v1Sections
	}
	return v2Sections
}

// asDate converts a stored form date (2006-01-02) to the pt-BR display
// convention. Unparseable input is shown as entered.
func asDate(s string) string {
	if s == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}

var visitSection = Section{
	Title: "1. Dados da Visita e do Técnico",
	Fields: []Field{
		{Key: "visit_date", Label: "Data da Visita", Value: func(r *models.Report) string { return asDate(r.Visit.Date) }},
		{Key: "technician", Label: "Nome do Técnico/Responsável", Value: func(r *models.Report) string { return r.Visit.Technician }},
	},
}

// v2 inserts the wall-clock time between date and technician.
var visitSectionV2 = Section{
	Title: "1. Dados da Visita e do Técnico",
	Fields: []Field{
		{Key: "visit_date", Label: "Data da Visita", Value: func(r *models.Report) string { return asDate(r.Visit.Date) }},
		{Key: "visit_time", Label: "Hora da Visita", Value: func(r *models.Report) string { return r.Visit.Time }},
		{Key: "technician", Label: "Nome do Técnico/Responsável", Value: func(r *models.Report) string { return r.Visit.Technician }},
	},
}

var propertySection = Section{
	Title: "2. Dados da Propriedade",
	Fields: []Field{
		{Key: "property_name", Label: "Nome da Propriedade", Value: func(r *models.Report) string { return r.Property.Name }},
		{Key: "contractor", Label: "Contratante", Value: func(r *models.Report) string { return r.Property.Contractor }},
		{Key: "culture", Label: "Cultura Acompanhada", Value: func(r *models.Report) string { return r.Property.Culture }},
		{Key: "total_area", Label: "Área Total da(s) Lavouras Visitada(s) (ha/alqueires)", Value: func(r *models.Report) string { return r.Property.TotalArea }},
	},
}

var qualitySection = Section{
	Title: "3. Avaliação da Qualidade da Lavoura",
	Fields: []Field{
		{Key: "pests", Label: "Pragas Identificadas (Nome, Nível de Infestação)", Value: func(r *models.Report) string { return r.Quality.Pests }},
		{Key: "diseases", Label: "Doenças Identificadas (Nome, Nível de Incidência)", Value: func(r *models.Report) string { return r.Quality.Diseases }},
		{Key: "nutrient_gaps", Label: "Déficits Nutricionais (Sintomas, Deficiência Suspeita)", Value: func(r *models.Report) string { return r.Quality.NutrientGaps }},
		{Key: "weed_control", Label: "Controle de Plantas Daninhas (Eficiência, Espécies Predominantes)", Value: func(r *models.Report) string { return r.Quality.WeedControl }},
		{Key: "soil_aspects", Label: "Aspectos Físicos do Solo", Value: func(r *models.Report) string { return r.Quality.SoilAspects }},
		{Key: "other_findings", Label: "Outras Observações de Qualidade", Value: func(r *models.Report) string { return r.Quality.OtherFindings }},
	},
}

var potentialSection = Section{
	Title: "4. Potencial Produtivo da Lavoura",
	Fields: []Field{
		{Key: "estimate", Label: "Estimativa de Produção (Atual/Revisada)", Value: func(r *models.Report) string { return r.Potential.Estimate }},
		{Key: "limiting_factors", Label: "Fatores Limitantes Observados", Value: func(r *models.Report) string { return r.Potential.LimitingFactors }},
		{Key: "favorable_factors", Label: "Fatores Favoráveis Observados", Value: func(r *models.Report) string { return r.Potential.FavorableFactors }},
	},
}

var guidanceSection = Section{
	Title: "5. Orientações Técnicas Fornecidas ao Corpo Gerencial",
	Fields: []Field{
		{Key: "short_term", Label: "Recomendações para Próximos Dias/Semana", Value: func(r *models.Report) string { return r.Guidance.ShortTerm }},
		{Key: "pest_management", Label: "Manejo Fitossanitário (Produto, Dose, Momento)", Value: func(r *models.Report) string { return r.Guidance.PestManagement }},
		{Key: "fertilization", Label: "Manejo Nutricional (Fertilizante, Dose, Momento)", Value: func(r *models.Report) string { return r.Guidance.Fertilization }},
		{Key: "cultural_practices", Label: "Manejo Cultural (Rotação, Preparo de Solo, etc.)", Value: func(r *models.Report) string { return r.Guidance.CulturalPractices }},
		{Key: "other_recommendations", Label: "Outras Recomendações", Value: func(r *models.Report) string { return r.Guidance.Other }},
	},
}

var nextStepsSection = Section{
	Title: "6. Próximos Passos e Ações de Acompanhamento",
	Fields: []Field{
		{Key: "next_visit_date", Label: "Data Sugerida para Próxima Visita", Value: func(r *models.Report) string { return asDate(r.NextSteps.NextVisitDate) }},
		{Key: "actions_to_check", Label: "Ações a Serem Verificadas na Próxima Visita", Value: func(r *models.Report) string { return r.NextSteps.ActionsToCheck }},
	},
}

var conditionsSection = Section{
	Title: "7. Clima, Fenologia e Observações Gerais",
	Fields: []Field{
		{Key: "weather", Label: "Condições Climáticas no Período", Value: func(r *models.Report) string { return r.Conditions.Weather }},
		{Key: "phenology", Label: "Estádio Fenológico da Lavoura", Value: func(r *models.Report) string { return r.Conditions.Phenology }},
		{Key: "observations", Label: "Observações Gerais", Value: func(r *models.Report) string { return r.Conditions.Observations }},
	},
}

var notesSection = Section{
	Title: "8. Observações Adicionais",
	Fields: []Field{
		{Key: "additional_notes", Label: "Observações", Value: func(r *models.Report) string { return r.AdditionalNotes }},
	},
}

var v1Sections = []Section{
	visitSection,
	propertySection,
	qualitySection,
	potentialSection,
	guidanceSection,
	nextStepsSection,
}

var v2Sections = []Section{
	visitSectionV2,
	propertySection,
	qualitySection,
	potentialSection,
	guidanceSection,
	nextStepsSection,
	conditionsSection,
	notesSection,
}
