// path: models/report.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report is one farm-visit report as persisted in the "reports" collection.
// Section grouping mirrors the form: each section is a fixed set of labeled
// text fields; ordering for display and PDF output lives in package schema,
// not here.
type Report struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID string             `bson:"owner_id" json:"owner_id"`

	// SchemaVersion selects the section/field set used to render this
	// report. Zero is treated as 1 (reports saved before versioning).
	SchemaVersion int `bson:"schema_version,omitempty" json:"schema_version,omitempty"`

	Visit      VisitInfo           `bson:"visit" json:"visit"`
	Property   PropertyInfo        `bson:"property" json:"property"`
	Quality    QualityAssessment   `bson:"quality" json:"quality"`
	Potential  ProductionPotential `bson:"potential" json:"potential"`
	Guidance   TechnicalGuidance   `bson:"guidance" json:"guidance"`
	NextSteps  NextSteps           `bson:"next_steps" json:"next_steps"`
	Conditions FieldConditions     `bson:"conditions,omitempty" json:"conditions,omitempty"`

	// AdditionalNotes is the free-text closing section (schema v2 only).
	AdditionalNotes string `bson:"additional_notes,omitempty" json:"additional_notes,omitempty"`

	// Photos holds image references in display and print order. Each entry
	// is either a served upload path (/uploads/...), an absolute URL, or a
	// base64 data URI. No deduplication.
	Photos []string `bson:"photos,omitempty" json:"photos,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// VisitInfo is "1. Dados da Visita e do Técnico".
type VisitInfo struct {
	// Date is the visit date exactly as entered by the form (2006-01-02).
	Date       string `bson:"date" json:"date"`
	Time       string `bson:"time,omitempty" json:"time,omitempty"` // schema v2
	Technician string `bson:"technician" json:"technician"`
}

// PropertyInfo is "2. Dados da Propriedade".
type PropertyInfo struct {
	Name       string `bson:"name" json:"name"`
	Contractor string `bson:"contractor" json:"contractor"`
	Culture    string `bson:"culture" json:"culture"`
	TotalArea  string `bson:"total_area" json:"total_area"`
}

// QualityAssessment is "3. Avaliação da Qualidade da Lavoura".
type QualityAssessment struct {
	Pests         string `bson:"pests" json:"pests"`
	Diseases      string `bson:"diseases" json:"diseases"`
	NutrientGaps  string `bson:"nutrient_gaps" json:"nutrient_gaps"`
	WeedControl   string `bson:"weed_control" json:"weed_control"`
	SoilAspects   string `bson:"soil_aspects" json:"soil_aspects"`
	OtherFindings string `bson:"other_findings" json:"other_findings"`
}

// ProductionPotential is "4. Potencial Produtivo da Lavoura".
type ProductionPotential struct {
	Estimate         string `bson:"estimate" json:"estimate"`
	LimitingFactors  string `bson:"limiting_factors" json:"limiting_factors"`
	FavorableFactors string `bson:"favorable_factors" json:"favorable_factors"`
}

// TechnicalGuidance is "5. Orientações Técnicas Fornecidas ao Corpo Gerencial".
type TechnicalGuidance struct {
	ShortTerm         string `bson:"short_term" json:"short_term"`
	PestManagement    string `bson:"pest_management" json:"pest_management"`
	Fertilization     string `bson:"fertilization" json:"fertilization"`
	CulturalPractices string `bson:"cultural_practices" json:"cultural_practices"`
	Other             string `bson:"other" json:"other"`
}

// NextSteps is "6. Próximos Passos e Ações de Acompanhamento".
type NextSteps struct {
	NextVisitDate  string `bson:"next_visit_date" json:"next_visit_date"`
	ActionsToCheck string `bson:"actions_to_check" json:"actions_to_check"`
}

// FieldConditions is "7. Clima, Fenologia e Observações Gerais" (schema v2).
type FieldConditions struct {
	Weather      string `bson:"weather,omitempty" json:"weather,omitempty"`
	Phenology    string `bson:"phenology,omitempty" json:"phenology,omitempty"`
	Observations string `bson:"observations,omitempty" json:"observations,omitempty"`
}

// Version returns the effective schema version (zero value maps to 1).
func (r *Report) Version() int {
	if r.SchemaVersion <= 0 {
		return 1
	}
	return r.SchemaVersion
}
