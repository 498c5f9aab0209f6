// path: models/responses.go
package models

// ReportPayload is the JSON body for POST /api/reports and PUT /api/reports/:id.
// (Multipart branch reads fields from the form directly.)
type ReportPayload struct {
	SchemaVersion   int                 `json:"schema_version,omitempty"`
	Visit           VisitInfo           `json:"visit"`
	Property        PropertyInfo        `json:"property"`
	Quality         QualityAssessment   `json:"quality"`
	Potential       ProductionPotential `json:"potential"`
	Guidance        TechnicalGuidance   `json:"guidance"`
	NextSteps       NextSteps           `json:"next_steps"`
	Conditions      FieldConditions     `json:"conditions"`
	AdditionalNotes string              `json:"additional_notes"`
	Photos          []string            `json:"photos"`
}

type CreateReportResp struct {
	OK    bool   `json:"ok"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// FilterValuesResp feeds the list view's filter dropdowns.
type FilterValuesResp struct {
	OK         bool     `json:"ok"`
	Properties []string `json:"properties"`
	Cultures   []string `json:"cultures"`
}
