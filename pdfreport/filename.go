// path: pdfreport/filename.go
package pdfreport

import (
	"strings"
	"unicode"

	"github.com/germanyribeiro/meu-relatorio-lavoura/models"
)

// MissingFieldError reports a filename-critical field absent at render time.
// Property name and visit date are both mandatory on the form, so hitting
// this means the caller handed over an incomplete record; the renderer fails
// fast rather than producing a malformed filename.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "report is missing required field: " + e.Field
}

// Filename derives the download name for a report:
//
//	Relatorio_Lavoura_<property name, whitespace as underscores>_<visit date as stored>.pdf
//
// The date part keeps the raw stored string; only the body text of the PDF
// uses the pt-BR dd/mm/yyyy convention. Collisions between two reports for
// the same property and date are allowed.
func Filename(r *models.Report) (string, error) {
	prop := strings.TrimSpace(r.Property.Name)
	if prop == "" {
		return "", &MissingFieldError{Field: "property name"}
	}
	date := strings.TrimSpace(r.Visit.Date)
	if date == "" {
		return "", &MissingFieldError{Field: "visit date"}
	}
	return "Relatorio_Lavoura_" + underscoreWhitespace(prop) + "_" + date + ".pdf", nil
}

// underscoreWhitespace replaces every whitespace rune with an underscore and
// leaves everything else (accents included) untouched.
func underscoreWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, s)
}
