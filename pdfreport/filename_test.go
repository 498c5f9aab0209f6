// path: pdfreport/filename_test.go
package pdfreport

import (
	"testing"

	"github.com/germanyribeiro/meu-relatorio-lavoura/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilenameDerivation(t *testing.T) {
	rec := &models.Report{}
	rec.Property.Name = "Fazenda Boa Esperança"
	rec.Visit.Date = "2024-03-15"

	name, err := Filename(rec)
	require.NoError(t, err)
	assert.Equal(t, "Relatorio_Lavoura_Fazenda_Boa_Esperança_2024-03-15.pdf", name)
}

func TestFilenameKeepsNonWhitespaceRunes(t *testing.T) {
	rec := &models.Report{}
	rec.Property.Name = "Sítio do João (área 2)"
	rec.Visit.Date = "2023-01-01"

	name, err := Filename(rec)
	require.NoError(t, err)
	assert.Equal(t, "Relatorio_Lavoura_Sítio_do_João_(área_2)_2023-01-01.pdf", name)
}

func TestFilenameMissingPropertyName(t *testing.T) {
	rec := &models.Report{}
	rec.Visit.Date = "2024-03-15"

	_, err := Filename(rec)
	require.Error(t, err)
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "property name", missing.Field)
}

func TestFilenameMissingVisitDate(t *testing.T) {
	rec := &models.Report{}
	rec.Property.Name = "Fazenda Boa Esperança"
	rec.Visit.Date = "   "

	_, err := Filename(rec)
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "visit date", missing.Field)
}
