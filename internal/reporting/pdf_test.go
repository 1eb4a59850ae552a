package reporting

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uxauditpro/backend/internal/domain/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		ID:        uuid.New(),
		AccountID: uuid.New(),
		URL:       "https://example.com/pricing",
		UXScore:   72,
		Issues: model.StringList{
			"Primary call-to-action is below the fold on mobile viewports",
			"Text contrast on secondary buttons fails WCAG AA",
			"Form fields lack inline validation feedback",
		},
		Recommendations: model.StringList{
			"Move the primary call-to-action above the fold",
			"Raise button text contrast to at least 4.5:1",
			"Validate form fields as the user types",
		},
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestGenerate_ProducesPDF(t *testing.T) {
	g := NewPDFGenerator()

	data, err := g.Generate(sampleReport(), true)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestGenerate_ExamplesSectionGated(t *testing.T) {
	g := NewPDFGenerator()
	report := sampleReport()

	withExamples, err := g.Generate(report, true)
	require.NoError(t, err)

	withoutExamples, err := g.Generate(report, false)
	require.NoError(t, err)

	// The annotated variant carries extra text content.
	assert.Greater(t, len(withExamples), len(withoutExamples))
}

func TestExampleFor_KeywordMatch(t *testing.T) {
	assert.NotEmpty(t, exampleFor("Primary call-to-action is below the fold"))
	assert.Empty(t, exampleFor("Footer copyright year is outdated"))
}
