package export

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	out, err := (&CSVExporter{}).Render(Dataset{
		Headers: []string{"session", "name"},
		Rows:    [][]string{{"1", "Group Session 1"}, {"2", "Group, Session 2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "session,name\n1,Group Session 1\n2,\"Group, Session 2\"\n", string(out))
}

func TestCSVExporterBOMAndValidation(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{Headers: []string{"a"}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "\ufeff"))

	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)

	_, err = NewCSVExporter().Render(Dataset{Headers: []string{"a", "b"}, Rows: [][]string{{"only-one"}}})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	rows := make([]ReportRow, 0, 60)
	for i := 0; i < 60; i++ {
		rows = append(rows, ReportRow{Label: fmt.Sprintf("Quiz %d", i+1), Value: "88%", Status: "Grade: B"})
	}
	out, err := NewPDFExporter().Render(SessionReport{
		Title:       "Student Performance Report",
		Subtitle:    "Fatima Al-Zahra - Group Session 1",
		GeneratedAt: "2024-01-07",
		Sections: []ReportSection{
			{Title: "Student Information", Rows: []ReportRow{{Label: "Name", Value: "Fatima Al-Zahra"}}},
			{Title: "Academic Performance", Rows: rows},
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	pages := bytes.Count(out, []byte("/Type /Page")) - bytes.Count(out, []byte("/Type /Pages"))
	assert.Greater(t, pages, 1, "long sections spill onto further pages")
}

func TestPDFExporterRequiresSections(t *testing.T) {
	_, err := NewPDFExporter().Render(SessionReport{Title: "empty"})
	assert.Error(t, err)
}
