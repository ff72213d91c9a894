package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/performance-portal-api/internal/dto"
	"github.com/noah-isme/performance-portal-api/internal/models"
	appErrors "github.com/noah-isme/performance-portal-api/pkg/errors"
	"github.com/noah-isme/performance-portal-api/pkg/export"
)

type capturingPDF struct {
	last export.SessionReport
	err  error
}

func (c *capturingPDF) Render(report export.SessionReport) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.last = report
	return []byte("%PDF-fake"), nil
}

type reportCounter struct {
	formats []string
}

func (r *reportCounter) RecordReport(format string) { r.formats = append(r.formats, format) }

func sampleDetail(t *testing.T) *dto.SessionDetail {
	t.Helper()
	svc, _, key := newTestSessionService(t)
	detail, err := svc.Get(context.Background(), key, 1)
	require.NoError(t, err)
	return detail
}

func findSection(t *testing.T, report export.SessionReport, title string) export.ReportSection {
	t.Helper()
	for _, section := range report.Sections {
		if section.Title == title {
			return section
		}
	}
	t.Fatalf("section %q missing", title)
	return export.ReportSection{}
}

func TestReportServiceSessionPDF(t *testing.T) {
	pdf := &capturingPDF{}
	metrics := &reportCounter{}
	svc := NewReportService(nil, pdf, zap.NewNop(), metrics)
	svc.now = func() time.Time { return time.Date(2024, time.May, 1, 9, 30, 0, 0, time.UTC) }
	detail := sampleDetail(t)

	file, err := svc.SessionPDF(detail)
	require.NoError(t, err)
	assert.Equal(t, "Ahmed_Hassan_Individual_Session_1_Report.pdf", file.Filename)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, []byte("%PDF-fake"), file.Data)
	assert.Equal(t, []string{"pdf"}, metrics.formats)

	report := pdf.last
	assert.Equal(t, "Ahmed Hassan - Individual Session 1", report.Subtitle)
	assert.Equal(t, "2024-05-01 09:30 UTC", report.GeneratedAt)

	info := findSection(t, report, "STUDENT INFORMATION")
	assert.Equal(t, export.ReportRow{Label: "Student Code", Value: "AH2024"}, info.Rows[2])

	academic := findSection(t, report, "ACADEMIC PERFORMANCE")
	quiz := detail.Academic.TestScores.Quizzes[0]
	assert.Contains(t, academic.Rows, export.ReportRow{
		Label:  "Quiz 1",
		Value:  fmt.Sprintf("%d%%", quiz.Score),
		Status: "Grade " + string(quiz.Grade),
	})

	skills := findSection(t, report, "SKILL DEVELOPMENT")
	assert.Len(t, skills.Rows, 3+17)

	overview := findSection(t, report, "OVERVIEW")
	assert.Equal(t, string(detail.Summary.StrongestArea), overview.Rows[0].Value)
}

func TestReportServiceSessionPDFWithRealRenderer(t *testing.T) {
	svc := NewReportService(nil, nil, nil, nil)

	file, err := svc.SessionPDF(sampleDetail(t))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF-")))
}

func TestReportServiceSessionPDFRenderFailure(t *testing.T) {
	svc := NewReportService(nil, &capturingPDF{err: errors.New("font missing")}, nil, nil)

	_, err := svc.SessionPDF(sampleDetail(t))
	requireAppCode(t, err, appErrors.ErrInternal.Code)

	_, err = svc.SessionPDF(nil)
	requireAppCode(t, err, appErrors.ErrNotFound.Code)
}

func TestReportServiceHistoryCSV(t *testing.T) {
	svc, _, key := newTestSessionService(t)
	sessions, err := svc.Batch(context.Background(), key)
	require.NoError(t, err)

	reports := NewReportService(&export.CSVExporter{}, nil, nil, nil)
	file, err := reports.HistoryCSV(seededStudent(t, "AH2024"), sessions)
	require.NoError(t, err)
	assert.Equal(t, "Ahmed_Hassan_STU001_Sessions.csv", file.Filename)

	records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+models.SessionsPerBatch)
	assert.Equal(t, "session_id", records[0][0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "Individual Session 16", records[16][1])
}

func TestReportServiceHistoryCSVEmptyScores(t *testing.T) {
	reports := NewReportService(nil, nil, nil, nil)
	broken := models.Session{SessionID: 1}

	_, err := reports.HistoryCSV(models.Student{Name: "X", ID: "STU009"}, []models.Session{broken})
	requireAppCode(t, err, appErrors.ErrEmptyScores.Code)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "na", sanitizeFilename(""))
	assert.Equal(t, "Fatima_Al-Zahra_Group_Session_2", sanitizeFilename("Fatima Al-Zahra_Group Session 2"))
	assert.Equal(t, "a-b-c", sanitizeFilename(`a/b\c`))
	assert.Equal(t, "quoted", sanitizeFilename(`"quoted"`))
	assert.Len(t, sanitizeFilename(strings.Repeat("x", 150)), 100)

	arabic := sanitizeFilename("A" + strings.Repeat("ع", 60))
	assert.True(t, utf8.ValidString(arabic))
	assert.LessOrEqual(t, len(arabic), 100)
	assert.Equal(t, 99, len(arabic))
}
