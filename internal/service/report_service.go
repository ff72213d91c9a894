package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/noah-isme/performance-portal-api/internal/dto"
	"github.com/noah-isme/performance-portal-api/internal/models"
	"github.com/noah-isme/performance-portal-api/internal/performance"
	appErrors "github.com/noah-isme/performance-portal-api/pkg/errors"
	"github.com/noah-isme/performance-portal-api/pkg/export"
)

const (
	contentTypePDF = "application/pdf"
	contentTypeCSV = "text/csv; charset=utf-8"
)

// Participation targets used for the engagement status column.
const (
	attendanceTarget = 90
	discussionTarget = 80
	groupWorkTarget  = 80
	engagementTarget = 85
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(report export.SessionReport) ([]byte, error)
}

type reportMetrics interface {
	RecordReport(format string)
}

// ReportFile is a rendered download.
type ReportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportService turns sessions into downloadable documents. It never modifies a session.
type ReportService struct {
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	metrics reportMetrics
	now     func() time.Time
}

// NewReportService constructs a ReportService. Nil renderers fall back to the defaults.
func NewReportService(csv csvRenderer, pdf pdfRenderer, logger *zap.Logger, metrics reportMetrics) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ReportService{csv: csv, pdf: pdf, logger: logger, metrics: metrics, now: time.Now}
}

// SessionPDF renders the printable report for one session.
func (s *ReportService) SessionPDF(detail *dto.SessionDetail) (*ReportFile, error) {
	if detail == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
	}
	payload, err := s.pdf.Render(s.buildSessionReport(detail))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	s.record("pdf")
	s.logger.Info("session report rendered",
		zap.String("student_id", detail.Student.ID),
		zap.Int("session_id", detail.SessionID),
		zap.Int("bytes", len(payload)),
	)
	return &ReportFile{
		Filename:    sessionReportFilename(detail.Student.Name, detail.SessionName),
		ContentType: contentTypePDF,
		Data:        payload,
	}, nil
}

// HistoryCSV renders one row per session of the batch.
func (s *ReportService) HistoryCSV(student models.Student, sessions []models.Session) (*ReportFile, error) {
	dataset := export.Dataset{Headers: []string{
		"session_id", "session_name", "date", "variant",
		"percentage_score", "gpa", "quiz_average", "exam_average", "presentation_average",
		"assignment_average", "skill_composite", "class_attendance", "overall_engagement", "trend",
	}}
	for _, session := range sessions {
		summary, err := performance.Summarize(session)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrEmptyScores.Code, appErrors.ErrEmptyScores.Status, fmt.Sprintf("session %d has no scores to aggregate", session.SessionID))
		}
		dataset.Rows = append(dataset.Rows, []string{
			strconv.Itoa(session.SessionID),
			session.SessionName,
			session.Date,
			string(session.SessionVariant),
			strconv.Itoa(session.Academic.PercentageScore),
			strconv.FormatFloat(session.Academic.GPA, 'f', 2, 64),
			strconv.Itoa(summary.QuizAverage),
			strconv.Itoa(summary.ExamAverage),
			strconv.Itoa(summary.PresentationAverage),
			strconv.Itoa(summary.AssignmentAverage),
			strconv.Itoa(summary.SkillComposite),
			strconv.Itoa(session.Participation.ClassAttendance),
			strconv.Itoa(session.Participation.OverallEngagement),
			string(summary.Trend),
		})
	}
	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render session history")
	}
	s.record("csv")
	return &ReportFile{
		Filename:    sanitizeFilename(student.Name+"_"+student.ID) + "_Sessions.csv",
		ContentType: contentTypeCSV,
		Data:        payload,
	}, nil
}

func (s *ReportService) buildSessionReport(detail *dto.SessionDetail) export.SessionReport {
	session := detail.Session
	summary := detail.Summary
	a := session.Academic
	p := session.Participation

	academic := export.ReportSection{Title: "ACADEMIC PERFORMANCE", Rows: []export.ReportRow{
		percentRow("Quiz Average", summary.QuizAverage),
		percentRow("Exam Average", summary.ExamAverage),
		percentRow("Presentation Average", summary.PresentationAverage),
		percentRow("Assignment Average", summary.AssignmentAverage),
		percentRow("Project Performance", a.ProjectPerformance),
	}}
	academic.Rows = append(academic.Rows, scoredRows("Quiz", a.TestScores.Quizzes)...)
	academic.Rows = append(academic.Rows, scoredRows("Exam", a.TestScores.Exams)...)
	academic.Rows = append(academic.Rows, scoredRows("Presentation", a.TestScores.Presentations)...)

	return export.SessionReport{
		Title:       "STUDENT PERFORMANCE REPORT",
		Subtitle:    fmt.Sprintf("%s - %s", session.Student.Name, session.SessionName),
		GeneratedAt: s.now().UTC().Format("2006-01-02 15:04 MST"),
		Sections: []export.ReportSection{
			{Title: "STUDENT INFORMATION", Rows: []export.ReportRow{
				{Label: "Name", Value: session.Student.Name},
				{Label: "Student ID", Value: session.Student.ID},
				{Label: "Student Code", Value: session.Student.Code},
				{Label: "Program", Value: session.SessionVariant.Label()},
				{Label: "Session", Value: fmt.Sprintf("%s (%s)", session.SessionName, session.Date)},
			}},
			{Title: "PERFORMANCE SUMMARY", Rows: []export.ReportRow{
				percentRow("Academic Achievement", a.PercentageScore),
				{Label: "Grade Point Average", Value: fmt.Sprintf("%.2f/4.0 (%s)", a.GPA, summary.GPAGrade), Status: summary.GPAStatus},
				percentRow("Test Average", summary.TestAverage),
				percentRow("Skill Composite", summary.SkillComposite),
				percentRow("Class Engagement", p.OverallEngagement),
				percentRow("Class Attendance", p.ClassAttendance),
			}},
			academic,
			{Title: "SKILL DEVELOPMENT", Rows: skillRows(session.Skills, summary)},
			{Title: "PARTICIPATION", Rows: []export.ReportRow{
				targetRow("Class Attendance", p.ClassAttendance, attendanceTarget),
				targetRow("Discussion Participation", p.DiscussionParticipation, discussionTarget),
				targetRow("Group Work", p.GroupWork, groupWorkTarget),
				targetRow("Overall Engagement", p.OverallEngagement, engagementTarget),
			}},
			{Title: "OVERVIEW", Rows: []export.ReportRow{
				{Label: "Strongest Area", Value: string(summary.StrongestArea)},
				{Label: "Area to Improve", Value: string(summary.WeakestArea)},
				{Label: "Overall Trend", Value: titleCase(string(summary.Trend))},
			}},
		},
	}
}

func skillRows(skills models.SkillBlock, summary performance.Summary) []export.ReportRow {
	t := skills.Technical
	i := skills.Interpersonal
	rows := []export.ReportRow{
		skillRow("Technical Average", summary.TechnicalAverage),
		skillRow("Interpersonal Average", summary.InterpersonalAverage),
		skillRow("Core Competencies", summary.SkillComposite),
	}
	named := []struct {
		label string
		score int
	}{
		{"C Programming", t.CProgramming},
		{"HTML & CSS", t.HTMLCSS},
		{"JavaScript Essentials", t.JSEssentials},
		{"Block-Based Code", t.BlockBasedCode},
		{"Circuit Design", t.CircuitDesign},
		{"Electric Circuits", t.ElectricCircuits},
		{"AI Essentials", t.AIEssentials},
		{"UI/UX Essentials", t.UIUXEssentials},
		{"Robotics Essentials", t.RoboticsEssentials},
		{"Communication Skills", i.CommunicationSkills},
		{"Presentation Skills", i.PresentationSkills},
		{"Time Management", i.TimeManagement},
		{"Negotiation", i.Negotiation},
		{"Problem Solving", skills.ProblemSolving},
		{"Critical Thinking", skills.CriticalThinking},
		{"Creativity", skills.Creativity},
		{"Innovation", skills.Innovation},
	}
	for _, n := range named {
		rows = append(rows, skillRow(n.label, n.score))
	}
	return rows
}

func percentRow(label string, value int) export.ReportRow {
	return export.ReportRow{Label: label, Value: fmt.Sprintf("%d%%", value), Status: performance.Status(float64(value))}
}

func skillRow(label string, value int) export.ReportRow {
	return export.ReportRow{Label: label, Value: fmt.Sprintf("%d%%", value), Status: performance.SkillLevel(float64(value))}
}

func targetRow(label string, value, target int) export.ReportRow {
	return export.ReportRow{
		Label:  label,
		Value:  fmt.Sprintf("%d%% (target %d%%)", value, target),
		Status: performance.EngagementStatus(float64(value), float64(target)),
	}
}

func scoredRows(label string, items []models.ScoredItem) []export.ReportRow {
	rows := make([]export.ReportRow, 0, len(items))
	for i, item := range items {
		rows = append(rows, export.ReportRow{
			Label:  fmt.Sprintf("%s %d", label, i+1),
			Value:  fmt.Sprintf("%d%%", item.Score),
			Status: "Grade " + string(item.Grade),
		})
	}
	return rows
}

func (s *ReportService) record(format string) {
	if s.metrics != nil {
		s.metrics.RecordReport(format)
	}
}

func titleCase(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}

func sessionReportFilename(studentName, sessionName string) string {
	return sanitizeFilename(studentName+"_"+sessionName) + "_Report.pdf"
}

const maxFilenameBytes = 100

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "\"", "", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) <= maxFilenameBytes {
		return result
	}
	cut := maxFilenameBytes
	for cut > 0 && !utf8.RuneStart(result[cut]) {
		cut--
	}
	return result[:cut]
}
