package performance

import (
	"fmt"

	"github.com/noah-isme/performance-portal-api/internal/models"
)

// Summary carries every aggregate shown on the dashboard and in the report. It is derived
// on demand and never stored.
type Summary struct {
	QuizAverage          int           `json:"quiz_average"`
	ExamAverage          int           `json:"exam_average"`
	PresentationAverage  int           `json:"presentation_average"`
	TestAverage          int           `json:"test_average"`
	AssignmentAverage    int           `json:"assignment_average"`
	TechnicalAverage     int           `json:"technical_average"`
	InterpersonalAverage int           `json:"interpersonal_average"`
	SkillComposite       int           `json:"skill_composite"`
	GPAGrade             models.Letter `json:"gpa_grade"`
	GPAStatus            string        `json:"gpa_status"`
	AcademicStatus       string        `json:"academic_status"`
	StrongestArea        Area          `json:"strongest_area"`
	WeakestArea          Area          `json:"weakest_area"`
	Trend                Trend         `json:"trend"`
}

// Summarize derives the aggregate view of a session.
func Summarize(s models.Session) (Summary, error) {
	tests := s.Academic.TestScores
	var (
		out Summary
		err error
	)
	if out.QuizAverage, err = ScoreAverage(tests.Quizzes); err != nil {
		return Summary{}, fmt.Errorf("quiz average: %w", err)
	}
	if out.ExamAverage, err = ScoreAverage(tests.Exams); err != nil {
		return Summary{}, fmt.Errorf("exam average: %w", err)
	}
	if out.PresentationAverage, err = ScoreAverage(tests.Presentations); err != nil {
		return Summary{}, fmt.Errorf("presentation average: %w", err)
	}
	all := make([]models.ScoredItem, 0, len(tests.Quizzes)+len(tests.Exams)+len(tests.Presentations))
	all = append(append(append(all, tests.Quizzes...), tests.Exams...), tests.Presentations...)
	if out.TestAverage, err = ScoreAverage(all); err != nil {
		return Summary{}, fmt.Errorf("test average: %w", err)
	}
	if out.AssignmentAverage, err = Average(s.Academic.AssignmentGrades); err != nil {
		return Summary{}, fmt.Errorf("assignment average: %w", err)
	}
	// skill blocks are fixed-size structs, so these cannot be empty
	out.TechnicalAverage, _ = Average(s.Skills.Technical.Values())
	out.InterpersonalAverage, _ = Average(s.Skills.Interpersonal.Values())
	out.SkillComposite = SkillComposite(s.Skills)

	out.GPAGrade = GPAGrade(s.Academic.GPA)
	out.GPAStatus = GPAStatus(s.Academic.GPA)
	out.AcademicStatus = Status(float64(s.Academic.PercentageScore))
	out.StrongestArea = StrongestArea(s)
	out.WeakestArea = WeakestArea(s)
	out.Trend = OverallTrend(s)
	return out, nil
}

// Overview builds the listing form of a session.
func Overview(s models.Session) models.SessionOverview {
	return models.SessionOverview{
		SessionID:       s.SessionID,
		SessionName:     s.SessionName,
		SessionVariant:  s.SessionVariant,
		Date:            s.Date,
		PercentageScore: s.Academic.PercentageScore,
		GPA:             s.Academic.GPA,
		Engagement:      s.Participation.OverallEngagement,
		Trend:           string(OverallTrend(s)),
	}
}
