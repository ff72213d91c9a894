package models

// SessionsPerBatch is the fixed size of a generated session history.
const SessionsPerBatch = 16

// SessionDateLayout formats session dates as ISO calendar dates.
const SessionDateLayout = "2006-01-02"

// Letter is a letter grade.
type Letter string

const (
	LetterA Letter = "A"
	LetterB Letter = "B"
	LetterC Letter = "C"
	LetterD Letter = "D"
	LetterF Letter = "F"
)

// ScoredItem pairs a raw score with the grade derived from it.
type ScoredItem struct {
	Score int    `json:"score"`
	Grade Letter `json:"grade"`
}

// TestScores holds the graded assessments of a session.
type TestScores struct {
	Quizzes       []ScoredItem `json:"quizzes"`
	Exams         []ScoredItem `json:"exams"`
	Presentations []ScoredItem `json:"presentations"`
}

// AcademicBlock holds academic achievement for one session.
type AcademicBlock struct {
	TestScores         TestScores `json:"test_scores"`
	AssignmentGrades   []int      `json:"assignment_grades"`
	ProjectPerformance int        `json:"project_performance"`
	GPA                float64    `json:"gpa"`
	PercentageScore    int        `json:"percentage_score"`
}

type TechnicalSkills struct {
	CProgramming       int `json:"c_programming"`
	HTMLCSS            int `json:"html_css"`
	JSEssentials       int `json:"js_essentials"`
	BlockBasedCode     int `json:"block_based_code"`
	CircuitDesign      int `json:"circuit_design"`
	ElectricCircuits   int `json:"electric_circuits"`
	AIEssentials       int `json:"ai_essentials"`
	UIUXEssentials     int `json:"ui_ux_essentials"`
	RoboticsEssentials int `json:"robotics_essentials"`
}

// Values lists the technical skills in declaration order.
func (t TechnicalSkills) Values() []int {
	return []int{
		t.CProgramming, t.HTMLCSS, t.JSEssentials, t.BlockBasedCode, t.CircuitDesign,
		t.ElectricCircuits, t.AIEssentials, t.UIUXEssentials, t.RoboticsEssentials,
	}
}

type InterpersonalSkills struct {
	CommunicationSkills int `json:"communication_skills"`
	PresentationSkills  int `json:"presentation_skills"`
	TimeManagement      int `json:"time_management"`
	Negotiation         int `json:"negotiation"`
}

// Values lists the interpersonal skills in declaration order.
func (i InterpersonalSkills) Values() []int {
	return []int{i.CommunicationSkills, i.PresentationSkills, i.TimeManagement, i.Negotiation}
}

// SkillBlock holds skill development scores. The four core competencies feed the skill composite.
type SkillBlock struct {
	Technical        TechnicalSkills     `json:"technical_skills"`
	Interpersonal    InterpersonalSkills `json:"interpersonal_skills"`
	ProblemSolving   int                 `json:"problem_solving"`
	CriticalThinking int                 `json:"critical_thinking"`
	Creativity       int                 `json:"creativity"`
	Innovation       int                 `json:"innovation"`
}

// CoreCompetencies lists problem solving, critical thinking, creativity and innovation.
func (s SkillBlock) CoreCompetencies() []int {
	return []int{s.ProblemSolving, s.CriticalThinking, s.Creativity, s.Innovation}
}

type ParticipationBlock struct {
	ClassAttendance         int `json:"class_attendance"`
	DiscussionParticipation int `json:"discussion_participation"`
	GroupWork               int `json:"group_work"`
	OverallEngagement       int `json:"overall_engagement"`
}

// Session is one scored evaluation unit in a student's history. SessionID and SessionVariant
// are fixed at generation.
type Session struct {
	SessionID      int                `json:"session_id"`
	SessionName    string             `json:"session_name"`
	SessionVariant ProgramVariant     `json:"session_variant"`
	Student        Student            `json:"student"`
	Date           string             `json:"date"`
	Academic       AcademicBlock      `json:"academic_achievement"`
	Skills         SkillBlock         `json:"skill_development"`
	Participation  ParticipationBlock `json:"participation"`
}

// Clone returns a deep copy so callers cannot alias stored slices.
func (s Session) Clone() Session {
	out := s
	out.Academic.TestScores.Quizzes = append([]ScoredItem(nil), s.Academic.TestScores.Quizzes...)
	out.Academic.TestScores.Exams = append([]ScoredItem(nil), s.Academic.TestScores.Exams...)
	out.Academic.TestScores.Presentations = append([]ScoredItem(nil), s.Academic.TestScores.Presentations...)
	out.Academic.AssignmentGrades = append([]int(nil), s.Academic.AssignmentGrades...)
	return out
}

// CloneSessions deep-copies a batch.
func CloneSessions(sessions []Session) []Session {
	out := make([]Session, len(sessions))
	for i := range sessions {
		out[i] = sessions[i].Clone()
	}
	return out
}

// Assessment names a graded list inside TestScores.
type Assessment string

const (
	AssessmentQuiz         Assessment = "quizzes"
	AssessmentExam         Assessment = "exams"
	AssessmentPresentation Assessment = "presentations"
)

// Items returns a pointer to the slice for the assessment kind, or nil when unknown.
func (t *TestScores) Items(kind Assessment) *[]ScoredItem {
	switch kind {
	case AssessmentQuiz:
		return &t.Quizzes
	case AssessmentExam:
		return &t.Exams
	case AssessmentPresentation:
		return &t.Presentations
	default:
		return nil
	}
}

// SessionOverview is the lightweight listing form of a session.
type SessionOverview struct {
	SessionID       int            `json:"session_id"`
	SessionName     string         `json:"session_name"`
	SessionVariant  ProgramVariant `json:"session_variant"`
	Date            string         `json:"date"`
	PercentageScore int            `json:"percentage_score"`
	GPA             float64        `json:"gpa"`
	Engagement      int            `json:"overall_engagement"`
	Trend           string         `json:"trend"`
}
