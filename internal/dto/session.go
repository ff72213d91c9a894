package dto

import (
	"github.com/noah-isme/performance-portal-api/internal/models"
	"github.com/noah-isme/performance-portal-api/internal/performance"
)

// SessionDetail returns a stored session together with its derived aggregates.
type SessionDetail struct {
	models.Session
	Summary performance.Summary `json:"summary"`
}

// SessionBatchResponse describes a freshly generated batch.
type SessionBatchResponse struct {
	StudentID string                   `json:"student_id"`
	Count     int                      `json:"count"`
	Sessions  []models.SessionOverview `json:"sessions"`
}

// ScoreUpdateRequest sets one graded item or assignment grade.
type ScoreUpdateRequest struct {
	Score *int `json:"score" validate:"required,gte=0,lte=100"`
}

// AcademicUpdateRequest patches the academic scalars of a session.
type AcademicUpdateRequest struct {
	GPA                *float64 `json:"gpa" validate:"omitempty,gte=0,lte=4"`
	ProjectPerformance *int     `json:"project_performance" validate:"omitempty,gte=0,lte=100"`
	PercentageScore    *int     `json:"percentage_score" validate:"omitempty,gte=0,lte=100"`
}

// SkillsUpdateRequest patches any subset of the seventeen skill scores.
type SkillsUpdateRequest struct {
	CProgramming        *int `json:"c_programming" validate:"omitempty,gte=0,lte=100"`
	HTMLCSS             *int `json:"html_css" validate:"omitempty,gte=0,lte=100"`
	JSEssentials        *int `json:"js_essentials" validate:"omitempty,gte=0,lte=100"`
	BlockBasedCode      *int `json:"block_based_code" validate:"omitempty,gte=0,lte=100"`
	CircuitDesign       *int `json:"circuit_design" validate:"omitempty,gte=0,lte=100"`
	ElectricCircuits    *int `json:"electric_circuits" validate:"omitempty,gte=0,lte=100"`
	AIEssentials        *int `json:"ai_essentials" validate:"omitempty,gte=0,lte=100"`
	UIUXEssentials      *int `json:"ui_ux_essentials" validate:"omitempty,gte=0,lte=100"`
	RoboticsEssentials  *int `json:"robotics_essentials" validate:"omitempty,gte=0,lte=100"`
	CommunicationSkills *int `json:"communication_skills" validate:"omitempty,gte=0,lte=100"`
	PresentationSkills  *int `json:"presentation_skills" validate:"omitempty,gte=0,lte=100"`
	TimeManagement      *int `json:"time_management" validate:"omitempty,gte=0,lte=100"`
	Negotiation         *int `json:"negotiation" validate:"omitempty,gte=0,lte=100"`
	ProblemSolving      *int `json:"problem_solving" validate:"omitempty,gte=0,lte=100"`
	CriticalThinking    *int `json:"critical_thinking" validate:"omitempty,gte=0,lte=100"`
	Creativity          *int `json:"creativity" validate:"omitempty,gte=0,lte=100"`
	Innovation          *int `json:"innovation" validate:"omitempty,gte=0,lte=100"`
}

// ParticipationUpdateRequest patches any subset of the participation scores.
type ParticipationUpdateRequest struct {
	ClassAttendance         *int `json:"class_attendance" validate:"omitempty,gte=0,lte=100"`
	DiscussionParticipation *int `json:"discussion_participation" validate:"omitempty,gte=0,lte=100"`
	GroupWork               *int `json:"group_work" validate:"omitempty,gte=0,lte=100"`
	OverallEngagement       *int `json:"overall_engagement" validate:"omitempty,gte=0,lte=100"`
}
