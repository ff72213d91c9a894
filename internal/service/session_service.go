package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/performance-portal-api/internal/dto"
	"github.com/noah-isme/performance-portal-api/internal/models"
	"github.com/noah-isme/performance-portal-api/internal/performance"
	"github.com/noah-isme/performance-portal-api/internal/repository"
	appErrors "github.com/noah-isme/performance-portal-api/pkg/errors"
)

// SessionStore persists generated batches. Both the in-memory and Redis repositories satisfy it.
type SessionStore interface {
	Save(ctx context.Context, key repository.BatchKey, sessions []models.Session, ttl time.Duration) error
	Load(ctx context.Context, key repository.BatchKey) ([]models.Session, error)
	Mutate(ctx context.Context, key repository.BatchKey, fn func([]models.Session) error) ([]models.Session, error)
	DeleteLogin(ctx context.Context, loginID string) error
}

type sessionGenerator interface {
	Generate(student models.Student) []models.Session
}

type sessionMetrics interface {
	RecordBatchGenerated(variant models.ProgramVariant)
	RecordSessionEdit(field string)
}

// SessionConfig controls batch lifetime.
type SessionConfig struct {
	BatchTTL time.Duration
}

// SessionService generates, reads and edits the session batches owned by a login session.
type SessionService struct {
	store     SessionStore
	generator sessionGenerator
	validator *validator.Validate
	logger    *zap.Logger
	metrics   sessionMetrics
	config    SessionConfig
}

// NewSessionService constructs the session service. metrics may be nil.
func NewSessionService(store SessionStore, generator sessionGenerator, validate *validator.Validate, logger *zap.Logger, metrics sessionMetrics, config SessionConfig) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		store:     store,
		generator: generator,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		config:    config,
	}
}

// Start generates a new batch for the student and replaces whatever the login session held
// for them.
func (s *SessionService) Start(ctx context.Context, loginID string, student models.Student) ([]models.Session, error) {
	sessions := s.generator.Generate(student)
	key := repository.BatchKey{LoginID: loginID, StudentID: student.ID}
	if err := s.store.Save(ctx, key, sessions, s.config.BatchTTL); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store sessions")
	}
	if s.metrics != nil {
		s.metrics.RecordBatchGenerated(student.ProgramVariant)
	}
	s.logger.Debug("session batch generated",
		zap.String("student_id", student.ID),
		zap.String("program_variant", string(student.ProgramVariant)),
		zap.Int("count", len(sessions)),
	)
	return sessions, nil
}

// Batch returns every session of the batch.
func (s *SessionService) Batch(ctx context.Context, key repository.BatchKey) ([]models.Session, error) {
	sessions, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, mapSessionError(err, "failed to load sessions")
	}
	return sessions, nil
}

// List returns the listing form of every session in the batch.
func (s *SessionService) List(ctx context.Context, key repository.BatchKey) ([]models.SessionOverview, error) {
	sessions, err := s.Batch(ctx, key)
	if err != nil {
		return nil, err
	}
	return Overviews(sessions), nil
}

// Get returns one session with its aggregates.
func (s *SessionService) Get(ctx context.Context, key repository.BatchKey, sessionID int) (*dto.SessionDetail, error) {
	sessions, err := s.Batch(ctx, key)
	if err != nil {
		return nil, err
	}
	idx := findSession(sessions, sessionID)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
	}
	return detail(sessions[idx])
}

// SetQuizScore overwrites one quiz score and its grade.
func (s *SessionService) SetQuizScore(ctx context.Context, key repository.BatchKey, sessionID, index int, req dto.ScoreUpdateRequest) (*dto.SessionDetail, error) {
	return s.setScore(ctx, key, sessionID, models.AssessmentQuiz, index, req)
}

// SetExamScore overwrites one exam score and its grade.
func (s *SessionService) SetExamScore(ctx context.Context, key repository.BatchKey, sessionID, index int, req dto.ScoreUpdateRequest) (*dto.SessionDetail, error) {
	return s.setScore(ctx, key, sessionID, models.AssessmentExam, index, req)
}

// SetPresentationScore overwrites one presentation score and its grade.
func (s *SessionService) SetPresentationScore(ctx context.Context, key repository.BatchKey, sessionID, index int, req dto.ScoreUpdateRequest) (*dto.SessionDetail, error) {
	return s.setScore(ctx, key, sessionID, models.AssessmentPresentation, index, req)
}

func (s *SessionService) setScore(ctx context.Context, key repository.BatchKey, sessionID int, kind models.Assessment, index int, req dto.ScoreUpdateRequest) (*dto.SessionDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "score must be between 0 and 100")
	}
	return s.edit(ctx, key, sessionID, string(kind), func(session *models.Session) error {
		items := session.Academic.TestScores.Items(kind)
		if items == nil {
			return appErrors.Clone(appErrors.ErrNotFound, "unknown assessment")
		}
		if index < 0 || index >= len(*items) {
			return appErrors.Clone(appErrors.ErrNotFound, "assessment index out of range")
		}
		(*items)[index] = performance.Scored(*req.Score)
		return nil
	})
}

// SetAssignmentGrade overwrites one assignment grade.
func (s *SessionService) SetAssignmentGrade(ctx context.Context, key repository.BatchKey, sessionID, index int, req dto.ScoreUpdateRequest) (*dto.SessionDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "grade must be between 0 and 100")
	}
	return s.edit(ctx, key, sessionID, "assignments", func(session *models.Session) error {
		grades := session.Academic.AssignmentGrades
		if index < 0 || index >= len(grades) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment index out of range")
		}
		grades[index] = *req.Score
		return nil
	})
}

// UpdateAcademic patches gpa, project performance and percentage score.
func (s *SessionService) UpdateAcademic(ctx context.Context, key repository.BatchKey, sessionID int, req dto.AcademicUpdateRequest) (*dto.SessionDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid academic payload")
	}
	if req.GPA == nil && req.ProjectPerformance == nil && req.PercentageScore == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no academic fields to update")
	}
	return s.edit(ctx, key, sessionID, "academic", func(session *models.Session) error {
		a := &session.Academic
		if req.GPA != nil {
			a.GPA = *req.GPA
		}
		setInt(&a.ProjectPerformance, req.ProjectPerformance)
		setInt(&a.PercentageScore, req.PercentageScore)
		return nil
	})
}

// UpdateSkills patches any subset of the skill scores.
func (s *SessionService) UpdateSkills(ctx context.Context, key repository.BatchKey, sessionID int, req dto.SkillsUpdateRequest) (*dto.SessionDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid skills payload")
	}
	return s.edit(ctx, key, sessionID, "skills", func(session *models.Session) error {
		sk := &session.Skills
		targets := []struct {
			dst *int
			src *int
		}{
			{&sk.Technical.CProgramming, req.CProgramming},
			{&sk.Technical.HTMLCSS, req.HTMLCSS},
			{&sk.Technical.JSEssentials, req.JSEssentials},
			{&sk.Technical.BlockBasedCode, req.BlockBasedCode},
			{&sk.Technical.CircuitDesign, req.CircuitDesign},
			{&sk.Technical.ElectricCircuits, req.ElectricCircuits},
			{&sk.Technical.AIEssentials, req.AIEssentials},
			{&sk.Technical.UIUXEssentials, req.UIUXEssentials},
			{&sk.Technical.RoboticsEssentials, req.RoboticsEssentials},
			{&sk.Interpersonal.CommunicationSkills, req.CommunicationSkills},
			{&sk.Interpersonal.PresentationSkills, req.PresentationSkills},
			{&sk.Interpersonal.TimeManagement, req.TimeManagement},
			{&sk.Interpersonal.Negotiation, req.Negotiation},
			{&sk.ProblemSolving, req.ProblemSolving},
			{&sk.CriticalThinking, req.CriticalThinking},
			{&sk.Creativity, req.Creativity},
			{&sk.Innovation, req.Innovation},
		}
		changed := false
		for _, t := range targets {
			changed = setInt(t.dst, t.src) || changed
		}
		if !changed {
			return appErrors.Clone(appErrors.ErrValidation, "no skill fields to update")
		}
		return nil
	})
}

// UpdateParticipation patches any subset of the participation scores.
func (s *SessionService) UpdateParticipation(ctx context.Context, key repository.BatchKey, sessionID int, req dto.ParticipationUpdateRequest) (*dto.SessionDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid participation payload")
	}
	return s.edit(ctx, key, sessionID, "participation", func(session *models.Session) error {
		p := &session.Participation
		changed := setInt(&p.ClassAttendance, req.ClassAttendance)
		changed = setInt(&p.DiscussionParticipation, req.DiscussionParticipation) || changed
		changed = setInt(&p.GroupWork, req.GroupWork) || changed
		changed = setInt(&p.OverallEngagement, req.OverallEngagement) || changed
		if !changed {
			return appErrors.Clone(appErrors.ErrValidation, "no participation fields to update")
		}
		return nil
	})
}

// Discard drops every batch the login session generated.
func (s *SessionService) Discard(ctx context.Context, loginID string) error {
	if err := s.store.DeleteLogin(ctx, loginID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to discard sessions")
	}
	return nil
}

// edit applies fn to one session inside an atomic batch mutation.
func (s *SessionService) edit(ctx context.Context, key repository.BatchKey, sessionID int, field string, fn func(*models.Session) error) (*dto.SessionDetail, error) {
	var edited models.Session
	_, err := s.store.Mutate(ctx, key, func(sessions []models.Session) error {
		idx := findSession(sessions, sessionID)
		if idx < 0 {
			return appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		if err := fn(&sessions[idx]); err != nil {
			return err
		}
		edited = sessions[idx]
		return nil
	})
	if err != nil {
		return nil, mapSessionError(err, "failed to update session")
	}
	if s.metrics != nil {
		s.metrics.RecordSessionEdit(field)
	}
	s.logger.Info("session edited",
		zap.String("student_id", key.StudentID),
		zap.Int("session_id", sessionID),
		zap.String("field", field),
	)
	return detail(edited)
}

// Overviews converts a batch to its listing form.
func Overviews(sessions []models.Session) []models.SessionOverview {
	out := make([]models.SessionOverview, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, performance.Overview(session))
	}
	return out
}

func detail(session models.Session) (*dto.SessionDetail, error) {
	summary, err := performance.Summarize(session)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrEmptyScores.Code, appErrors.ErrEmptyScores.Status, "session has no scores to aggregate")
	}
	return &dto.SessionDetail{Session: session, Summary: summary}, nil
}

func findSession(sessions []models.Session, id int) int {
	for i := range sessions {
		if sessions[i].SessionID == id {
			return i
		}
	}
	return -1
}

func setInt(dst *int, src *int) bool {
	if src == nil {
		return false
	}
	*dst = *src
	return true
}

func mapSessionError(err error, internalMsg string) error {
	var appErr *appErrors.Error
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, repository.ErrBatchNotFound):
		return appErrors.Clone(appErrors.ErrSessionsExpired, "no session data for this student, generate or log in again")
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internalMsg)
	}
}
