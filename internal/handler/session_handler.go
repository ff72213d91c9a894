package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/performance-portal-api/internal/dto"
	"github.com/noah-isme/performance-portal-api/internal/models"
	"github.com/noah-isme/performance-portal-api/internal/repository"
	"github.com/noah-isme/performance-portal-api/internal/service"
	appErrors "github.com/noah-isme/performance-portal-api/pkg/errors"
	"github.com/noah-isme/performance-portal-api/pkg/response"
)

type sessionService interface {
	Start(ctx context.Context, loginID string, student models.Student) ([]models.Session, error)
	List(ctx context.Context, key repository.BatchKey) ([]models.SessionOverview, error)
	Get(ctx context.Context, key repository.BatchKey, sessionID int) (*dto.SessionDetail, error)
	SetQuizScore(ctx context.Context, key repository.BatchKey, sessionID, index int, req dto.ScoreUpdateRequest) (*dto.SessionDetail, error)
	SetExamScore(ctx context.Context, key repository.BatchKey, sessionID, index int, req dto.ScoreUpdateRequest) (*dto.SessionDetail, error)
	SetPresentationScore(ctx context.Context, key repository.BatchKey, sessionID, index int, req dto.ScoreUpdateRequest) (*dto.SessionDetail, error)
	SetAssignmentGrade(ctx context.Context, key repository.BatchKey, sessionID, index int, req dto.ScoreUpdateRequest) (*dto.SessionDetail, error)
	UpdateAcademic(ctx context.Context, key repository.BatchKey, sessionID int, req dto.AcademicUpdateRequest) (*dto.SessionDetail, error)
	UpdateSkills(ctx context.Context, key repository.BatchKey, sessionID int, req dto.SkillsUpdateRequest) (*dto.SessionDetail, error)
	UpdateParticipation(ctx context.Context, key repository.BatchKey, sessionID int, req dto.ParticipationUpdateRequest) (*dto.SessionDetail, error)
}

type studentLookup interface {
	Get(ctx context.Context, id string) (*models.Student, error)
}

const assessmentAssignments = "assignments"

// SessionHandler exposes generated session history for students and administrators.
type SessionHandler struct {
	sessions sessionService
	students studentLookup
}

// NewSessionHandler constructs SessionHandler.
func NewSessionHandler(sessions sessionService, students studentLookup) *SessionHandler {
	return &SessionHandler{sessions: sessions, students: students}
}

// MyList godoc
// @Summary List own sessions
// @Description Overview of the sixteen sessions generated at login
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /me/sessions [get]
func (h *SessionHandler) MyList(c *gin.Context) {
	key, err := ownBatchKey(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.list(c, key)
}

// MyGet godoc
// @Summary Get own session detail
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param sessionId path int true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /me/sessions/{sessionId} [get]
func (h *SessionHandler) MyGet(c *gin.Context) {
	key, err := ownBatchKey(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.get(c, key)
}

// Generate godoc
// @Summary Generate session history
// @Description Generates (or regenerates) the sixteen-session batch for a student under the caller's login
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/sessions [post]
func (h *SessionHandler) Generate(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !student.Active {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "student not found"))
		return
	}

	sessions, err := h.sessions.Start(c.Request.Context(), claims.LoginID(), *student)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.SessionBatchResponse{
		StudentID: student.ID,
		Count:     len(sessions),
		Sessions:  service.Overviews(sessions),
	})
}

// List godoc
// @Summary List a student's sessions
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /students/{id}/sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	key, err := managedBatchKey(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.list(c, key)
}

// Get godoc
// @Summary Get a student's session detail
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param sessionId path int true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/sessions/{sessionId} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	key, err := managedBatchKey(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.get(c, key)
}

// SetAssessment godoc
// @Summary Replace one assessment score
// @Description Sets a quiz, exam, presentation or assignment score by zero-based index and re-derives its letter grade
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param sessionId path int true "Session ID"
// @Param assessment path string true "quizzes, exams, presentations or assignments"
// @Param index path int true "Zero-based item index"
// @Param payload body dto.ScoreUpdateRequest true "Score"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/sessions/{sessionId}/academic/{assessment}/{index} [put]
func (h *SessionHandler) SetAssessment(c *gin.Context) {
	key, sessionID, ok := h.target(c)
	if !ok {
		return
	}
	index, err := intParam(c, "index")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ScoreUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid score payload"))
		return
	}

	ctx := c.Request.Context()
	var detail *dto.SessionDetail
	switch kind := c.Param("assessment"); kind {
	case string(models.AssessmentQuiz):
		detail, err = h.sessions.SetQuizScore(ctx, key, sessionID, index, req)
	case string(models.AssessmentExam):
		detail, err = h.sessions.SetExamScore(ctx, key, sessionID, index, req)
	case string(models.AssessmentPresentation):
		detail, err = h.sessions.SetPresentationScore(ctx, key, sessionID, index, req)
	case assessmentAssignments:
		detail, err = h.sessions.SetAssignmentGrade(ctx, key, sessionID, index, req)
	default:
		err = appErrors.Clone(appErrors.ErrNotFound, "unknown assessment "+kind)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// UpdateAcademic godoc
// @Summary Update academic figures
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param sessionId path int true "Session ID"
// @Param payload body dto.AcademicUpdateRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/sessions/{sessionId}/academic [patch]
func (h *SessionHandler) UpdateAcademic(c *gin.Context) {
	key, sessionID, ok := h.target(c)
	if !ok {
		return
	}
	var req dto.AcademicUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid academic payload"))
		return
	}
	detail, err := h.sessions.UpdateAcademic(c.Request.Context(), key, sessionID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// UpdateSkills godoc
// @Summary Update skill ratings
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param sessionId path int true "Session ID"
// @Param payload body dto.SkillsUpdateRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/sessions/{sessionId}/skills [patch]
func (h *SessionHandler) UpdateSkills(c *gin.Context) {
	key, sessionID, ok := h.target(c)
	if !ok {
		return
	}
	var req dto.SkillsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid skills payload"))
		return
	}
	detail, err := h.sessions.UpdateSkills(c.Request.Context(), key, sessionID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// UpdateParticipation godoc
// @Summary Update participation figures
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param sessionId path int true "Session ID"
// @Param payload body dto.ParticipationUpdateRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/sessions/{sessionId}/participation [patch]
func (h *SessionHandler) UpdateParticipation(c *gin.Context) {
	key, sessionID, ok := h.target(c)
	if !ok {
		return
	}
	var req dto.ParticipationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid participation payload"))
		return
	}
	detail, err := h.sessions.UpdateParticipation(c.Request.Context(), key, sessionID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

func (h *SessionHandler) list(c *gin.Context, key repository.BatchKey) {
	items, err := h.sessions.List(c.Request.Context(), key)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, map[string]interface{}{"total": len(items)})
}

func (h *SessionHandler) get(c *gin.Context, key repository.BatchKey) {
	sessionID, err := intParam(c, "sessionId")
	if err != nil {
		response.Error(c, err)
		return
	}
	detail, err := h.sessions.Get(c.Request.Context(), key, sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// target resolves the managed batch key and session id, writing the error response on failure.
func (h *SessionHandler) target(c *gin.Context) (repository.BatchKey, int, bool) {
	key, err := managedBatchKey(c)
	if err != nil {
		response.Error(c, err)
		return repository.BatchKey{}, 0, false
	}
	sessionID, err := intParam(c, "sessionId")
	if err != nil {
		response.Error(c, err)
		return repository.BatchKey{}, 0, false
	}
	return key, sessionID, true
}
