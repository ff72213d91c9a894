package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/performance-portal-api/internal/dto"
	"github.com/noah-isme/performance-portal-api/internal/models"
	"github.com/noah-isme/performance-portal-api/internal/repository"
	"github.com/noah-isme/performance-portal-api/internal/service"
	"github.com/noah-isme/performance-portal-api/pkg/response"
)

type reportSessions interface {
	Batch(ctx context.Context, key repository.BatchKey) ([]models.Session, error)
	Get(ctx context.Context, key repository.BatchKey, sessionID int) (*dto.SessionDetail, error)
}

type reportRenderer interface {
	SessionPDF(detail *dto.SessionDetail) (*service.ReportFile, error)
	HistoryCSV(student models.Student, sessions []models.Session) (*service.ReportFile, error)
}

// ReportHandler serves rendered downloads.
type ReportHandler struct {
	sessions reportSessions
	students studentLookup
	reports  reportRenderer
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(sessions reportSessions, students studentLookup, reports reportRenderer) *ReportHandler {
	return &ReportHandler{sessions: sessions, students: students, reports: reports}
}

// MySessionPDF godoc
// @Summary Download own session report
// @Tags Reports
// @Produce application/pdf
// @Security BearerAuth
// @Param sessionId path int true "Session ID"
// @Success 200 {file} file
// @Failure 410 {object} response.Envelope
// @Router /me/sessions/{sessionId}/report.pdf [get]
func (h *ReportHandler) MySessionPDF(c *gin.Context) {
	key, err := ownBatchKey(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.sessionPDF(c, key)
}

// MyHistoryCSV godoc
// @Summary Export own session history
// @Tags Reports
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file
// @Router /me/sessions/export.csv [get]
func (h *ReportHandler) MyHistoryCSV(c *gin.Context) {
	key, err := ownBatchKey(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.historyCSV(c, key)
}

// SessionPDF godoc
// @Summary Download a student's session report
// @Tags Reports
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param sessionId path int true "Session ID"
// @Success 200 {file} file
// @Router /students/{id}/sessions/{sessionId}/report.pdf [get]
func (h *ReportHandler) SessionPDF(c *gin.Context) {
	key, err := managedBatchKey(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.sessionPDF(c, key)
}

// HistoryCSV godoc
// @Summary Export a student's session history
// @Tags Reports
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {file} file
// @Router /students/{id}/sessions/export.csv [get]
func (h *ReportHandler) HistoryCSV(c *gin.Context) {
	key, err := managedBatchKey(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.historyCSV(c, key)
}

func (h *ReportHandler) sessionPDF(c *gin.Context, key repository.BatchKey) {
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
	file, err := h.reports.SessionPDF(detail)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

func (h *ReportHandler) historyCSV(c *gin.Context, key repository.BatchKey) {
	sessions, err := h.sessions.Batch(c.Request.Context(), key)
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Get(c.Request.Context(), key.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.reports.HistoryCSV(*student, sessions)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
