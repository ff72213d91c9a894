package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/performance-portal-api/internal/models"
	appErrors "github.com/noah-isme/performance-portal-api/pkg/errors"
	"github.com/noah-isme/performance-portal-api/pkg/response"
)

type authService interface {
	StudentLogin(ctx context.Context, req models.StudentLoginRequest) (*models.LoginResponse, error)
	AdminLogin(ctx context.Context, req models.AdminLoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context, claims *models.JWTClaims) error
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// StudentLogin godoc
// @Summary Student login
// @Description Authenticate a student by access code and generate their session history
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.StudentLoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/student/login [post]
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	var req models.StudentLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.service.StudentLogin(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// AdminLogin godoc
// @Summary Administrator login
// @Description Authenticate the administrator password gate
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.AdminLoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.service.AdminLogin(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// Logout godoc
// @Summary Logout current session
// @Description Discard every session batch generated under the current token
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Logout(c.Request.Context(), claims); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
