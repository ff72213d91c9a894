package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/performance-portal-api/internal/models"
)

type fakeDashboardSrv struct {
	resp *models.AdminDashboard
	err  error
}

func (f *fakeDashboardSrv) Admin(context.Context) (*models.AdminDashboard, error) {
	return f.resp, f.err
}

func TestDashboardHandlerAdminSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{
		resp: &models.AdminDashboard{Students: models.StudentDirectoryStats{Total: 3, Individual: 2, Group: 1}},
	})

	c, w := newGinContext(http.MethodGet, "/dashboard", nil)
	handler.Admin(c)

	require.Equal(t, http.StatusOK, w.Code)
	var dashboard models.AdminDashboard
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &dashboard))
	assert.Equal(t, 2, dashboard.Students.Individual)
}

func TestDashboardHandlerAdminError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{err: errors.New("boom")})

	c, w := newGinContext(http.MethodGet, "/dashboard", nil)
	handler.Admin(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDashboardHandlerNilService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(nil)

	c, w := newGinContext(http.MethodGet, "/dashboard", nil)
	handler.Admin(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
