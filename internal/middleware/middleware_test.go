package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/performance-portal-api/internal/models"
	"github.com/noah-isme/performance-portal-api/internal/service"
	appErrors "github.com/noah-isme/performance-portal-api/pkg/errors"
)

type stubValidator struct {
	claims map[string]*models.JWTClaims
}

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := s.claims[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

func newProtectedRouter(guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator := stubValidator{claims: map[string]*models.JWTClaims{
		"admin":   {Role: models.RoleAdmin},
		"student": {Role: models.RoleStudent, StudentID: "STU002"},
	}}
	router := gin.New()
	router.GET("/students/:id", JWT(validator), guard, func(c *gin.Context) {
		c.String(http.StatusOK, string(Claims(c).Role))
	})
	return router
}

func serve(router *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJWTRejectsMissingOrMalformedTokens(t *testing.T) {
	router := newProtectedRouter(RequireRoles(models.RoleAdmin))

	assert.Equal(t, http.StatusUnauthorized, serve(router, "/students/STU001", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, "/students/STU001", "Token admin").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, "/students/STU001", "Bearer forged").Code)

	rec := serve(router, "/students/STU001", "bearer admin")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ADMIN", rec.Body.String())
}

func TestRequireRolesForbidsOtherRoles(t *testing.T) {
	router := newProtectedRouter(RequireRoles(models.RoleAdmin))

	assert.Equal(t, http.StatusForbidden, serve(router, "/students/STU002", "Bearer student").Code)
}

func TestRBACSelfMatchesStudentID(t *testing.T) {
	router := newProtectedRouter(RBAC(string(models.RoleAdmin), RoleSelf))

	assert.Equal(t, http.StatusOK, serve(router, "/students/STU002", "Bearer student").Code)
	assert.Equal(t, http.StatusForbidden, serve(router, "/students/STU001", "Bearer student").Code)
	assert.Equal(t, http.StatusOK, serve(router, "/students/STU001", "Bearer admin").Code)
}

func TestMetricsMiddlewareRecordsRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	router := gin.New()
	router.Use(Metrics(metrics, "/metrics"))
	router.GET("/students/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(router, "/students/STU001", "")
	serve(router, "/students/STU002", "")
	serve(router, "/metrics", "")
	serve(router, "/nope", "")

	assert.Equal(t, uint64(3), metrics.Snapshot().RequestsTotal)
}
