package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/performance-portal-api/internal/models"
	"github.com/noah-isme/performance-portal-api/internal/repository"
	appErrors "github.com/noah-isme/performance-portal-api/pkg/errors"
)

type mockSessionManager struct {
	started   []repository.BatchKey
	discarded []string
	startErr  error
}

func (m *mockSessionManager) Start(ctx context.Context, loginID string, student models.Student) ([]models.Session, error) {
	if m.startErr != nil {
		return nil, m.startErr
	}
	m.started = append(m.started, repository.BatchKey{LoginID: loginID, StudentID: student.ID})
	return make([]models.Session, models.SessionsPerBatch), nil
}

func (m *mockSessionManager) Discard(ctx context.Context, loginID string) error {
	m.discarded = append(m.discarded, loginID)
	return nil
}

type loginRecorder struct {
	calls map[models.UserRole][]bool
}

func (l *loginRecorder) RecordLogin(role models.UserRole, success bool) {
	if l.calls == nil {
		l.calls = make(map[models.UserRole][]bool)
	}
	l.calls[role] = append(l.calls[role], success)
}

func newTestAuthService(t *testing.T, adminPassword string) (*AuthService, *mockSessionManager, *loginRecorder) {
	t.Helper()
	hash, err := AdminPasswordHash(adminPassword, "")
	require.NoError(t, err)

	sessions := &mockSessionManager{}
	metrics := &loginRecorder{}
	students := NewStudentService(repository.NewStudentRepository(repository.SeedStudents()...), nil, nil)
	svc := NewAuthService(students, sessions, validator.New(), zap.NewNop(), metrics, AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "portal-test",
		AdminPasswordHash: hash,
	})
	return svc, sessions, metrics
}

func TestAuthServiceStudentLogin(t *testing.T) {
	svc, sessions, metrics := newTestAuthService(t, "")

	resp, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{Code: "fz2024"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, resp.Role)
	require.NotNil(t, resp.Student)
	assert.Equal(t, "STU002", resp.Student.ID)
	assert.Equal(t, models.SessionsPerBatch, resp.SessionCount)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, "STU002", claims.StudentID)
	assert.Equal(t, "portal-test", claims.Issuer)
	require.Len(t, sessions.started, 1)
	assert.Equal(t, repository.BatchKey{LoginID: claims.LoginID(), StudentID: "STU002"}, sessions.started[0])
	assert.Equal(t, []bool{true}, metrics.calls[models.RoleStudent])
}

func TestAuthServiceStudentLoginEachLoginIsNewSession(t *testing.T) {
	svc, sessions, _ := newTestAuthService(t, "")

	_, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{Code: "AH2024"})
	require.NoError(t, err)
	_, err = svc.StudentLogin(context.Background(), models.StudentLoginRequest{Code: "AH2024"})
	require.NoError(t, err)

	require.Len(t, sessions.started, 2)
	assert.NotEqual(t, sessions.started[0].LoginID, sessions.started[1].LoginID)
}

func TestAuthServiceStudentLoginInvalidCode(t *testing.T) {
	svc, sessions, metrics := newTestAuthService(t, "")

	_, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{Code: "NOPE"})
	requireAppCode(t, err, appErrors.ErrInvalidCredentials.Code)

	_, err = svc.StudentLogin(context.Background(), models.StudentLoginRequest{})
	requireAppCode(t, err, appErrors.ErrValidation.Code)

	assert.Empty(t, sessions.started)
	assert.Equal(t, []bool{false}, metrics.calls[models.RoleStudent])
}

func TestAuthServiceStudentLoginSessionFailure(t *testing.T) {
	svc, sessions, _ := newTestAuthService(t, "")
	sessions.startErr = appErrors.Clone(appErrors.ErrInternal, "store down")

	_, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{Code: "AH2024"})
	requireAppCode(t, err, appErrors.ErrInternal.Code)
}

func TestAuthServiceAdminLogin(t *testing.T) {
	svc, sessions, metrics := newTestAuthService(t, "s3cret!")

	resp, err := svc.AdminLogin(context.Background(), models.AdminLoginRequest{Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.Role)
	assert.Nil(t, resp.Student)
	assert.Empty(t, sessions.started)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.LoginID())

	_, err = svc.AdminLogin(context.Background(), models.AdminLoginRequest{Password: "wrong"})
	requireAppCode(t, err, appErrors.ErrInvalidCredentials.Code)
	assert.Equal(t, []bool{true, false}, metrics.calls[models.RoleAdmin])
}

func TestAuthServiceAdminLoginDisabledWithoutPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t, "")

	_, err := svc.AdminLogin(context.Background(), models.AdminLoginRequest{Password: "anything"})
	requireAppCode(t, err, appErrors.ErrInvalidCredentials.Code)
}

func TestAdminPasswordHash(t *testing.T) {
	hash, err := AdminPasswordHash("plain", "")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("plain")))

	explicit, err := bcrypt.GenerateFromPassword([]byte("other"), bcrypt.MinCost)
	require.NoError(t, err)
	resolved, err := AdminPasswordHash("plain", string(explicit))
	require.NoError(t, err)
	assert.Equal(t, string(explicit), resolved)

	_, err = AdminPasswordHash("", "not-bcrypt")
	assert.Error(t, err)

	empty, err := AdminPasswordHash("", "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAuthServiceLogout(t *testing.T) {
	svc, sessions, _ := newTestAuthService(t, "")

	resp, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{Code: "OK2024"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims))
	assert.Equal(t, []string{claims.LoginID()}, sessions.discarded)

	err = svc.Logout(context.Background(), &models.JWTClaims{})
	requireAppCode(t, err, appErrors.ErrUnauthorized.Code)
}

func TestAuthServiceValidateTokenRejectsTampering(t *testing.T) {
	svc, _, _ := newTestAuthService(t, "")

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		Role: models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "login",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := foreign.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	requireAppCode(t, err, appErrors.ErrUnauthorized.Code)

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := svc.generateAccessToken("login", models.RoleAdmin, "")
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	requireAppCode(t, err, appErrors.ErrUnauthorized.Code)

	svc.now = time.Now
	studentless, _, err := svc.generateAccessToken("login", models.RoleStudent, "")
	require.NoError(t, err)
	_, err = svc.ValidateToken(studentless)
	requireAppCode(t, err, appErrors.ErrUnauthorized.Code)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "student token has no student id", appErr.Message)
}
