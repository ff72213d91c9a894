package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/performance-portal-api/internal/models"
	appErrors "github.com/noah-isme/performance-portal-api/pkg/errors"
)

type authStudentDirectory interface {
	FindByCode(ctx context.Context, code string) (*models.Student, error)
}

type authSessionManager interface {
	Start(ctx context.Context, loginID string, student models.Student) ([]models.Session, error)
	Discard(ctx context.Context, loginID string) error
}

type authMetrics interface {
	RecordLogin(role models.UserRole, success bool)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
	AdminPasswordHash string
}

// AuthService provides authentication use cases.
type AuthService struct {
	students  authStudentDirectory
	sessions  authSessionManager
	validator *validator.Validate
	logger    *zap.Logger
	metrics   authMetrics
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance. metrics may be nil.
func NewAuthService(students authStudentDirectory, sessions authSessionManager, validate *validator.Validate, logger *zap.Logger, metrics authMetrics, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{
		students:  students,
		sessions:  sessions,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		config:    config,
		now:       time.Now,
	}
}

// AdminPasswordHash resolves the configured admin credential to a bcrypt hash. An explicit
// hash wins over a plain password; an empty result disables admin login.
func AdminPasswordHash(plain, hash string) (string, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return "", fmt.Errorf("admin password hash is not a bcrypt hash: %w", err)
		}
		return hash, nil
	}
	if plain == "" {
		return "", nil
	}
	generated, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash admin password: %w", err)
	}
	return string(generated), nil
}

// StudentLogin authenticates a student by code and generates the session batch for the new
// login session.
func (s *AuthService) StudentLogin(ctx context.Context, req models.StudentLoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	student, err := s.students.FindByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			s.recordLogin(models.RoleStudent, false)
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid student code")
		}
		return nil, err
	}

	loginID := uuid.NewString()
	sessions, err := s.sessions.Start(ctx, loginID, *student)
	if err != nil {
		return nil, err
	}

	token, issuedAt, err := s.generateAccessToken(loginID, models.RoleStudent, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.recordLogin(models.RoleStudent, true)
	s.logger.Info("student logged in", zap.String("student_id", student.ID), zap.String("login_id", loginID))

	return &models.LoginResponse{
		AccessToken:  token,
		ExpiresIn:    int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:     issuedAt,
		Role:         models.RoleStudent,
		Student:      student,
		SessionCount: len(sessions),
	}, nil
}

// AdminLogin authenticates the administrator password gate.
func (s *AuthService) AdminLogin(ctx context.Context, req models.AdminLoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	if s.config.AdminPasswordHash == "" {
		s.logger.Warn("admin login attempted but no admin password is configured")
		s.recordLogin(models.RoleAdmin, false)
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid admin password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.config.AdminPasswordHash), []byte(req.Password)); err != nil {
		s.recordLogin(models.RoleAdmin, false)
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid admin password")
	}

	loginID := uuid.NewString()
	token, issuedAt, err := s.generateAccessToken(loginID, models.RoleAdmin, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.recordLogin(models.RoleAdmin, true)
	s.logger.Info("admin logged in", zap.String("login_id", loginID))

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:    issuedAt,
		Role:        models.RoleAdmin,
	}, nil
}

// Logout discards every batch generated under the token's login session.
func (s *AuthService) Logout(ctx context.Context, claims *models.JWTClaims) error {
	if claims == nil || claims.LoginID() == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "missing login session")
	}
	if err := s.sessions.Discard(ctx, claims.LoginID()); err != nil {
		return err
	}
	s.logger.Info("logged out", zap.String("login_id", claims.LoginID()), zap.String("role", string(claims.Role)))
	return nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if claims.LoginID() == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token has no login session")
	}
	switch claims.Role {
	case models.RoleAdmin:
	case models.RoleStudent:
		if claims.StudentID == "" {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "student token has no student id")
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unknown role")
	}

	return claims, nil
}

func (s *AuthService) generateAccessToken(loginID string, role models.UserRole, studentID string) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	subject := studentID
	if subject == "" {
		subject = string(role)
	}
	claims := &models.JWTClaims{
		Role:      role,
		StudentID: studentID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        loginID,
			Issuer:    s.config.Issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}

func (s *AuthService) recordLogin(role models.UserRole, success bool) {
	if s.metrics != nil {
		s.metrics.RecordLogin(role, success)
	}
}
