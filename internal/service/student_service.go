package service

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/noah-isme/performance-portal-api/internal/models"
	"github.com/noah-isme/performance-portal-api/internal/repository"
	appErrors "github.com/noah-isme/performance-portal-api/pkg/errors"
)

type studentRepository interface {
	ListActive(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindActiveByCode(ctx context.Context, code string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Deactivate(ctx context.Context, id string) error
}

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	Name           string `json:"name" validate:"required,max=120"`
	Code           string `json:"code" validate:"required,max=32"`
	ProgramVariant string `json:"program_variant" validate:"required"`
	ProfilePicture string `json:"profile_picture" validate:"omitempty,url"`
}

// UpdateStudentRequest holds a partial update; nil fields keep their stored value.
type UpdateStudentRequest struct {
	Name           *string `json:"name" validate:"omitempty,max=120"`
	Code           *string `json:"code" validate:"omitempty,max=32"`
	ProgramVariant *string `json:"program_variant"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,url"`
	Active         *bool   `json:"active"`
}

// StudentService handles student directory use-cases.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		repo:      repo,
		validator: validate,
		logger:    logger,
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
	}
}

// ListActive returns active students in the order they were added.
func (s *StudentService) ListActive(ctx context.Context) ([]models.Student, error) {
	students, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Get returns any student, including soft-deleted ones.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapStudentError(err, "failed to load student")
	}
	return student, nil
}

// FindByCode resolves an active student by login code.
func (s *StudentService) FindByCode(ctx context.Context, code string) (*models.Student, error) {
	student, err := s.repo.FindActiveByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, mapStudentError(err, "failed to look up student code")
	}
	return student, nil
}

// Create registers a new active student dated today.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	name := s.cleanName(req.Name)
	code := strings.TrimSpace(req.Code)
	if name == "" || code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name and code are required")
	}
	variant, ok := models.ParseProgramVariant(req.ProgramVariant)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "program_variant must be individual or group")
	}

	now := s.now().UTC()
	student := &models.Student{
		Name:           name,
		Code:           code,
		ProgramVariant: variant,
		ProfilePicture: strings.TrimSpace(req.ProfilePicture),
		Active:         true,
		CreatedAt:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, mapStudentError(err, "failed to create student")
	}
	s.logger.Info("student created", zap.String("student_id", student.ID), zap.String("program_variant", string(variant)))
	return student, nil
}

// Update merges the provided fields into the stored record. Changing the code or
// reactivating the record re-checks code uniqueness.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapStudentError(err, "failed to load student")
	}

	student := *current
	if req.Name != nil {
		if student.Name = s.cleanName(*req.Name); student.Name == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "name cannot be empty")
		}
	}
	if req.Code != nil {
		if student.Code = strings.TrimSpace(*req.Code); student.Code == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "code cannot be empty")
		}
	}
	if req.ProgramVariant != nil {
		variant, ok := models.ParseProgramVariant(*req.ProgramVariant)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "program_variant must be individual or group")
		}
		student.ProgramVariant = variant
	}
	if req.ProfilePicture != nil {
		student.ProfilePicture = strings.TrimSpace(*req.ProfilePicture)
	}
	if req.Active != nil {
		student.Active = *req.Active
	}

	if err := s.repo.Update(ctx, &student); err != nil {
		return nil, mapStudentError(err, "failed to update student")
	}
	return &student, nil
}

// SoftDelete hides the student from listings and login. The id stays resolvable.
func (s *StudentService) SoftDelete(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return mapStudentError(err, "failed to deactivate student")
	}
	s.logger.Info("student deactivated", zap.String("student_id", id))
	return nil
}

// Stats counts active students per program variant for the admin dashboard.
func (s *StudentService) Stats(ctx context.Context) (*models.StudentDirectoryStats, error) {
	students, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	stats := &models.StudentDirectoryStats{Total: len(students)}
	for _, student := range students {
		switch student.ProgramVariant {
		case models.ProgramGroup:
			stats.Group++
		default:
			stats.Individual++
		}
	}
	return stats, nil
}

const maxEntityPasses = 4

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// cleanName sanitises the entity-decoded name and then decodes the policy's own escaping so
// names like O'Neil survive. Angle brackets never reach storage.
func (s *StudentService) cleanName(raw string) string {
	decoded := raw
	for i := 0; i < maxEntityPasses; i++ {
		next := html.UnescapeString(decoded)
		if next == decoded {
			break
		}
		decoded = next
	}
	clean := html.UnescapeString(s.sanitizer.Sanitize(decoded))
	return strings.TrimSpace(angleBrackets.Replace(clean))
}

func mapStudentError(err error, internalMsg string) error {
	switch {
	case errors.Is(err, repository.ErrStudentNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	case errors.Is(err, repository.ErrDuplicateCode):
		return appErrors.Clone(appErrors.ErrConflict, "student code already in use")
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internalMsg)
	}
}
