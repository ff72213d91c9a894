package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/performance-portal-api/internal/models"
	"github.com/noah-isme/performance-portal-api/internal/repository"
	appErrors "github.com/noah-isme/performance-portal-api/pkg/errors"
)

type failingStudentRepo struct {
	err error
}

func (f failingStudentRepo) ListActive(ctx context.Context) ([]models.Student, error) {
	return nil, f.err
}

func (f failingStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return nil, f.err
}

func (f failingStudentRepo) FindActiveByCode(ctx context.Context, code string) (*models.Student, error) {
	return nil, f.err
}

func (f failingStudentRepo) Create(ctx context.Context, student *models.Student) error { return f.err }

func (f failingStudentRepo) Update(ctx context.Context, student *models.Student) error { return f.err }

func (f failingStudentRepo) Deactivate(ctx context.Context, id string) error { return f.err }

func newTestStudentService() *StudentService {
	svc := NewStudentService(repository.NewStudentRepository(repository.SeedStudents()...), validator.New(), zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, time.March, 2, 15, 4, 5, 0, time.UTC) }
	return svc
}

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func requireAppCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected *errors.Error, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func TestStudentServiceCreate(t *testing.T) {
	svc := newTestStudentService()

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		Name:           "  Layla <b>Nasser</b> ",
		Code:           " LN2024 ",
		ProgramVariant: "Group",
	})
	require.NoError(t, err)
	assert.Equal(t, "STU004", student.ID)
	assert.Equal(t, "Layla Nasser", student.Name)
	assert.Equal(t, "LN2024", student.Code)
	assert.Equal(t, models.ProgramGroup, student.ProgramVariant)
	assert.True(t, student.Active)
	assert.Equal(t, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), student.CreatedAt)

	found, err := svc.FindByCode(context.Background(), "ln2024")
	require.NoError(t, err)
	assert.Equal(t, student.ID, found.ID)
}

func TestStudentServiceCreateKeepsApostrophes(t *testing.T) {
	svc := newTestStudentService()

	student, err := svc.Create(context.Background(), CreateStudentRequest{Name: "Sean O'Neil", Code: "SO2024", ProgramVariant: "individual"})
	require.NoError(t, err)
	assert.Equal(t, "Sean O'Neil", student.Name)
}

func TestStudentServiceCreateStripsEncodedMarkup(t *testing.T) {
	svc := newTestStudentService()
	ctx := context.Background()

	student, err := svc.Create(ctx, CreateStudentRequest{
		Name:           "&lt;script&gt;alert(1)&lt;/script&gt;Bob",
		Code:           "EN2024",
		ProgramVariant: "individual",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bob", student.Name)

	student, err = svc.Create(ctx, CreateStudentRequest{
		Name:           "&amp;lt;img src=x onerror=alert(1)&amp;gt;Ana &amp; Co",
		Code:           "EN2025",
		ProgramVariant: "group",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana & Co", student.Name)
	assert.NotContains(t, student.Name, "<")

	_, err = svc.Create(ctx, CreateStudentRequest{
		Name:           "&lt;script&gt;alert(1)&lt;/script&gt;",
		Code:           "EN2026",
		ProgramVariant: "group",
	})
	requireAppCode(t, err, appErrors.ErrValidation.Code)
}

func TestStudentServiceCreateValidation(t *testing.T) {
	svc := newTestStudentService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateStudentRequest{Code: "X1", ProgramVariant: "group"})
	requireAppCode(t, err, appErrors.ErrValidation.Code)

	_, err = svc.Create(ctx, CreateStudentRequest{Name: "<i></i>", Code: "X1", ProgramVariant: "group"})
	requireAppCode(t, err, appErrors.ErrValidation.Code)

	_, err = svc.Create(ctx, CreateStudentRequest{Name: "Nour", Code: "X1", ProgramVariant: "hybrid"})
	requireAppCode(t, err, appErrors.ErrValidation.Code)

	_, err = svc.Create(ctx, CreateStudentRequest{Name: "Nour", Code: "X1", ProgramVariant: "group", ProfilePicture: "not a url"})
	requireAppCode(t, err, appErrors.ErrValidation.Code)
}

func TestStudentServiceCreateDuplicateCode(t *testing.T) {
	svc := newTestStudentService()

	_, err := svc.Create(context.Background(), CreateStudentRequest{Name: "Copy", Code: "ah2024", ProgramVariant: "individual"})
	requireAppCode(t, err, appErrors.ErrConflict.Code)
}

func TestStudentServiceCodeReusableAfterSoftDelete(t *testing.T) {
	svc := newTestStudentService()
	ctx := context.Background()

	require.NoError(t, svc.SoftDelete(ctx, "STU001"))

	_, err := svc.FindByCode(ctx, "AH2024")
	requireAppCode(t, err, appErrors.ErrNotFound.Code)

	created, err := svc.Create(ctx, CreateStudentRequest{Name: "New Ahmed", Code: "AH2024", ProgramVariant: "individual"})
	require.NoError(t, err)
	assert.Equal(t, "STU004", created.ID)

	_, err = svc.Update(ctx, "STU001", UpdateStudentRequest{Active: boolPtr(true)})
	requireAppCode(t, err, appErrors.ErrConflict.Code)

	old, err := svc.Get(ctx, "STU001")
	require.NoError(t, err)
	assert.False(t, old.Active)
}

func TestStudentServiceUpdate(t *testing.T) {
	svc := newTestStudentService()
	ctx := context.Background()

	updated, err := svc.Update(ctx, "STU002", UpdateStudentRequest{
		Name:           strPtr("Fatima Z."),
		ProgramVariant: strPtr("INDIVIDUAL"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Fatima Z.", updated.Name)
	assert.Equal(t, "FZ2024", updated.Code)
	assert.Equal(t, models.ProgramIndividual, updated.ProgramVariant)
	assert.Equal(t, time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC), updated.CreatedAt)

	// keeping its own code is not a conflict
	_, err = svc.Update(ctx, "STU002", UpdateStudentRequest{Code: strPtr("fz2024")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "STU002", UpdateStudentRequest{Code: strPtr("OK2024")})
	requireAppCode(t, err, appErrors.ErrConflict.Code)

	_, err = svc.Update(ctx, "STU002", UpdateStudentRequest{Code: strPtr("  ")})
	requireAppCode(t, err, appErrors.ErrValidation.Code)

	_, err = svc.Update(ctx, "STU404", UpdateStudentRequest{Name: strPtr("Ghost")})
	requireAppCode(t, err, appErrors.ErrNotFound.Code)
}

func TestStudentServiceRenameAfterSoftDelete(t *testing.T) {
	svc := newTestStudentService()
	ctx := context.Background()

	require.NoError(t, svc.SoftDelete(ctx, "STU003"))
	before, err := svc.Get(ctx, "STU003")
	require.NoError(t, err)

	_, err = svc.Update(ctx, "STU003", UpdateStudentRequest{Name: strPtr("X")})
	require.NoError(t, err)

	after, err := svc.Get(ctx, "STU003")
	require.NoError(t, err)
	expected := *before
	expected.Name = "X"
	assert.Equal(t, expected, *after)
	assert.False(t, after.Active)

	_, err = svc.FindByCode(ctx, before.Code)
	requireAppCode(t, err, appErrors.ErrNotFound.Code)
}

func TestStudentServiceSoftDeleteUnknown(t *testing.T) {
	svc := newTestStudentService()

	err := svc.SoftDelete(context.Background(), "STU999")
	requireAppCode(t, err, appErrors.ErrNotFound.Code)
}

func TestStudentServiceStats(t *testing.T) {
	svc := newTestStudentService()
	ctx := context.Background()

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StudentDirectoryStats{Total: 3, Individual: 2, Group: 1}, *stats)

	require.NoError(t, svc.SoftDelete(ctx, "STU002"))
	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StudentDirectoryStats{Total: 2, Individual: 2, Group: 0}, *stats)
}

func TestStudentServiceRepositoryFailure(t *testing.T) {
	svc := NewStudentService(failingStudentRepo{err: errors.New("boom")}, nil, nil)

	_, err := svc.ListActive(context.Background())
	requireAppCode(t, err, appErrors.ErrInternal.Code)

	_, err = svc.Get(context.Background(), "STU001")
	requireAppCode(t, err, appErrors.ErrInternal.Code)
}
