package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/performance-portal-api/internal/models"
)

var (
	// ErrStudentNotFound is returned when no record carries the requested id or code.
	ErrStudentNotFound = errors.New("student not found")
	// ErrDuplicateCode is returned when an active record already uses the code.
	ErrDuplicateCode = errors.New("student code already in use")
)

// StudentRepository is the in-memory student directory. Records are kept in insertion
// order and never physically removed, so ids stay valid after a soft delete.
type StudentRepository struct {
	mu      sync.RWMutex
	records []models.Student
	byID    map[string]int
}

// NewStudentRepository constructs a directory holding the given records.
func NewStudentRepository(seed ...models.Student) *StudentRepository {
	r := &StudentRepository{byID: make(map[string]int, len(seed))}
	for _, s := range seed {
		r.byID[s.ID] = len(r.records)
		r.records = append(r.records, s)
	}
	return r
}

// SeedStudents returns the sample records the directory starts with.
func SeedStudents() []models.Student {
	date := func(day int) time.Time { return time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC) }
	return []models.Student{
		{ID: "STU001", Name: "Ahmed Hassan", Code: "AH2024", ProgramVariant: models.ProgramIndividual, Active: true, CreatedAt: date(15)},
		{ID: "STU002", Name: "Fatima Al-Zahra", Code: "FZ2024", ProgramVariant: models.ProgramGroup, Active: true, CreatedAt: date(16)},
		{ID: "STU003", Name: "Omar Khaled", Code: "OK2024", ProgramVariant: models.ProgramIndividual, Active: true, CreatedAt: date(17)},
	}
}

// ListActive returns active students in insertion order.
func (r *StudentRepository) ListActive(ctx context.Context) ([]models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Student, 0, len(r.records))
	for _, s := range r.records {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

// FindByID returns any record, active or not.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byID[id]
	if !ok {
		return nil, ErrStudentNotFound
	}
	s := r.records[idx]
	return &s, nil
}

// FindActiveByCode matches the code case-insensitively against active records only.
func (r *StudentRepository) FindActiveByCode(ctx context.Context, code string) (*models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if idx := r.activeCodeIndex(code, ""); idx >= 0 {
		s := r.records[idx]
		return &s, nil
	}
	return nil, ErrStudentNotFound
}

// Create assigns the next sequential id and appends the record. The code check and the
// insert happen under one lock.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if student.Active && r.activeCodeIndex(student.Code, "") >= 0 {
		return ErrDuplicateCode
	}
	student.ID = r.nextID()
	r.byID[student.ID] = len(r.records)
	r.records = append(r.records, *student)
	return nil
}

// Update replaces the stored record with the same id. When the result is active its code
// must not collide with another active record.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.byID[student.ID]
	if !ok {
		return ErrStudentNotFound
	}
	if student.Active && r.activeCodeIndex(student.Code, student.ID) >= 0 {
		return ErrDuplicateCode
	}
	current := r.records[idx]
	student.CreatedAt = current.CreatedAt
	r.records[idx] = *student
	return nil
}

// Deactivate soft-deletes a record.
func (r *StudentRepository) Deactivate(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.byID[id]
	if !ok {
		return ErrStudentNotFound
	}
	r.records[idx].Active = false
	return nil
}

// nextID numbers records sequentially; seeds with gaps just push the counter forward.
func (r *StudentRepository) nextID() string {
	for n := len(r.records) + 1; ; n++ {
		id := fmt.Sprintf("STU%03d", n)
		if _, taken := r.byID[id]; !taken {
			return id
		}
	}
}

// activeCodeIndex returns the index of the active record using code, skipping excludeID, or -1.
// Callers hold the lock.
func (r *StudentRepository) activeCodeIndex(code, excludeID string) int {
	for i, s := range r.records {
		if s.Active && s.ID != excludeID && strings.EqualFold(s.Code, code) {
			return i
		}
	}
	return -1
}
