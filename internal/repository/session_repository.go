package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/noah-isme/performance-portal-api/internal/models"
)

// ErrBatchNotFound is returned when a login session holds no batch for the student,
// either because none was generated or because it expired.
var ErrBatchNotFound = errors.New("session batch not found")

// BatchKey addresses the session batch a login session generated for one student.
type BatchKey struct {
	LoginID   string
	StudentID string
}

// SessionRepository keeps generated batches in process memory with a per-batch TTL.
type SessionRepository struct {
	mu      sync.Mutex
	batches map[string]map[string]storedBatch
	now     func() time.Time
}

type storedBatch struct {
	sessions  []models.Session
	expiresAt time.Time
}

// NewSessionRepository constructs an in-memory batch store.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{batches: make(map[string]map[string]storedBatch), now: time.Now}
}

// Save replaces the batch for key wholesale. A non-positive ttl never expires.
func (r *SessionRepository) Save(ctx context.Context, key BatchKey, sessions []models.Session, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byStudent, ok := r.batches[key.LoginID]
	if !ok {
		byStudent = make(map[string]storedBatch)
		r.batches[key.LoginID] = byStudent
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = r.now().Add(ttl)
	}
	byStudent[key.StudentID] = storedBatch{sessions: models.CloneSessions(sessions), expiresAt: expiresAt}
	return nil
}

// Load returns a copy of the batch.
func (r *SessionRepository) Load(ctx context.Context, key BatchKey) ([]models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch, ok := r.lookup(key)
	if !ok {
		return nil, ErrBatchNotFound
	}
	return models.CloneSessions(batch.sessions), nil
}

// Mutate applies fn to a working copy of the batch and stores the result only when fn
// succeeds, so a failed edit leaves the stored batch untouched.
func (r *SessionRepository) Mutate(ctx context.Context, key BatchKey, fn func([]models.Session) error) ([]models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch, ok := r.lookup(key)
	if !ok {
		return nil, ErrBatchNotFound
	}
	working := models.CloneSessions(batch.sessions)
	if err := fn(working); err != nil {
		return nil, err
	}
	batch.sessions = working
	r.batches[key.LoginID][key.StudentID] = batch
	return models.CloneSessions(working), nil
}

// DeleteLogin discards every batch owned by the login session.
func (r *SessionRepository) DeleteLogin(ctx context.Context, loginID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.batches, loginID)
	return nil
}

// lookup evicts expired batches on access. Callers hold the lock.
func (r *SessionRepository) lookup(key BatchKey) (storedBatch, bool) {
	byStudent, ok := r.batches[key.LoginID]
	if !ok {
		return storedBatch{}, false
	}
	batch, ok := byStudent[key.StudentID]
	if !ok {
		return storedBatch{}, false
	}
	if !batch.expiresAt.IsZero() && !r.now().Before(batch.expiresAt) {
		delete(byStudent, key.StudentID)
		if len(byStudent) == 0 {
			delete(r.batches, key.LoginID)
		}
		return storedBatch{}, false
	}
	return batch, true
}
