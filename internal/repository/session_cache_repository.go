package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/performance-portal-api/internal/models"
)

const (
	sessionKeyPrefix  = "portal:sessions"
	maxMutateAttempts = 5
)

// SessionCacheRepository keeps generated batches in Redis so several API instances can serve
// the same login session. Values are JSON encoded batches under one key per (login, student).
type SessionCacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewSessionCacheRepository constructs a Redis-backed batch store.
func NewSessionCacheRepository(client *redis.Client, logger *zap.Logger) *SessionCacheRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionCacheRepository{client: client, logger: logger}
}

func batchKey(key BatchKey) string {
	return fmt.Sprintf("%s:%s:%s", sessionKeyPrefix, key.LoginID, key.StudentID)
}

// Save replaces the batch for key wholesale. A non-positive ttl never expires.
func (r *SessionCacheRepository) Save(ctx context.Context, key BatchKey, sessions []models.Session, ttl time.Duration) error {
	payload, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("marshal session batch: %w", err)
	}
	if ttl < 0 {
		ttl = 0
	}
	k := batchKey(key)
	if err := r.client.Set(ctx, k, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", k, err)
	}
	return nil
}

// Load returns the stored batch.
func (r *SessionCacheRepository) Load(ctx context.Context, key BatchKey) ([]models.Session, error) {
	k := batchKey(key)
	raw, err := r.client.Get(ctx, k).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", k, err)
	}
	return decodeBatch(k, raw)
}

// Mutate runs fn inside an optimistic WATCH transaction and keeps the key's TTL. Concurrent
// writers cause a bounded number of retries.
func (r *SessionCacheRepository) Mutate(ctx context.Context, key BatchKey, fn func([]models.Session) error) ([]models.Session, error) {
	k := batchKey(key)
	var result []models.Session

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, k).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrBatchNotFound
			}
			return fmt.Errorf("redis get %s: %w", k, err)
		}
		sessions, err := decodeBatch(k, raw)
		if err != nil {
			return err
		}
		if err := fn(sessions); err != nil {
			return err
		}
		payload, err := json.Marshal(sessions)
		if err != nil {
			return fmt.Errorf("marshal session batch: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetArgs(ctx, k, payload, redis.SetArgs{KeepTTL: true})
			return nil
		})
		if err != nil {
			return err
		}
		result = sessions
		return nil
	}

	for attempt := 0; attempt < maxMutateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, k)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			r.logger.Debug("session batch changed during edit, retrying", zap.String("key", k), zap.Int("attempt", attempt+1))
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("redis mutate %s: too many concurrent edits", k)
}

// DeleteLogin removes every batch owned by the login session.
func (r *SessionCacheRepository) DeleteLogin(ctx context.Context, loginID string) error {
	pattern := fmt.Sprintf("%s:%s:*", sessionKeyPrefix, loginID)
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if err := r.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("redis delete %s: %w", key, err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan pattern %s: %w", pattern, err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (r *SessionCacheRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

func decodeBatch(key string, raw []byte) ([]models.Session, error) {
	var sessions []models.Session
	if err := json.Unmarshal(raw, &sessions); err != nil {
		return nil, fmt.Errorf("unmarshal session batch %s: %w", key, err)
	}
	return sessions, nil
}
