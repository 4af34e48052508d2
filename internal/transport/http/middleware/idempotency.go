package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"nlpayroll/internal/platform/querier"
)

const DefaultIdempotencyTTL = 24 * time.Hour

var ErrIdempotencyConflict = errors.New("idempotency key reused with a different request body")

// Replay is a stored response for a previously seen Idempotency-Key.
type Replay struct {
	Status int
	Body   []byte
}

// IdempotencyStore remembers filing responses by (tenant, user, endpoint, key). Keys older
// than the TTL are forgotten and may be reused for a new request.
type IdempotencyStore struct {
	db  querier.Querier
	ttl time.Duration
	now func() time.Time
}

func NewIdempotencyStore(db querier.Querier) *IdempotencyStore {
	return &IdempotencyStore{db: db, ttl: DefaultIdempotencyTTL, now: time.Now}
}

func RequestHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func (s *IdempotencyStore) Lookup(ctx context.Context, tenantID, userID, endpoint, key, requestHash string) (Replay, bool, error) {
	if s == nil || s.db == nil {
		return Replay{}, false, nil
	}
	var storedHash string
	var replay Replay
	var createdAt time.Time
	err := s.db.QueryRow(ctx, `
    SELECT request_hash, response_status, response_json, created_at
    FROM idempotency_keys
    WHERE tenant_id = $1 AND user_id = $2 AND endpoint = $3 AND key = $4
  `, tenantID, userID, endpoint, key).Scan(&storedHash, &replay.Status, &replay.Body, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Replay{}, false, nil
	}
	if err != nil {
		return Replay{}, false, err
	}
	if s.expired(createdAt) {
		return Replay{}, false, nil
	}
	if storedHash != requestHash {
		return Replay{}, false, ErrIdempotencyConflict
	}
	return replay, true, nil
}

// Remember stores the response for key. A live key bound to another body is a conflict; an
// expired one is overwritten.
func (s *IdempotencyStore) Remember(ctx context.Context, tenantID, userID, endpoint, key, requestHash string, replay Replay) error {
	if s == nil || s.db == nil {
		return nil
	}
	now := s.now().UTC()
	tag, err := s.db.Exec(ctx, `
    INSERT INTO idempotency_keys (tenant_id, user_id, endpoint, key, request_hash, response_status, response_json, created_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    ON CONFLICT (tenant_id, user_id, endpoint, key)
    DO UPDATE SET request_hash = EXCLUDED.request_hash,
                  response_status = EXCLUDED.response_status,
                  response_json = EXCLUDED.response_json,
                  created_at = EXCLUDED.created_at
    WHERE idempotency_keys.request_hash = EXCLUDED.request_hash
       OR idempotency_keys.created_at < $9
  `, tenantID, userID, endpoint, key, requestHash, replay.Status, replay.Body, now, now.Add(-s.ttl))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrIdempotencyConflict
	}
	return nil
}

func (s *IdempotencyStore) expired(createdAt time.Time) bool {
	return s.ttl > 0 && s.now().Sub(createdAt) > s.ttl
}
