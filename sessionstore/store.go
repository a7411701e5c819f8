// Package sessionstore persists checkout sessions in Redis under opaque
// tokens with a fixed time-to-live.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"multipay/models"
	"multipay/utils"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no session exists for a token. TTL expiry is
// indistinguishable from a token that never existed.
var ErrNotFound = errors.New("checkout session not found")

// TTL is re-applied on every write, so a session stays alive for another 30
// minutes after each interaction.
const TTL = 30 * time.Minute

// Store is the session-record adapter. Writes replace the whole record: there
// is no compare-and-swap, so concurrent requests against the same token race
// and the last writer wins. Sessions are single-user, so this is accepted.
type Store struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Create persists a fresh session under a new opaque token.
func (s *Store) Create(ctx context.Context, session *models.CheckoutSession) (string, error) {
	token := utils.GetUUID()
	if err := s.Set(ctx, token, session); err != nil {
		return "", err
	}
	return token, nil
}

// Get loads the session stored under token.
func (s *Store) Get(ctx context.Context, token string) (*models.CheckoutSession, error) {
	raw, err := s.rdb.Get(ctx, token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session read failed: %w", err)
	}

	var session models.CheckoutSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("session decode failed: %w", err)
	}
	return &session, nil
}

// Set overwrites the session stored under token and restarts its TTL.
func (s *Store) Set(ctx context.Context, token string, session *models.CheckoutSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("session encode failed: %w", err)
	}
	if err := s.rdb.Set(ctx, token, payload, TTL).Err(); err != nil {
		return fmt.Errorf("session write failed: %w", err)
	}
	return nil
}
