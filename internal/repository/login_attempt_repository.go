package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginAttemptRepository counts failed login attempts per identifier inside
// a rolling window. Used by the credential verifier to throttle brute-force
// guessing without persisting anything about successful logins.
type LoginAttemptRepository interface {
	RecordFailure(ctx context.Context, email string, window time.Duration) (int64, error)
	Failures(ctx context.Context, email string) (int64, error)
	Reset(ctx context.Context, email string) error
}

const loginAttemptPrefix = "login_attempts:"

type loginAttemptRepository struct {
	client *redis.Client
}

// NewLoginAttemptRepository returns a Redis-backed implementation.
func NewLoginAttemptRepository(client *redis.Client) LoginAttemptRepository {
	return &loginAttemptRepository{client: client}
}

func (r *loginAttemptRepository) RecordFailure(ctx context.Context, email string, window time.Duration) (int64, error) {
	key := loginAttemptPrefix + email
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// The window starts at the first failure in a fresh bucket.
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (r *loginAttemptRepository) Failures(ctx context.Context, email string) (int64, error) {
	count, err := r.client.Get(ctx, loginAttemptPrefix+email).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *loginAttemptRepository) Reset(ctx context.Context, email string) error {
	return r.client.Del(ctx, loginAttemptPrefix+email).Err()
}
