package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/joke-moderation-service/internal/auth"
	"github.com/spec-kit/joke-moderation-service/internal/config"
	"github.com/spec-kit/joke-moderation-service/internal/domain"
	apperrors "github.com/spec-kit/joke-moderation-service/pkg/util"
)

type fakeReviewerRepo struct {
	reviewers map[string]domain.Reviewer
	lookups   int
	err       error
}

func (f *fakeReviewerRepo) GetByEmail(_ context.Context, email string) (*domain.Reviewer, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	reviewer, ok := f.reviewers[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &reviewer, nil
}

type fakeAttemptRepo struct {
	counts map[string]int64
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{counts: make(map[string]int64)}
}

func (f *fakeAttemptRepo) RecordFailure(_ context.Context, email string, _ time.Duration) (int64, error) {
	f.counts[email]++
	return f.counts[email], nil
}

func (f *fakeAttemptRepo) Failures(_ context.Context, email string) (int64, error) {
	return f.counts[email], nil
}

func (f *fakeAttemptRepo) Reset(_ context.Context, email string) error {
	delete(f.counts, email)
	return nil
}

func authConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLHours:   4,
		BcryptCost:            bcrypt.MinCost,
		LoginAttemptLimit:     3,
		LoginAttemptWindowSec: 60,
	}
}

func reviewerWithPassword(t *testing.T, email, password string) domain.Reviewer {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return domain.Reviewer{ID: "rev-1", Email: email, PasswordHash: hash}
}

func TestVerifyCredentials_Success(t *testing.T) {
	t.Parallel()

	repo := &fakeReviewerRepo{reviewers: map[string]domain.Reviewer{
		"mod@example.com": reviewerWithPassword(t, "mod@example.com", "correct horse"),
	}}
	svc := NewAuthService(authConfig(), AuthDependencies{ReviewerRepo: repo})

	token, err := svc.VerifyCredentials(context.Background(), "mod@example.com", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, token.Token)
	require.Equal(t, "mod@example.com", token.Email)

	// The token parses with the issuing secret and expires ~4h out.
	claims, err := svc.TokenManager().ParseToken(token.Token)
	require.NoError(t, err)
	require.Equal(t, "rev-1", claims.Subject)
	require.InDelta(t, 4*time.Hour, time.Until(token.ExpiresAt), float64(time.Minute))
}

func TestVerifyCredentials_UnknownAndWrongPasswordIndistinguishable(t *testing.T) {
	t.Parallel()

	repo := &fakeReviewerRepo{reviewers: map[string]domain.Reviewer{
		"mod@example.com": reviewerWithPassword(t, "mod@example.com", "correct horse"),
	}}
	svc := NewAuthService(authConfig(), AuthDependencies{ReviewerRepo: repo})

	_, unknownErr := svc.VerifyCredentials(context.Background(), "ghost@example.com", "whatever")
	_, wrongErr := svc.VerifyCredentials(context.Background(), "mod@example.com", "wrong")

	var unknownDomain, wrongDomain *apperrors.DomainError
	require.ErrorAs(t, unknownErr, &unknownDomain)
	require.ErrorAs(t, wrongErr, &wrongDomain)

	require.Equal(t, http.StatusUnauthorized, unknownDomain.HTTPStatus)
	require.Equal(t, http.StatusUnauthorized, wrongDomain.HTTPStatus)
	require.Equal(t, unknownDomain.Message, wrongDomain.Message)
	require.Equal(t, unknownDomain.Code, wrongDomain.Code)
}

func TestVerifyCredentials_InfrastructureFault(t *testing.T) {
	t.Parallel()

	repo := &fakeReviewerRepo{err: errors.New("connection refused")}
	svc := NewAuthService(authConfig(), AuthDependencies{ReviewerRepo: repo})

	_, err := svc.VerifyCredentials(context.Background(), "mod@example.com", "pw")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "INTERNAL_ERROR", domainErr.Code)
	require.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
}

func TestVerifyCredentials_ThrottleBlocks(t *testing.T) {
	t.Parallel()

	repo := &fakeReviewerRepo{reviewers: map[string]domain.Reviewer{
		"mod@example.com": reviewerWithPassword(t, "mod@example.com", "correct horse"),
	}}
	attempts := newFakeAttemptRepo()
	svc := NewAuthService(authConfig(), AuthDependencies{
		ReviewerRepo:     repo,
		LoginAttemptRepo: attempts,
	})

	for i := 0; i < 3; i++ {
		_, err := svc.VerifyCredentials(context.Background(), "mod@example.com", "wrong")
		require.Error(t, err)
	}
	lookupsBefore := repo.lookups

	// Over the limit even the correct password is refused, and the
	// credential store is no longer consulted.
	_, err := svc.VerifyCredentials(context.Background(), "mod@example.com", "correct horse")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, http.StatusUnauthorized, domainErr.HTTPStatus)
	require.Equal(t, lookupsBefore, repo.lookups)
}

func TestVerifyCredentials_SuccessResetsThrottle(t *testing.T) {
	t.Parallel()

	repo := &fakeReviewerRepo{reviewers: map[string]domain.Reviewer{
		"mod@example.com": reviewerWithPassword(t, "mod@example.com", "correct horse"),
	}}
	attempts := newFakeAttemptRepo()
	svc := NewAuthService(authConfig(), AuthDependencies{
		ReviewerRepo:     repo,
		LoginAttemptRepo: attempts,
	})

	for i := 0; i < 2; i++ {
		_, err := svc.VerifyCredentials(context.Background(), "mod@example.com", "wrong")
		require.Error(t, err)
	}

	_, err := svc.VerifyCredentials(context.Background(), "mod@example.com", "correct horse")
	require.NoError(t, err)
	require.Zero(t, attempts.counts["mod@example.com"])
}

func TestVerifyCredentials_NoCredentialStore(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(authConfig(), AuthDependencies{})

	_, err := svc.VerifyCredentials(context.Background(), "mod@example.com", "pw")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "INTERNAL_ERROR", domainErr.Code)
}
