package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/joke-moderation-service/internal/auth"
	"github.com/spec-kit/joke-moderation-service/internal/config"
	"github.com/spec-kit/joke-moderation-service/internal/domain"
	"github.com/spec-kit/joke-moderation-service/internal/repository"
	apperrors "github.com/spec-kit/joke-moderation-service/pkg/util"
)

// AuthService is the credential verifier: it checks a submitted
// email/password pair against the stored reviewer record and mints a
// time-limited access token. No session state is recorded anywhere.
type AuthService struct {
	reviewers     repository.ReviewerRepository
	attempts      repository.LoginAttemptRepository
	tokenMgr      *auth.TokenManager
	attemptLimit  int
	attemptWindow time.Duration
}

// AuthDependencies bundles collaborator requirements for the auth service.
type AuthDependencies struct {
	ReviewerRepo     repository.ReviewerRepository
	LoginAttemptRepo repository.LoginAttemptRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		reviewers:     deps.ReviewerRepo,
		attempts:      deps.LoginAttemptRepo,
		tokenMgr:      auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL()),
		attemptLimit:  cfg.LoginAttemptLimit,
		attemptWindow: cfg.LoginAttemptWindow(),
	}
}

// VerifyCredentials authenticates a reviewer and issues an access token.
// Unknown emails and wrong passwords fail with the same error so the
// response never reveals whether an account exists.
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) (*domain.AccessToken, error) {
	if s.reviewers == nil {
		return nil, apperrors.NewInternalError(errors.New("credential store not configured"))
	}

	if blocked, err := s.throttled(ctx, email); err == nil && blocked {
		return nil, apperrors.NewUnauthorized("Invalid credentials")
	}

	reviewer, err := s.reviewers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.recordFailure(ctx, email)
			return nil, apperrors.NewUnauthorized("Invalid credentials")
		}
		return nil, apperrors.NewInternalError(err)
	}

	if err := auth.ComparePassword(reviewer.PasswordHash, password); err != nil {
		s.recordFailure(ctx, email)
		return nil, apperrors.NewUnauthorized("Invalid credentials")
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(reviewer.ID, reviewer.Email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.resetFailures(ctx, email)

	return &domain.AccessToken{
		Token:     token,
		SubjectID: reviewer.ID,
		Email:     reviewer.Email,
		IssuedAt:  expiresAt.Add(-s.tokenMgr.TTL()),
		ExpiresAt: expiresAt,
	}, nil
}

// TokenManager exposes the underlying token manager for the access guard.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// throttled reports whether the email has exceeded the failed-attempt limit.
// A missing or unreachable attempt store degrades to allowing the attempt.
func (s *AuthService) throttled(ctx context.Context, email string) (bool, error) {
	if s.attempts == nil || s.attemptLimit <= 0 {
		return false, nil
	}
	count, err := s.attempts.Failures(ctx, email)
	if err != nil {
		return false, err
	}
	return count >= int64(s.attemptLimit), nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.attempts == nil || s.attemptLimit <= 0 {
		return
	}
	_, _ = s.attempts.RecordFailure(ctx, email, s.attemptWindow)
}

func (s *AuthService) resetFailures(ctx context.Context, email string) {
	if s.attempts == nil || s.attemptLimit <= 0 {
		return
	}
	_ = s.attempts.Reset(ctx, email)
}
