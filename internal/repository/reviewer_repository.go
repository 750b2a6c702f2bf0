package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/joke-moderation-service/internal/domain"
)

// ReviewerRepository defines read access to the credential store. The
// identity store owns the records; the gateway never writes them.
type ReviewerRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Reviewer, error)
}

type reviewerRepository struct {
	pool *pgxpool.Pool
}

// NewReviewerRepository returns a Postgres-backed implementation.
func NewReviewerRepository(pool *pgxpool.Pool) ReviewerRepository {
	return &reviewerRepository{pool: pool}
}

func (r *reviewerRepository) GetByEmail(ctx context.Context, email string) (*domain.Reviewer, error) {
	const query = `
        SELECT id, email, password_hash, created_at, updated_at
        FROM reviewers WHERE email=$1`

	var reviewer domain.Reviewer
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&reviewer.ID,
		&reviewer.Email,
		&reviewer.PasswordHash,
		&reviewer.CreatedAt,
		&reviewer.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &reviewer, nil
}
