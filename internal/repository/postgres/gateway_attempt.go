package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"cabanas-backend/internal/domain"
	"cabanas-backend/internal/repository"
)

type gatewayAttemptRepository struct {
	db *sql.DB
}

func NewGatewayAttemptRepository(db *sql.DB) repository.GatewayAttemptRepository {
	return &gatewayAttemptRepository{db: db}
}

func (r *gatewayAttemptRepository) Create(ctx context.Context, attempt *domain.GatewayAttempt) error {
	stay, err := json.Marshal(attempt.Stay)
	if err != nil {
		return err
	}
	breakdown, err := json.Marshal(attempt.Breakdown)
	if err != nil {
		return err
	}
	query := `INSERT INTO gateway_attempts (token, stay, breakdown, status, expires_at, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, now(), now()) RETURNING id`
	return r.db.QueryRowContext(ctx, query, attempt.Token, stay, breakdown, attempt.Status, attempt.ExpiresAt).Scan(&attempt.ID)
}

func (r *gatewayAttemptRepository) GetByToken(ctx context.Context, token string) (*domain.GatewayAttempt, error) {
	attempt := &domain.GatewayAttempt{}
	var stay, breakdown []byte
	query := `SELECT id, token, stay, breakdown, status, expires_at, created_on, updated_on
	          FROM gateway_attempts WHERE token = $1`
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&attempt.ID, &attempt.Token, &stay, &breakdown, &attempt.Status,
		&attempt.ExpiresAt, &attempt.CreatedOn, &attempt.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stay, &attempt.Stay); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(breakdown, &attempt.Breakdown); err != nil {
		return nil, err
	}
	return attempt, nil
}

func (r *gatewayAttemptRepository) ListExpiringTokens(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT token FROM gateway_attempts
		WHERE status = 'PENDING' AND expires_at < $1
		ORDER BY expires_at`,
		cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

func (r *gatewayAttemptRepository) Consume(ctx context.Context, token string, toStatus domain.GatewayAttemptStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE gateway_attempts SET status = $2, updated_on = now()
		WHERE token = $1 AND status = 'PENDING' AND expires_at > now()`,
		token, toStatus)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
