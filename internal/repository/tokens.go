// Package repository contains pgx-based data access for the monitor schema.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robertpustota/telegram-ai-monitor/internal/models"
)

// TokensRepository handles api_tokens table operations
type TokensRepository struct {
	pool *pgxpool.Pool
}

// NewTokensRepository creates a new tokens repository
func NewTokensRepository(pool *pgxpool.Pool) *TokensRepository {
	return &TokensRepository{pool: pool}
}

// Create generates and stores a new active token
func (r *TokensRepository) Create(ctx context.Context, name string) (*models.APIToken, error) {
	token, err := models.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	t := &models.APIToken{Token: token, Name: name, IsActive: true}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO api_tokens (token, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, t.Token, t.Name).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}
	return t, nil
}

// GetActiveByToken returns the active token record matching the value,
// or nil when no active token matches.
func (r *TokensRepository) GetActiveByToken(ctx context.Context, token string) (*models.APIToken, error) {
	var t models.APIToken
	err := r.pool.QueryRow(ctx, `
		SELECT id, token, name, is_active, created_at
		FROM api_tokens
		WHERE token = $1 AND is_active
	`, token).Scan(&t.ID, &t.Token, &t.Name, &t.IsActive, &t.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get token: %w", err)
	}
	return &t, nil
}

// Revoke deactivates a token by id
func (r *TokensRepository) Revoke(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE api_tokens SET is_active = false WHERE id = $1 AND is_active
	`, id)
	if err != nil {
		return false, fmt.Errorf("revoke token: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
