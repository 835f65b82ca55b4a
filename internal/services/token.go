package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tapri-app/tapri-api/internal/database"
)

// TokenService persists hashed refresh tokens.
type TokenService struct {
	db *database.DB
}

func NewTokenService(db *database.DB) *TokenService {
	return &TokenService{db: db}
}

func (s *TokenService) StoreRefreshToken(ctx context.Context, profileID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (profile_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, profileID, tokenHash, expiresAt)
	return database.MapError(err, "refresh token")
}

// ValidateRefreshToken returns the owner of an unexpired token.
func (s *TokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	var profileID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT profile_id FROM refresh_tokens
		WHERE token_hash = $1 AND expires_at > NOW()
	`, tokenHash).Scan(&profileID)
	if err != nil {
		return uuid.Nil, database.MapError(err, "refresh token")
	}
	return profileID, nil
}

func (s *TokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
	return database.MapError(err, "refresh token")
}

func (s *TokenService) RevokeAllProfileTokens(ctx context.Context, profileID uuid.UUID) error {
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE profile_id = $1`, profileID)
	return database.MapError(err, "refresh token")
}

func (s *TokenService) CleanupExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, database.MapError(err, "refresh token")
	}
	return tag.RowsAffected(), nil
}
