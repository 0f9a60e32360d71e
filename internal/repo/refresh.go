package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vaticano/paroquia-auth/internal/models"
)

var (
	ErrTokenNotFound = errors.New("refresh token not found")
	ErrTokenRevoked  = errors.New("refresh token revoked")
	ErrTokenExpired  = errors.New("refresh token expired")
)

// IssueRefreshToken creates a new opaque session handle for the user and
// returns the raw token. Only the hash hits the database; the raw value is
// not recoverable afterwards.
func (r *GormRepo) IssueRefreshToken(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	raw := NewTokenID()
	record := models.RefreshToken{
		TokenID:   NewTokenID(),
		UserID:    userID,
		TokenHash: HashToken(raw),
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}
	if err := r.DB.WithContext(ctx).Create(&record).Error; err != nil {
		return "", err
	}
	return raw, nil
}

// ValidateRefreshToken resolves a raw token to its owning user id, or reports
// exactly why it cannot be used.
func (r *GormRepo) ValidateRefreshToken(ctx context.Context, raw string) (string, error) {
	var record models.RefreshToken
	err := r.DB.WithContext(ctx).Where("token_hash = ?", HashToken(raw)).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrTokenNotFound
		}
		return "", err
	}
	if record.Revoked {
		return "", ErrTokenRevoked
	}
	if record.Expired(time.Now()) {
		return "", ErrTokenExpired
	}
	return record.UserID, nil
}

// RevokeRefreshToken marks the matching record revoked. Revoking an absent or
// already-revoked token is a no-op: logout stays idempotent.
func (r *GormRepo) RevokeRefreshToken(ctx context.Context, raw string, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked = ?", HashToken(raw), false).
		Updates(map[string]any{"revoked": true, "revoked_at": at}).Error
}

// RevokeAllForUser invalidates every currently-valid token of one user in a
// single conditional update. Tokens of other users are untouched.
func (r *GormRepo) RevokeAllForUser(ctx context.Context, userID string, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Updates(map[string]any{"revoked": true, "revoked_at": at}).Error
}

// SweepRefreshTokens deletes records that are expired or revoked as of now.
// Storage hygiene only: a currently-valid record is never removed, so the
// sweep is safe to run concurrently and repeatedly.
func (r *GormRepo) SweepRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	result := r.DB.WithContext(ctx).
		Where("expires_at < ? OR revoked = ?", now.Unix(), true).
		Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
