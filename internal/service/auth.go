package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vaticano/paroquia-auth/internal/audit"
	"github.com/vaticano/paroquia-auth/internal/authz"
	"github.com/vaticano/paroquia-auth/internal/hash"
	"github.com/vaticano/paroquia-auth/internal/logging"
	"github.com/vaticano/paroquia-auth/internal/models"
	"github.com/vaticano/paroquia-auth/internal/normalize"
	"github.com/vaticano/paroquia-auth/internal/repo"
	"github.com/vaticano/paroquia-auth/internal/roles"
	"github.com/vaticano/paroquia-auth/internal/tokens"
)

// Bootstrap account created when the credential store is empty. The password
// is temporary; it is surfaced once in the bootstrap confirmation.
const (
	BootstrapUsername = "admin"
	BootstrapPassword = "admin123"
	BootstrapName     = "Administrador"
)

type AuthService struct {
	Repo       *repo.GormRepo
	Issuer     *tokens.Issuer
	Audit      *audit.Logger
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type UserSummary struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	User         UserSummary
}

// Bootstrap creates the first super_admin credential. Allowed only while the
// store holds zero credentials; never repeatable.
func (s *AuthService) Bootstrap(ctx context.Context) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.bootstrap")

	count, err := s.Repo.CountUsers(ctx)
	if err != nil {
		return "", err
	}
	if count > 0 {
		return "", fmt.Errorf("%w: system already initialized", ErrBadRequest)
	}

	salt := hash.GenerateSalt()
	admin := models.User{
		UserID:       repo.NewUserID(),
		Username:     BootstrapUsername,
		UsernameNorm: normalize.Key(BootstrapUsername),
		Name:         BootstrapName,
		Role:         roles.SuperAdmin.String(),
		Active:       true,
		PasswordHash: hash.HashPassword(BootstrapPassword, salt),
		Salt:         salt,
	}
	if err := s.Repo.CreateUser(ctx, &admin); err != nil {
		return "", err
	}

	s.Audit.Log(ctx, "bootstrap", "initial admin user created", nil, admin.UserID)
	l.Info("initial admin user created")

	return fmt.Sprintf("Administrator account created. Username: %s, Password: %s",
		BootstrapUsername, BootstrapPassword), nil
}

// Login authenticates a credential and hands back one access token plus one
// freshly issued refresh token. Concurrent logins for the same credential are
// allowed; each gets its own refresh token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.FindUserByNorm(ctx, normalize.Key(username))
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Warn("login failed", "reason", "unknown username")
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !user.Active {
		l.Warn("login failed", "reason", "user disabled", "user_id", user.UserID)
		return nil, ErrUserDisabled
	}
	if !hash.CheckPassword(password, user.Salt, user.PasswordHash) {
		l.Warn("login failed", "reason", "password mismatch", "user_id", user.UserID)
		return nil, ErrUnauthorized
	}

	if err := s.Repo.TouchLastLogin(ctx, user.UserID, time.Now()); err != nil {
		return nil, err
	}

	role, err := roles.Parse(user.Role)
	if err != nil {
		return nil, fmt.Errorf("stored role for %s: %w", user.UserID, err)
	}

	accessToken, err := s.Issuer.Mint(user.UserID, user.Username, role, s.AccessTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.Repo.IssueRefreshToken(ctx, user.UserID, s.RefreshTTL)
	if err != nil {
		return nil, err
	}

	s.Audit.Log(ctx, "user_logged_in", "login: "+user.Username, nil, user.UserID)
	l.Info("login successful", "user_id", user.UserID, "role", user.Role)

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		User: UserSummary{
			UserID:   user.UserID,
			Username: user.Username,
			Name:     user.Name,
			Role:     user.Role,
			Active:   user.Active,
		},
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The refresh
// token is not rotated; it stays valid until its own expiry or an explicit
// revocation.
func (s *AuthService) Refresh(ctx context.Context, rawRefreshToken string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	userID, err := s.Repo.ValidateRefreshToken(ctx, rawRefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrTokenNotFound),
			errors.Is(err, repo.ErrTokenRevoked),
			errors.Is(err, repo.ErrTokenExpired):
			l.Warn("refresh rejected", "reason", err.Error())
			return "", fmt.Errorf("%w: %s", ErrUnauthorized, err)
		}
		return "", err
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}
	if !user.Active {
		return "", ErrUserDisabled
	}

	role, err := roles.Parse(user.Role)
	if err != nil {
		return "", fmt.Errorf("stored role for %s: %w", user.UserID, err)
	}

	accessToken, err := s.Issuer.Mint(user.UserID, user.Username, role, s.AccessTTL)
	if err != nil {
		return "", err
	}

	l.Debug("access token renewed", "user_id", user.UserID)
	return accessToken, nil
}

// Logout revokes the matching refresh token. Idempotent: revoking an unknown
// or already-revoked token still reports success.
func (s *AuthService) Logout(ctx context.Context, rawRefreshToken string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	if err := s.Repo.RevokeRefreshToken(ctx, rawRefreshToken, time.Now()); err != nil {
		return "", err
	}

	s.Audit.Log(ctx, "user_logged_out", "refresh token revoked", nil, "")
	l.Info("logout")
	return "Logged out successfully.", nil
}

// ChangePassword rotates the caller's own salt and hash and revokes every
// refresh token of that credential, forcing re-authentication everywhere.
func (s *AuthService) ChangePassword(ctx context.Context, currentPassword, newPassword string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.change_password")

	userID := authz.CurrentUserID(ctx)
	if userID == "" {
		return "", authz.ErrUnauthenticated
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}

	if !hash.CheckPassword(currentPassword, user.Salt, user.PasswordHash) {
		l.Warn("password change rejected", "reason", "current password mismatch", "user_id", userID)
		return "", fmt.Errorf("%w: current password incorrect", ErrUnauthorized)
	}

	newSalt := hash.GenerateSalt()
	if err := s.Repo.UpdatePassword(ctx, userID, hash.HashPassword(newPassword, newSalt), newSalt); err != nil {
		return "", err
	}
	if err := s.Repo.RevokeAllForUser(ctx, userID, time.Now()); err != nil {
		return "", err
	}

	s.Audit.Log(ctx, "user_password_changed", "password changed: "+user.Username, nil, userID)
	l.Info("password changed", "user_id", userID)

	return "Password changed successfully. Log in again with the new password.", nil
}
