package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vaticano/paroquia-auth/internal/audit"
	"github.com/vaticano/paroquia-auth/internal/authz"
	"github.com/vaticano/paroquia-auth/internal/hash"
	"github.com/vaticano/paroquia-auth/internal/logging"
	"github.com/vaticano/paroquia-auth/internal/models"
	"github.com/vaticano/paroquia-auth/internal/normalize"
	"github.com/vaticano/paroquia-auth/internal/repo"
	"github.com/vaticano/paroquia-auth/internal/roles"
)

// UserService is the super-admin-only credential management surface.
type UserService struct {
	Repo  *repo.GormRepo
	Audit *audit.Logger
}

type UserDetail struct {
	UserID      string     `json:"user_id"`
	Username    string     `json:"username"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

type CreateUserInput struct {
	Username string
	Name     string
	Role     string
	Password string
}

type UpdateUserInput struct {
	Name   string
	Role   string
	Active *bool
}

func toDetail(u *models.User) *UserDetail {
	return &UserDetail{
		UserID:      u.UserID,
		Username:    u.Username,
		Name:        u.Name,
		Role:        u.Role,
		Active:      u.Active,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func (s *UserService) List(ctx context.Context, search string, page, size int) ([]UserDetail, int64, error) {
	if err := authz.RequireRole(ctx, roles.SuperAdmin); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	users, total, err := s.Repo.ListUsers(ctx,
		normalize.Key(search), strings.ToLower(strings.TrimSpace(search)),
		(page-1)*size, size)
	if err != nil {
		return nil, 0, err
	}

	out := make([]UserDetail, 0, len(users))
	for i := range users {
		out = append(out, *toDetail(&users[i]))
	}
	return out, total, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (*UserDetail, error) {
	if err := authz.RequireRole(ctx, roles.SuperAdmin); err != nil {
		return nil, err
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDetail(user), nil
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*UserDetail, error) {
	l := logging.FromContext(ctx).With("svc", "users.create")

	if err := authz.RequireRole(ctx, roles.SuperAdmin); err != nil {
		return nil, err
	}

	role, err := roles.Parse(in.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadRequest, err)
	}

	salt := hash.GenerateSalt()
	user := models.User{
		UserID:       repo.NewUserID(),
		Username:     strings.TrimSpace(in.Username),
		UsernameNorm: normalize.Key(in.Username),
		Name:         normalize.Spaces(in.Name),
		Role:         role.String(),
		Active:       true,
		PasswordHash: hash.HashPassword(in.Password, salt),
		Salt:         salt,
	}

	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUsernameTaken) {
			return nil, fmt.Errorf("%w: username %q", ErrConflict, user.Username)
		}
		return nil, err
	}

	s.Audit.Log(ctx, "user_created", "user created: "+user.Username, nil, user.UserID)
	l.Info("user created", "user_id", user.UserID, "role", user.Role)

	return toDetail(&user), nil
}

func (s *UserService) Update(ctx context.Context, userID string, in UpdateUserInput) (*UserDetail, error) {
	l := logging.FromContext(ctx).With("svc", "users.update")

	if err := authz.RequireRole(ctx, roles.SuperAdmin); err != nil {
		return nil, err
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if strings.TrimSpace(in.Name) != "" {
		user.Name = normalize.Spaces(in.Name)
	}
	if in.Role != "" {
		role, err := roles.Parse(in.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadRequest, err)
		}
		user.Role = role.String()
	}

	deactivated := false
	if in.Active != nil {
		deactivated = user.Active && !*in.Active
		user.Active = *in.Active
	}

	user.UsernameNorm = normalize.Key(user.Username)
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	if deactivated {
		if err := s.Repo.RevokeAllForUser(ctx, userID, time.Now()); err != nil {
			return nil, err
		}
		l.Info("refresh tokens revoked for deactivated user", "user_id", userID)
	}

	s.Audit.Log(ctx, "user_updated", "user updated: "+user.Username, nil, userID)
	return toDetail(user), nil
}

func (s *UserService) Delete(ctx context.Context, userID string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "users.delete")

	if err := authz.RequireRole(ctx, roles.SuperAdmin); err != nil {
		return "", err
	}

	if authz.CurrentUserID(ctx) == userID {
		return "", fmt.Errorf("%w: cannot delete own user", ErrBadRequest)
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	now := time.Now()
	if err := s.Repo.SoftDeleteUser(ctx, userID, authz.CurrentUserID(ctx), now); err != nil {
		return "", err
	}
	if err := s.Repo.RevokeAllForUser(ctx, userID, now); err != nil {
		return "", err
	}

	s.Audit.Log(ctx, "user_deleted", "user deleted: "+user.Username, nil, userID)
	l.Info("user deleted", "user_id", userID)

	return "User deleted successfully.", nil
}

// ResetPassword lets a super admin set a new password for another operator.
// Every session of that operator is revoked.
func (s *UserService) ResetPassword(ctx context.Context, userID, newPassword string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "users.reset_password")

	if err := authz.RequireRole(ctx, roles.SuperAdmin); err != nil {
		return "", err
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	newSalt := hash.GenerateSalt()
	if err := s.Repo.UpdatePassword(ctx, userID, hash.HashPassword(newPassword, newSalt), newSalt); err != nil {
		return "", err
	}
	if err := s.Repo.RevokeAllForUser(ctx, userID, time.Now()); err != nil {
		return "", err
	}

	s.Audit.Log(ctx, "user_password_reset", "password reset: "+user.Username, nil, userID)
	l.Info("password reset", "user_id", userID)

	return "Password reset successfully. All tokens were revoked.", nil
}
