package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vaticano/paroquia-auth/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
)

// activeView filters out soft-deleted credentials. Applied at every lookup so
// a deleted user is unreachable by any path.
func (r *GormRepo) activeView(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Where("deleted_at IS NULL")
}

func (r *GormRepo) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.activeView(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	var count int64
	if err := r.activeView(ctx).Model(&models.User{}).
		Where("username_norm = ?", u.UsernameNorm).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) FindUserByNorm(ctx context.Context, usernameNorm string) (*models.User, error) {
	var user models.User
	err := r.activeView(ctx).Where("username_norm = ?", usernameNorm).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.activeView(ctx).Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Save(u).Error
}

func (r *GormRepo) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("last_login_at", at).Error
}

func (r *GormRepo) UpdatePassword(ctx context.Context, userID, passwordHash, salt string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"password_hash": passwordHash, "salt": salt}).Error
}

func (r *GormRepo) SoftDeleteUser(ctx context.Context, userID, deletedBy string, at time.Time) error {
	result := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Updates(map[string]any{"deleted_at": at, "deleted_by": deletedBy})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListUsers pages through the active view, optionally filtering on the
// normalized username or the display name.
func (r *GormRepo) ListUsers(ctx context.Context, searchNorm, search string, offset, limit int) ([]models.User, int64, error) {
	q := r.activeView(ctx).Model(&models.User{})
	if searchNorm != "" {
		q = q.Where("username_norm LIKE ? OR LOWER(name) LIKE ?",
			"%"+searchNorm+"%", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := q.Order("created_at").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
