package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tribeshub/backend/internal/errdef"

	"github.com/tribeshub/backend/pkg/model"
	"gorm.io/gorm"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db}
}

type repository struct {
	db *gorm.DB
}

func (r repository) create(ctx context.Context, user *model.User) error {
	// only use ctx for values (logging) and not cancellation signals on cud operations for now. ctx
	// cancellation can lead to rollbacks which we should decide individually.
	ctx = context.WithoutCancel(ctx)

	err := r.db.WithContext(ctx).Create(&user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("user %q already exists", user.Username)
	}

	return err
}

func (r repository) findById(ctx context.Context, id uint) (*model.User, error) {
	var u *model.User
	err := r.db.
		WithContext(ctx).
		First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find user with id %d", id)
	}
	return u, err
}

// findByEmailOrUsername resolves the sign in identifier, which can be either.
func (r repository) findByEmailOrUsername(ctx context.Context, emailOrUsername string) (*model.User, error) {
	var u *model.User
	err := r.db.
		WithContext(ctx).
		Where("email = ? OR username = ?", emailOrUsername, emailOrUsername).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find user %q", emailOrUsername)
	}
	return u, err
}

func (r repository) search(ctx context.Context, query string, limit int) ([]model.User, error) {
	var users []model.User

	pattern := "%" + query + "%"
	err := r.db.
		WithContext(ctx).
		Where("username ILIKE ? OR name ILIKE ?", pattern, pattern).
		Order("username").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %v", err)
	}

	return users, nil
}

func (r repository) updateLastLoginTime(ctx context.Context, id uint, lastLoginTime time.Time) error {
	// only use ctx for values (logging) and not cancellation signals on cud operations for now. ctx
	// cancellation can lead to rollbacks which we should decide individually.
	ctx = context.WithoutCancel(ctx)

	return r.db.
		WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("last_login_time", lastLoginTime).Error
}
