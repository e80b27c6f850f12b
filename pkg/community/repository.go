package community

import (
	"context"
	"errors"
	"fmt"

	"github.com/tribeshub/backend/internal/errdef"
	"github.com/tribeshub/backend/pkg/model"

	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{
		db: db,
	}
}

func (r repository) create(ctx context.Context, community *model.Community) error {
	// only use ctx for values (logging) and not cancellation signals on cud operations for now. ctx
	// cancellation can lead to rollbacks which we should decide individually.
	ctx = context.WithoutCancel(ctx)

	err := r.db.WithContext(ctx).Create(&community).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("community %q already exists", community.Name)
	}

	return err
}

func (r repository) find(ctx context.Context, id uint) (*model.Community, error) {
	var community *model.Community
	err := r.db.
		WithContext(ctx).
		Preload("Creator").
		First(&community, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("community %d doesn't exist", id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find community: %v", err)
	}

	return community, nil
}

func (r repository) findAll(ctx context.Context) ([]model.Community, error) {
	var communities []model.Community
	err := r.db.
		WithContext(ctx).
		Preload("Creator").
		Order("created_at DESC").
		Find(&communities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find all communities: %v", err)
	}

	return communities, nil
}

func (r repository) findMembers(ctx context.Context, id uint) ([]model.User, error) {
	community, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}

	var members []model.User
	err = r.db.
		WithContext(ctx).
		Model(community).
		Association("Members").
		Find(&members)
	if err != nil {
		return nil, fmt.Errorf("failed to find members of community %d: %v", id, err)
	}

	return members, nil
}

func (r repository) addMember(ctx context.Context, community *model.Community, user *model.User) error {
	// only use ctx for values (logging) and not cancellation signals on cud operations for now. ctx
	// cancellation can lead to rollbacks which we should decide individually.
	ctx = context.WithoutCancel(ctx)

	return r.db.
		WithContext(ctx).
		Model(community).
		Association("Members").
		Append(user)
}

func (r repository) removeMember(ctx context.Context, community *model.Community, user *model.User) error {
	// only use ctx for values (logging) and not cancellation signals on cud operations for now. ctx
	// cancellation can lead to rollbacks which we should decide individually.
	ctx = context.WithoutCancel(ctx)

	return r.db.
		WithContext(ctx).
		Model(community).
		Association("Members").
		Delete(user)
}

func (r repository) isMember(ctx context.Context, communityID uint, userID uint) (bool, error) {
	var count int64
	err := r.db.
		WithContext(ctx).
		Table("community_members").
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check membership of user %d in community %d: %v", userID, communityID, err)
	}

	return count > 0, nil
}
