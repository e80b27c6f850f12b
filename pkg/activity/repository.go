package activity

import (
	"context"
	"fmt"

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

func (r repository) create(ctx context.Context, entry *model.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// findAll returns entries newest first, optionally filtered by type.
func (r repository) findAll(ctx context.Context, entryType string, page int, limit int) ([]*model.ActivityLog, error) {
	var entries []*model.ActivityLog

	query := r.db.
		WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit)
	if entryType != "" {
		query = query.Where("type = ?", entryType)
	}

	err := query.Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find activity log entries: %v", err)
	}

	return entries, nil
}
