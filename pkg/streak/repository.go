package streak

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db}
}

type repository struct {
	db *gorm.DB
}

// bump applies the streak transition for one user in a single statement so
// concurrent triggers for the same user cannot lose updates: within the window
// the points increment, outside it they reset to 1. Returns the new points and
// whether the user existed.
func (r repository) bump(ctx context.Context, userID uint, window time.Duration) (int, bool, error) {
	now := time.Now()
	cutoff := now.Add(-window)

	var points int
	result := r.db.
		WithContext(ctx).
		Raw(`UPDATE users
		     SET points = CASE WHEN last_snap_time IS NOT NULL AND last_snap_time >= ? THEN points + 1 ELSE 1 END,
		         last_snap_time = ?
		     WHERE id = ?
		     RETURNING points`, cutoff, now, userID).
		Scan(&points)
	if result.Error != nil {
		return 0, false, fmt.Errorf("failed to update streak for user %d: %v", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, false, nil
	}

	return points, true, nil
}
