package activity

import (
	"context"
	"log/slog"

	"github.com/tribeshub/backend/pkg/model"
)

func NewService(logger *slog.Logger, repository activityRepository) *Service {
	return &Service{
		logger:     logger,
		repository: repository,
	}
}

type activityRepository interface {
	create(ctx context.Context, entry *model.ActivityLog) error
	findAll(ctx context.Context, entryType string, page int, limit int) ([]*model.ActivityLog, error)
}

type Service struct {
	logger     *slog.Logger
	repository activityRepository
}

// Record appends an activity log entry. Logging is observability, not a
// correctness requirement, so a failed append is logged and swallowed rather
// than failing the caller's primary operation.
func (s *Service) Record(ctx context.Context, entryType string, actorID *uint, targetID *uint, details string) {
	entry := &model.ActivityLog{
		Type:     entryType,
		UserID:   actorID,
		TargetID: targetID,
		Details:  details,
	}

	if err := s.repository.create(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "Failed to record activity", "type", entryType, "error", err)
	}
}

func (s *Service) FindAll(ctx context.Context, entryType string, page int, limit int) ([]*model.ActivityLog, error) {
	return s.repository.findAll(ctx, entryType, page, limit)
}
