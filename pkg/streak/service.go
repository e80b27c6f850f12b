// Package streak derives a rolling engagement score from message-send cadence:
// each message carrying an attachment either extends the streak or restarts it.
package streak

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tribeshub/backend/pkg/model"
)

// Window is how long a streak survives between qualifying messages.
const Window = 24 * time.Hour

func NewService(logger *slog.Logger, repository streakRepository, activityService activityService) *Service {
	return &Service{
		logger:          logger,
		repository:      repository,
		activityService: activityService,
	}
}

type streakRepository interface {
	bump(ctx context.Context, userID uint, window time.Duration) (int, bool, error)
}

type activityService interface {
	Record(ctx context.Context, entryType string, actorID *uint, targetID *uint, details string)
}

type Service struct {
	logger          *slog.Logger
	repository      streakRepository
	activityService activityService
}

// OnAttachmentSent applies the streak transition for the sender of a message
// that carried an attachment. The update is best-effort: a missing user or a
// failed update is logged and swallowed so the message send itself still
// succeeds.
func (s *Service) OnAttachmentSent(ctx context.Context, userID uint) {
	points, found, err := s.repository.bump(ctx, userID, Window)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update streak", "user", userID, "error", err)
		return
	}
	if !found {
		s.logger.WarnContext(ctx, "Streak update for unknown user", "user", userID)
		return
	}

	s.activityService.Record(ctx, model.ActivityPointsUpdated, &userID, nil, fmt.Sprintf("Points updated to %d", points))
}
