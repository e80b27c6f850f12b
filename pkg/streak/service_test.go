package streak

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/tribeshub/backend/pkg/model"

	"github.com/stretchr/testify/mock"
)

func TestService_OnAttachmentSent(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	userID := uint(42)
	repository := &mockRepository{}
	repository.
		On("bump", mock.Anything, userID, Window).
		Return(5, true, nil)
	activityService := &mockActivityService{}
	activityService.
		On("Record", mock.Anything, model.ActivityPointsUpdated, &userID, (*uint)(nil), "Points updated to 5")
	service := NewService(logger, repository, activityService)

	service.OnAttachmentSent(context.Background(), userID)

	repository.AssertExpectations(t)
	activityService.AssertExpectations(t)
}

func TestService_OnAttachmentSent_UnknownUser(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repository := &mockRepository{}
	repository.
		On("bump", mock.Anything, uint(42), Window).
		Return(0, false, nil)
	activityService := &mockActivityService{}
	service := NewService(logger, repository, activityService)

	// silent no-op, nothing recorded
	service.OnAttachmentSent(context.Background(), 42)

	repository.AssertExpectations(t)
	activityService.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_OnAttachmentSent_RepositoryError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repository := &mockRepository{}
	repository.
		On("bump", mock.Anything, uint(42), Window).
		Return(0, false, errors.New("datastore down"))
	activityService := &mockActivityService{}
	service := NewService(logger, repository, activityService)

	service.OnAttachmentSent(context.Background(), 42)

	repository.AssertExpectations(t)
	activityService.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

type mockRepository struct{ mock.Mock }

func (m *mockRepository) bump(ctx context.Context, userID uint, window time.Duration) (int, bool, error) {
	called := m.Called(ctx, userID, window)
	return called.Int(0), called.Bool(1), called.Error(2)
}

type mockActivityService struct{ mock.Mock }

func (m *mockActivityService) Record(ctx context.Context, entryType string, actorID *uint, targetID *uint, details string) {
	m.Called(ctx, entryType, actorID, targetID, details)
}
