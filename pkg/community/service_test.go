package community

import (
	"context"
	"testing"

	"github.com/tribeshub/backend/internal/errdef"
	"github.com/tribeshub/backend/pkg/model"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_Create(t *testing.T) {
	creator := &model.User{
		ID:       1,
		Username: "somebody",
	}

	repository := &mockCommunityRepository{}
	repository.
		On("create", mock.Anything, mock.AnythingOfType("*model.Community")).
		Run(func(args mock.Arguments) {
			community := args.Get(1).(*model.Community)
			community.ID = 7
		}).
		Return(nil)
	activityService := &mockActivityService{}
	activityService.
		On("Record", mock.Anything, model.ActivityCommunityCreated, mock.Anything, mock.Anything, "New community created")
	service := NewService(repository, activityService)

	community, err := service.Create(context.Background(), creator, "gophers", "a place to talk Go", "")

	require.NoError(t, err)
	require.Equal(t, uint(7), community.ID)
	require.Equal(t, uint(1), community.CreatedBy)
	require.Len(t, community.Members, 1)
	require.Equal(t, creator.ID, community.Members[0].ID)
	repository.AssertExpectations(t)
	activityService.AssertExpectations(t)
}

func TestService_Join(t *testing.T) {
	user := &model.User{ID: 2}
	community := &model.Community{ID: 5, Name: "gophers"}

	repository := &mockCommunityRepository{}
	repository.
		On("find", mock.Anything, uint(5)).
		Return(community, nil)
	repository.
		On("isMember", mock.Anything, uint(5), uint(2)).
		Return(false, nil)
	repository.
		On("addMember", mock.Anything, community, user).
		Return(nil)
	activityService := &mockActivityService{}
	activityService.
		On("Record", mock.Anything, model.ActivityCommunityJoined, mock.Anything, mock.Anything, "Joined community")
	service := NewService(repository, activityService)

	err := service.Join(context.Background(), 5, user)

	require.NoError(t, err)
	repository.AssertExpectations(t)
	activityService.AssertExpectations(t)
}

func TestService_JoinAlreadyMember(t *testing.T) {
	user := &model.User{ID: 2}
	community := &model.Community{ID: 5}

	repository := &mockCommunityRepository{}
	repository.
		On("find", mock.Anything, uint(5)).
		Return(community, nil)
	repository.
		On("isMember", mock.Anything, uint(5), uint(2)).
		Return(true, nil)
	activityService := &mockActivityService{}
	service := NewService(repository, activityService)

	err := service.Join(context.Background(), 5, user)

	require.ErrorContains(t, err, "already a member")
	require.True(t, errdef.IsDuplicated(err))
	repository.AssertNotCalled(t, "addMember", mock.Anything, mock.Anything, mock.Anything)
	activityService.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_LeaveNotAMember(t *testing.T) {
	user := &model.User{ID: 2}
	community := &model.Community{ID: 5}

	repository := &mockCommunityRepository{}
	repository.
		On("find", mock.Anything, uint(5)).
		Return(community, nil)
	repository.
		On("isMember", mock.Anything, uint(5), uint(2)).
		Return(false, nil)
	activityService := &mockActivityService{}
	service := NewService(repository, activityService)

	err := service.Leave(context.Background(), 5, user)

	require.ErrorContains(t, err, "not a member")
	require.True(t, errdef.IsNotFound(err))
	repository.AssertNotCalled(t, "removeMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Leave(t *testing.T) {
	user := &model.User{ID: 2}
	community := &model.Community{ID: 5}

	repository := &mockCommunityRepository{}
	repository.
		On("find", mock.Anything, uint(5)).
		Return(community, nil)
	repository.
		On("isMember", mock.Anything, uint(5), uint(2)).
		Return(true, nil)
	repository.
		On("removeMember", mock.Anything, community, user).
		Return(nil)
	activityService := &mockActivityService{}
	activityService.
		On("Record", mock.Anything, model.ActivityCommunityLeft, mock.Anything, mock.Anything, "Left community")
	service := NewService(repository, activityService)

	err := service.Leave(context.Background(), 5, user)

	require.NoError(t, err)
	repository.AssertExpectations(t)
	activityService.AssertExpectations(t)
}

type mockCommunityRepository struct{ mock.Mock }

func (m *mockCommunityRepository) create(ctx context.Context, community *model.Community) error {
	called := m.Called(ctx, community)
	return called.Error(0)
}

func (m *mockCommunityRepository) find(ctx context.Context, id uint) (*model.Community, error) {
	called := m.Called(ctx, id)
	community, _ := called.Get(0).(*model.Community)
	return community, called.Error(1)
}

func (m *mockCommunityRepository) findAll(ctx context.Context) ([]model.Community, error) {
	called := m.Called(ctx)
	communities, _ := called.Get(0).([]model.Community)
	return communities, called.Error(1)
}

func (m *mockCommunityRepository) findMembers(ctx context.Context, id uint) ([]model.User, error) {
	called := m.Called(ctx, id)
	members, _ := called.Get(0).([]model.User)
	return members, called.Error(1)
}

func (m *mockCommunityRepository) addMember(ctx context.Context, community *model.Community, user *model.User) error {
	called := m.Called(ctx, community, user)
	return called.Error(0)
}

func (m *mockCommunityRepository) removeMember(ctx context.Context, community *model.Community, user *model.User) error {
	called := m.Called(ctx, community, user)
	return called.Error(0)
}

func (m *mockCommunityRepository) isMember(ctx context.Context, communityID uint, userID uint) (bool, error) {
	called := m.Called(ctx, communityID, userID)
	return called.Bool(0), called.Error(1)
}

type mockActivityService struct{ mock.Mock }

func (m *mockActivityService) Record(ctx context.Context, entryType string, actorID *uint, targetID *uint, details string) {
	m.Called(ctx, entryType, actorID, targetID, details)
}
