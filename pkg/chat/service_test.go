package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/tribeshub/backend/internal/errdef"
	"github.com/tribeshub/backend/pkg/model"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_SendMessageRequiresBodyOrAttachment(t *testing.T) {
	service, mocks := newTestService()

	_, err := service.SendMessage(context.Background(), &model.User{ID: 1}, DirectScope(2), "", nil)

	require.ErrorContains(t, err, "message or image is required")
	require.True(t, errdef.IsBadRequest(err))
	mocks.repository.AssertNotCalled(t, "create", mock.Anything, mock.Anything)
}

func TestService_SendDirectMessage(t *testing.T) {
	sender := &model.User{ID: 1, Username: "somebody"}
	receiver := &model.User{ID: 2}

	service, mocks := newTestService()
	mocks.userService.
		On("FindById", mock.Anything, uint(2)).
		Return(receiver, nil)
	mocks.repository.
		On("create", mock.Anything, mock.AnythingOfType("*model.ChatMessage")).
		Run(func(args mock.Arguments) {
			message := args.Get(1).(*model.ChatMessage)
			message.ID = 9
		}).
		Return(nil)
	mocks.broker.
		On("Broadcast", "user_2", "newMessage", mock.AnythingOfType("*model.ChatMessage"))
	mocks.activityService.
		On("Record", mock.Anything, model.ActivityMessageSent, mock.Anything, mock.Anything, "Message sent")

	message, err := service.SendMessage(context.Background(), sender, DirectScope(2), "hey", nil)

	require.NoError(t, err)
	require.Equal(t, uint(9), message.ID)
	require.Equal(t, uint(1), message.SenderID)
	require.NotNil(t, message.ReceiverID)
	require.Equal(t, uint(2), *message.ReceiverID)
	require.Nil(t, message.CommunityID)
	require.Equal(t, sender, message.Sender)
	mocks.repository.AssertExpectations(t)
	mocks.broker.AssertExpectations(t)
	mocks.activityService.AssertExpectations(t)
	mocks.streakService.AssertNotCalled(t, "OnAttachmentSent", mock.Anything, mock.Anything)
}

func TestService_SendCommunityMessage(t *testing.T) {
	sender := &model.User{ID: 1}
	community := &model.Community{ID: 5}

	service, mocks := newTestService()
	mocks.communityService.
		On("Find", mock.Anything, uint(5)).
		Return(community, nil)
	mocks.repository.
		On("create", mock.Anything, mock.AnythingOfType("*model.ChatMessage")).
		Return(nil)
	mocks.broker.
		On("Broadcast", "community_5", "newCommunityMessage", mock.AnythingOfType("*model.ChatMessage"))
	mocks.activityService.
		On("Record", mock.Anything, model.ActivityMessageSent, mock.Anything, mock.Anything, "Message sent")

	message, err := service.SendMessage(context.Background(), sender, CommunityScope(5), "hey all", nil)

	require.NoError(t, err)
	require.NotNil(t, message.CommunityID)
	require.Equal(t, uint(5), *message.CommunityID)
	require.Nil(t, message.ReceiverID)
	mocks.broker.AssertExpectations(t)
}

func TestService_SendMessageUnknownReceiver(t *testing.T) {
	service, mocks := newTestService()
	mocks.userService.
		On("FindById", mock.Anything, uint(2)).
		Return(nil, errdef.NewNotFound("user not found"))

	_, err := service.SendMessage(context.Background(), &model.User{ID: 1}, DirectScope(2), "hey", nil)

	require.True(t, errdef.IsNotFound(err))
	mocks.repository.AssertNotCalled(t, "create", mock.Anything, mock.Anything)
}

func TestService_SendMessageWithAttachment(t *testing.T) {
	sender := &model.User{ID: 1}
	receiver := &model.User{ID: 2}

	service, mocks := newTestService()
	mocks.userService.
		On("FindById", mock.Anything, uint(2)).
		Return(receiver, nil)
	mocks.attachmentStore.
		On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "chat/1/") && strings.HasSuffix(key, ".png")
		}), mock.Anything, "image/png").
		Return("https://cdn.example.com/chat/1/abc.png", nil)
	mocks.repository.
		On("create", mock.Anything, mock.AnythingOfType("*model.ChatMessage")).
		Return(nil)
	mocks.streakService.
		On("OnAttachmentSent", mock.Anything, uint(1))
	mocks.broker.
		On("Broadcast", "user_2", "newMessage", mock.AnythingOfType("*model.ChatMessage"))
	mocks.activityService.
		On("Record", mock.Anything, model.ActivityMessageSent, mock.Anything, mock.Anything, "Message sent")

	attachment := &Attachment{
		Filename:    "snap.png",
		ContentType: "image/png",
		Body:        strings.NewReader("image-bytes"),
	}
	message, err := service.SendMessage(context.Background(), sender, DirectScope(2), "", attachment)

	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/chat/1/abc.png", message.ImageURL)
	mocks.attachmentStore.AssertExpectations(t)
	mocks.streakService.AssertExpectations(t)
}

func TestService_SendMessageUploadFailureAbortsSend(t *testing.T) {
	service, mocks := newTestService()
	mocks.userService.
		On("FindById", mock.Anything, uint(2)).
		Return(&model.User{ID: 2}, nil)
	mocks.attachmentStore.
		On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errdef.NewUnavailable("failed to upload attachment"))

	attachment := &Attachment{
		Filename:    "snap.png",
		ContentType: "image/png",
		Body:        strings.NewReader("image-bytes"),
	}
	_, err := service.SendMessage(context.Background(), &model.User{ID: 1}, DirectScope(2), "", attachment)

	require.True(t, errdef.IsUnavailable(err))
	mocks.repository.AssertNotCalled(t, "create", mock.Anything, mock.Anything)
	mocks.broker.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SendMessagePersistenceFailureAbortsSend(t *testing.T) {
	service, mocks := newTestService()
	mocks.userService.
		On("FindById", mock.Anything, uint(2)).
		Return(&model.User{ID: 2}, nil)
	mocks.repository.
		On("create", mock.Anything, mock.Anything).
		Return(errors.New("connection reset"))

	_, err := service.SendMessage(context.Background(), &model.User{ID: 1}, DirectScope(2), "hey", nil)

	require.ErrorContains(t, err, "connection reset")
	mocks.broker.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything, mock.Anything)
	mocks.streakService.AssertNotCalled(t, "OnAttachmentSent", mock.Anything, mock.Anything)
	mocks.activityService.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_GetMessagesDirectMarksRead(t *testing.T) {
	viewer := &model.User{ID: 1}
	history := []model.ChatMessage{{ID: 3}, {ID: 4}}

	service, mocks := newTestService()
	mocks.repository.
		On("findDirectMessages", mock.Anything, uint(1), uint(2)).
		Return(history, nil)
	mocks.repository.
		On("markDirectRead", mock.Anything, uint(2), uint(1)).
		Return(nil)

	messages, err := service.GetMessages(context.Background(), viewer, DirectScope(2))

	require.NoError(t, err)
	require.Equal(t, history, messages)
	mocks.repository.AssertExpectations(t)
}

func TestService_GetMessagesCommunityMarksRead(t *testing.T) {
	viewer := &model.User{ID: 1}

	service, mocks := newTestService()
	mocks.repository.
		On("findCommunityMessages", mock.Anything, uint(5)).
		Return([]model.ChatMessage{}, nil)
	mocks.repository.
		On("markCommunityRead", mock.Anything, uint(5), uint(1)).
		Return(nil)

	_, err := service.GetMessages(context.Background(), viewer, CommunityScope(5))

	require.NoError(t, err)
	mocks.repository.AssertExpectations(t)
}

func TestService_GetMessagesMarkReadFailureDoesNotFailRead(t *testing.T) {
	viewer := &model.User{ID: 1}
	history := []model.ChatMessage{{ID: 3}}

	service, mocks := newTestService()
	mocks.repository.
		On("findDirectMessages", mock.Anything, uint(1), uint(2)).
		Return(history, nil)
	mocks.repository.
		On("markDirectRead", mock.Anything, uint(2), uint(1)).
		Return(errors.New("connection reset"))

	messages, err := service.GetMessages(context.Background(), viewer, DirectScope(2))

	require.NoError(t, err)
	require.Equal(t, history, messages)
}

func TestService_GetConversations(t *testing.T) {
	viewer := &model.User{ID: 1}
	direct := []DirectConversation{{UserID: 2, Username: "somebody", UnreadCount: 3}}
	communities := []CommunityConversation{{CommunityID: 5, Name: "gophers"}}

	service, mocks := newTestService()
	mocks.repository.
		On("findDirectConversations", mock.Anything, uint(1)).
		Return(direct, nil)
	mocks.repository.
		On("findCommunityConversations", mock.Anything, uint(1)).
		Return(communities, nil)

	conversations, err := service.GetConversations(context.Background(), viewer)

	require.NoError(t, err)
	require.Equal(t, direct, conversations.DirectMessages)
	require.Equal(t, communities, conversations.CommunityMessages)
}

func TestParseScope(t *testing.T) {
	scope, err := ParseScope("user", 2)
	require.NoError(t, err)
	require.Equal(t, DirectScope(2), scope)

	scope, err = ParseScope("community", 5)
	require.NoError(t, err)
	require.Equal(t, CommunityScope(5), scope)

	_, err = ParseScope("group", 5)
	require.True(t, errdef.IsBadRequest(err))
	require.ErrorContains(t, err, "invalid conversation type")
}

type testMocks struct {
	repository       *mockChatRepository
	userService      *mockUserService
	communityService *mockCommunityService
	attachmentStore  *mockAttachmentStore
	streakService    *mockStreakService
	activityService  *mockActivityService
	broker           *mockBroker
}

func newTestService() (*Service, *testMocks) {
	mocks := &testMocks{
		repository:       &mockChatRepository{},
		userService:      &mockUserService{},
		communityService: &mockCommunityService{},
		attachmentStore:  &mockAttachmentStore{},
		streakService:    &mockStreakService{},
		activityService:  &mockActivityService{},
		broker:           &mockBroker{},
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	service := NewService(logger, mocks.repository, mocks.userService, mocks.communityService,
		mocks.attachmentStore, mocks.streakService, mocks.activityService, mocks.broker)
	return service, mocks
}

type mockChatRepository struct{ mock.Mock }

func (m *mockChatRepository) create(ctx context.Context, message *model.ChatMessage) error {
	called := m.Called(ctx, message)
	return called.Error(0)
}

func (m *mockChatRepository) findDirectMessages(ctx context.Context, viewerID uint, otherID uint) ([]model.ChatMessage, error) {
	called := m.Called(ctx, viewerID, otherID)
	messages, _ := called.Get(0).([]model.ChatMessage)
	return messages, called.Error(1)
}

func (m *mockChatRepository) findCommunityMessages(ctx context.Context, communityID uint) ([]model.ChatMessage, error) {
	called := m.Called(ctx, communityID)
	messages, _ := called.Get(0).([]model.ChatMessage)
	return messages, called.Error(1)
}

func (m *mockChatRepository) markDirectRead(ctx context.Context, otherID uint, viewerID uint) error {
	called := m.Called(ctx, otherID, viewerID)
	return called.Error(0)
}

func (m *mockChatRepository) markCommunityRead(ctx context.Context, communityID uint, viewerID uint) error {
	called := m.Called(ctx, communityID, viewerID)
	return called.Error(0)
}

func (m *mockChatRepository) findDirectConversations(ctx context.Context, viewerID uint) ([]DirectConversation, error) {
	called := m.Called(ctx, viewerID)
	conversations, _ := called.Get(0).([]DirectConversation)
	return conversations, called.Error(1)
}

func (m *mockChatRepository) findCommunityConversations(ctx context.Context, viewerID uint) ([]CommunityConversation, error) {
	called := m.Called(ctx, viewerID)
	conversations, _ := called.Get(0).([]CommunityConversation)
	return conversations, called.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) FindById(ctx context.Context, id uint) (*model.User, error) {
	called := m.Called(ctx, id)
	user, _ := called.Get(0).(*model.User)
	return user, called.Error(1)
}

type mockCommunityService struct{ mock.Mock }

func (m *mockCommunityService) Find(ctx context.Context, id uint) (*model.Community, error) {
	called := m.Called(ctx, id)
	community, _ := called.Get(0).(*model.Community)
	return community, called.Error(1)
}

type mockAttachmentStore struct{ mock.Mock }

func (m *mockAttachmentStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	called := m.Called(ctx, key, body, contentType)
	return called.String(0), called.Error(1)
}

type mockStreakService struct{ mock.Mock }

func (m *mockStreakService) OnAttachmentSent(ctx context.Context, userID uint) {
	m.Called(ctx, userID)
}

type mockActivityService struct{ mock.Mock }

func (m *mockActivityService) Record(ctx context.Context, entryType string, actorID *uint, targetID *uint, details string) {
	m.Called(ctx, entryType, actorID, targetID, details)
}

type mockBroker struct{ mock.Mock }

func (m *mockBroker) Broadcast(channel string, name string, payload any) {
	m.Called(channel, name, payload)
}
