package chat

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/tribeshub/backend/internal/errdef"
	"github.com/tribeshub/backend/pkg/model"
	"github.com/tribeshub/backend/pkg/realtime"

	"github.com/google/uuid"
)

func NewService(
	logger *slog.Logger,
	repository chatRepository,
	userService userService,
	communityService communityService,
	attachmentStore attachmentStore,
	streakService streakService,
	activityService activityService,
	broker broker,
) *Service {
	return &Service{
		logger:           logger,
		repository:       repository,
		userService:      userService,
		communityService: communityService,
		attachmentStore:  attachmentStore,
		streakService:    streakService,
		activityService:  activityService,
		broker:           broker,
	}
}

type chatRepository interface {
	create(ctx context.Context, message *model.ChatMessage) error
	findDirectMessages(ctx context.Context, viewerID uint, otherID uint) ([]model.ChatMessage, error)
	findCommunityMessages(ctx context.Context, communityID uint) ([]model.ChatMessage, error)
	markDirectRead(ctx context.Context, otherID uint, viewerID uint) error
	markCommunityRead(ctx context.Context, communityID uint, viewerID uint) error
	findDirectConversations(ctx context.Context, viewerID uint) ([]DirectConversation, error)
	findCommunityConversations(ctx context.Context, viewerID uint) ([]CommunityConversation, error)
}

type userService interface {
	FindById(ctx context.Context, id uint) (*model.User, error)
}

type communityService interface {
	Find(ctx context.Context, id uint) (*model.Community, error)
}

type attachmentStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

type streakService interface {
	OnAttachmentSent(ctx context.Context, userID uint)
}

type activityService interface {
	Record(ctx context.Context, entryType string, actorID *uint, targetID *uint, details string)
}

type broker interface {
	Broadcast(channel string, name string, payload any)
}

type Service struct {
	logger           *slog.Logger
	repository       chatRepository
	userService      userService
	communityService communityService
	attachmentStore  attachmentStore
	streakService    streakService
	activityService  activityService
	broker           broker
}

// Attachment is an image uploaded alongside a message.
type Attachment struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Conversations is the viewer's conversation list, direct and community side
// by side.
type Conversations struct {
	DirectMessages    []DirectConversation    `json:"directMessages"`
	CommunityMessages []CommunityConversation `json:"communityMessages"`
}

// SendMessage runs the whole send pipeline. The attachment is uploaded before
// the message is persisted so a failed upload aborts the send. Everything after
// persistence is best-effort: scoring, broadcast and the activity entry cannot
// fail the send.
func (s *Service) SendMessage(ctx context.Context, sender *model.User, scope Scope, body string, attachment *Attachment) (*model.ChatMessage, error) {
	if body == "" && attachment == nil {
		return nil, errdef.NewBadRequest("message or image is required")
	}

	message := &model.ChatMessage{
		SenderID: sender.ID,
		Message:  body,
	}
	switch scope.Kind {
	case ScopeDirect:
		receiver, err := s.userService.FindById(ctx, scope.ID)
		if err != nil {
			return nil, err
		}
		message.ReceiverID = &receiver.ID
	case ScopeCommunity:
		community, err := s.communityService.Find(ctx, scope.ID)
		if err != nil {
			return nil, err
		}
		message.CommunityID = &community.ID
	default:
		return nil, errdef.NewBadRequest("invalid conversation type %q", scope.Kind)
	}

	if attachment != nil {
		key := fmt.Sprintf("chat/%d/%s%s", sender.ID, uuid.NewString(), path.Ext(attachment.Filename))
		imageURL, err := s.attachmentStore.Upload(ctx, key, attachment.Body, attachment.ContentType)
		if err != nil {
			return nil, err
		}
		message.ImageURL = imageURL
	}

	err := s.repository.create(ctx, message)
	if err != nil {
		return nil, err
	}
	message.Sender = sender

	if message.ImageURL != "" {
		s.streakService.OnAttachmentSent(ctx, sender.ID)
	}

	switch scope.Kind {
	case ScopeDirect:
		s.broker.Broadcast(realtime.UserChannel(scope.ID), "newMessage", message)
	case ScopeCommunity:
		s.broker.Broadcast(realtime.CommunityChannel(scope.ID), "newCommunityMessage", message)
	}

	s.activityService.Record(ctx, model.ActivityMessageSent, &sender.ID, &scope.ID, "Message sent")

	return message, nil
}

// GetMessages returns the scope's history oldest first and marks the messages
// the viewer had not read yet. A failed mark is logged but does not fail the
// read.
func (s *Service) GetMessages(ctx context.Context, viewer *model.User, scope Scope) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	var err error

	switch scope.Kind {
	case ScopeDirect:
		messages, err = s.repository.findDirectMessages(ctx, viewer.ID, scope.ID)
		if err != nil {
			return nil, err
		}
		err = s.repository.markDirectRead(ctx, scope.ID, viewer.ID)
	case ScopeCommunity:
		messages, err = s.repository.findCommunityMessages(ctx, scope.ID)
		if err != nil {
			return nil, err
		}
		err = s.repository.markCommunityRead(ctx, scope.ID, viewer.ID)
	default:
		return nil, errdef.NewBadRequest("invalid conversation type %q", scope.Kind)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to mark messages as read", "viewer", viewer.ID, "error", err)
	}

	return messages, nil
}

func (s *Service) GetConversations(ctx context.Context, viewer *model.User) (*Conversations, error) {
	directMessages, err := s.repository.findDirectConversations(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	communityMessages, err := s.repository.findCommunityConversations(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	return &Conversations{
		DirectMessages:    directMessages,
		CommunityMessages: communityMessages,
	}, nil
}
