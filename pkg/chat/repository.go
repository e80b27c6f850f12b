package chat

import (
	"context"
	"fmt"
	"time"

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

// DirectConversation summarizes the message history with one counterpart.
type DirectConversation struct {
	UserID          uint       `json:"userId"`
	Name            string     `json:"name"`
	Username        string     `json:"username"`
	ProfilePic      string     `json:"profilePic"`
	Points          int        `json:"points"`
	LastMessage     *string    `json:"lastMessage"`
	LastMessageTime *time.Time `json:"lastMessageTime"`
	UnreadCount     int        `json:"unreadCount"`
}

// CommunityConversation summarizes one community the viewer is a member of.
// Membership alone produces a row, so the last message fields are nil for a
// community without history.
type CommunityConversation struct {
	CommunityID     uint       `json:"communityId"`
	Name            string     `json:"name"`
	ImageURL        string     `json:"imageUrl"`
	LastMessage     *string    `json:"lastMessage"`
	LastMessageTime *time.Time `json:"lastMessageTime"`
	UnreadCount     int        `json:"unreadCount"`
}

func (r repository) create(ctx context.Context, message *model.ChatMessage) error {
	// only use ctx for values (logging) and not cancellation signals on cud operations for now. ctx
	// cancellation can lead to rollbacks which we should decide individually.
	ctx = context.WithoutCancel(ctx)

	err := r.db.WithContext(ctx).Create(&message).Error
	if err != nil {
		return fmt.Errorf("failed to save message: %v", err)
	}

	return nil
}

// findDirectMessages returns the full history between two users, oldest first.
func (r repository) findDirectMessages(ctx context.Context, viewerID uint, otherID uint) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage

	err := r.db.
		WithContext(ctx).
		Preload("Sender").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			viewerID, otherID, otherID, viewerID).
		Order("created_at").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find messages: %v", err)
	}

	return messages, nil
}

func (r repository) findCommunityMessages(ctx context.Context, communityID uint) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage

	err := r.db.
		WithContext(ctx).
		Preload("Sender").
		Where("community_id = ?", communityID).
		Order("created_at").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find messages: %v", err)
	}

	return messages, nil
}

// markDirectRead marks everything the counterpart sent to the viewer as read.
// The update only touches unread rows so repeating it is a no-op.
func (r repository) markDirectRead(ctx context.Context, otherID uint, viewerID uint) error {
	// only use ctx for values (logging) and not cancellation signals on cud operations for now. ctx
	// cancellation can lead to rollbacks which we should decide individually.
	ctx = context.WithoutCancel(ctx)

	err := r.db.
		WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", otherID, viewerID, false).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark messages as read: %v", err)
	}

	return nil
}

func (r repository) markCommunityRead(ctx context.Context, communityID uint, viewerID uint) error {
	// only use ctx for values (logging) and not cancellation signals on cud operations for now. ctx
	// cancellation can lead to rollbacks which we should decide individually.
	ctx = context.WithoutCancel(ctx)

	err := r.db.
		WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("community_id = ? AND sender_id != ? AND is_read = ?", communityID, viewerID, false).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark messages as read: %v", err)
	}

	return nil
}

// findDirectConversations derives the viewer's direct conversation list from
// the message history: one row per counterpart, with the latest message and
// the count of unread messages the counterpart sent.
func (r repository) findDirectConversations(ctx context.Context, viewerID uint) ([]DirectConversation, error) {
	var conversations []DirectConversation

	err := r.db.
		WithContext(ctx).
		Raw(`SELECT u.id AS user_id, u.name, u.username, u.profile_pic, u.points,
		       (SELECT message FROM chat_messages
		        WHERE (sender_id = u.id AND receiver_id = @viewer) OR (sender_id = @viewer AND receiver_id = u.id)
		        ORDER BY created_at DESC LIMIT 1) AS last_message,
		       (SELECT created_at FROM chat_messages
		        WHERE (sender_id = u.id AND receiver_id = @viewer) OR (sender_id = @viewer AND receiver_id = u.id)
		        ORDER BY created_at DESC LIMIT 1) AS last_message_time,
		       (SELECT COUNT(*) FROM chat_messages
		        WHERE sender_id = u.id AND receiver_id = @viewer AND is_read = FALSE) AS unread_count
		     FROM users u
		     WHERE u.id IN (
		       SELECT DISTINCT CASE WHEN sender_id = @viewer THEN receiver_id ELSE sender_id END
		       FROM chat_messages
		       WHERE sender_id = @viewer OR receiver_id = @viewer
		     )`, map[string]any{"viewer": viewerID}).
		Scan(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find direct conversations: %v", err)
	}

	return conversations, nil
}

// findCommunityConversations returns one row per community the viewer belongs
// to, joined through the membership table rather than the message history.
func (r repository) findCommunityConversations(ctx context.Context, viewerID uint) ([]CommunityConversation, error) {
	var conversations []CommunityConversation

	err := r.db.
		WithContext(ctx).
		Raw(`SELECT c.id AS community_id, c.name, c.image_url,
		       (SELECT message FROM chat_messages
		        WHERE community_id = c.id
		        ORDER BY created_at DESC LIMIT 1) AS last_message,
		       (SELECT created_at FROM chat_messages
		        WHERE community_id = c.id
		        ORDER BY created_at DESC LIMIT 1) AS last_message_time,
		       (SELECT COUNT(*) FROM chat_messages
		        WHERE community_id = c.id AND sender_id != @viewer AND is_read = FALSE) AS unread_count
		     FROM communities c
		     JOIN community_members cm ON c.id = cm.community_id
		     WHERE cm.user_id = @viewer`, map[string]any{"viewer": viewerID}).
		Scan(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find community conversations: %v", err)
	}

	return conversations, nil
}
