package model

import "time"

// ChatMessage is a single message in either a direct or a community conversation.
// Exactly one of ReceiverID and CommunityID is set. Rows are immutable apart from
// the read flag.
type ChatMessage struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	SenderID    uint      `gorm:"index;not null" json:"senderId"`
	Sender      *User     `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	ReceiverID  *uint     `gorm:"index" json:"receiverId,omitempty"`
	CommunityID *uint     `gorm:"index" json:"communityId,omitempty"`
	Message     string    `json:"message"`
	ImageURL    string    `json:"imageUrl"`
	IsRead      bool      `gorm:"default:false" json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
