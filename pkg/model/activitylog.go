package model

import "time"

// Activity log entry types. The target interpretation depends on the type: a user
// id for signup/login, a community id for community_* entries, a conversation
// counterpart for message_sent.
const (
	ActivitySignup           = "signup"
	ActivityLogin            = "login"
	ActivityCommunityCreated = "community_created"
	ActivityCommunityJoined  = "community_joined"
	ActivityCommunityLeft    = "community_left"
	ActivityMessageSent      = "message_sent"
	ActivityPointsUpdated    = "points_updated"
	ActivityAdminAction      = "admin_action"
)

// ActivityLog is an append-only record of a significant state change. Entries are
// never mutated or deleted and are read newest first.
type ActivityLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Type      string    `gorm:"index;not null" json:"type"`
	UserID    *uint     `gorm:"index" json:"userId,omitempty"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TargetID  *uint     `json:"targetId,omitempty"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
