package model

import "time"

// Community domain object defining a community
type Community struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Name        string    `gorm:"index;unique" json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	CreatedBy   uint      `json:"createdBy"`
	Creator     *User     `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Members     []User    `gorm:"many2many:community_members;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"members,omitempty"`
}
