package model

import (
	"database/sql"
	"time"
)

// User domain object defining a user account
type User struct {
	ID            uint         `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
	Name          string       `json:"name"`
	Username      string       `gorm:"index;unique" json:"username"`
	Email         string       `gorm:"index;unique" json:"email"`
	Password      string       `json:"-"`
	Bio           string       `json:"bio"`
	ProfilePic    string       `json:"profilePic"`
	Points        int          `gorm:"default:0" json:"points"`
	LastSnapTime  sql.NullTime `json:"-"`
	LastLoginTime sql.NullTime `json:"-"`
	Administrator bool         `gorm:"default:false" json:"-"`
	Communities   []Community  `gorm:"many2many:community_members;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"communities,omitempty"`
}

func (u *User) IsAdministrator() bool {
	return u.Administrator
}
