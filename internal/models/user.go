package models

import (
	"time"
)

type User struct {
	ID              uint64     `gorm:"primarykey" json:"_id"`
	Name            string     `gorm:"type:varchar(255);not null" json:"name"`
	Email           string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash    string     `gorm:"type:varchar(255);not null" json:"-"`
	ProfilePicture  string     `gorm:"type:varchar(512)" json:"profilePicture,omitempty"`
	IsEmailVerified bool       `gorm:"not null;default:false" json:"isEmailVerified"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	// Relations
	Memberships []WorkspaceMember `gorm:"foreignKey:UserID" json:"-"`
}
