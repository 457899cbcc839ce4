package models

import "time"

// Verification is a single-use token record backing the email-verification
// and password-reset flows. At most one live row exists per user; the row is
// deleted once consumed or superseded.
type Verification struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"index;not null" json:"userId"`
	Token     string    `gorm:"type:varchar(512);not null" json:"-"`
	Purpose   string    `gorm:"type:varchar(50);not null" json:"purpose"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
