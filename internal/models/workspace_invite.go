package models

import "time"

// WorkspaceInvite is the database half of an invitation. Acceptance is
// validated against this row, not against the token payload alone, so the
// row's expiry always matches the signed token's.
type WorkspaceInvite struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	UserID      uint64        `gorm:"uniqueIndex:idx_invite_user_workspace;not null" json:"user"`
	WorkspaceID uint64        `gorm:"uniqueIndex:idx_invite_user_workspace;not null" json:"workspaceId"`
	Token       string        `gorm:"type:varchar(512);not null" json:"-"`
	Role        WorkspaceRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	ExpiresAt   time.Time     `gorm:"not null" json:"expiresAt"`
	CreatedAt   time.Time     `json:"createdAt"`

	// Relations
	User      User      `gorm:"foreignKey:UserID" json:"userInfo,omitempty"`
	Workspace Workspace `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`
}
