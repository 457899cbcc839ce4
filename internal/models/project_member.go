package models

import "time"

type ProjectRole string

const (
	ProjectRoleManager     ProjectRole = "manager"
	ProjectRoleContributor ProjectRole = "contributor"
	ProjectRoleViewer      ProjectRole = "viewer"
)

type ProjectMember struct {
	ProjectID uint64      `gorm:"primarykey" json:"projectId"`
	UserID    uint64      `gorm:"primarykey" json:"user"`
	Role      ProjectRole `gorm:"type:varchar(20);not null;default:'contributor'" json:"role"`
	JoinedAt  time.Time   `json:"joinedAt"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
	User    User    `gorm:"foreignKey:UserID" json:"userInfo,omitempty"`
}
