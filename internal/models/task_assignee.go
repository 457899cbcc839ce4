package models

import "time"

// TaskAssignee carries a Position so that the assignee list round-trips in
// the order of the latest update-assignees call.
type TaskAssignee struct {
	TaskID    uint64    `gorm:"primarykey" json:"taskId"`
	UserID    uint64    `gorm:"primarykey" json:"user"`
	Position  int       `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time `json:"createdAt"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"userInfo,omitempty"`
}

type TaskWatcher struct {
	TaskID    uint64    `gorm:"primarykey" json:"taskId"`
	UserID    uint64    `gorm:"primarykey" json:"user"`
	CreatedAt time.Time `json:"createdAt"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"userInfo,omitempty"`
}
