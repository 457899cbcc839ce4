package models

import "time"

type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	// TaskStatusReview is accepted by the schema but no operation sets it.
	TaskStatusReview TaskStatus = "Review"
	TaskStatusDone   TaskStatus = "Done"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"_id"`
	ProjectID   uint64       `gorm:"index;not null" json:"project"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'To Do'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'Medium'" json:"priority"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	Tags        []string     `gorm:"serializer:json" json:"tags"`
	IsArchived  bool         `gorm:"not null;default:false" json:"isArchived"`
	CreatedByID uint64       `gorm:"not null" json:"createdBy"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`

	// Relations
	Project   Project        `gorm:"foreignKey:ProjectID" json:"-"`
	Assignees []TaskAssignee `gorm:"foreignKey:TaskID" json:"assignees,omitempty"`
	Watchers  []TaskWatcher  `gorm:"foreignKey:TaskID" json:"watchers,omitempty"`
	SubTasks  []SubTask      `gorm:"foreignKey:TaskID" json:"subTasks,omitempty"`
	Comments  []Comment      `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
}
