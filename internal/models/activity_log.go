package models

import "time"

type ActionType string

const (
	ActionCreatedWorkspace ActionType = "created_workspace"
	ActionUpdatedWorkspace ActionType = "updated_workspace"
	ActionJoinedWorkspace  ActionType = "joined_workspace"
	ActionAddedMember      ActionType = "added_member"
	ActionRemovedMember    ActionType = "removed_member"
	ActionCreatedProject   ActionType = "created_project"
	ActionUpdatedProject   ActionType = "updated_project"
	ActionCreatedTask      ActionType = "created_task"
	ActionUpdatedTask      ActionType = "updated_task"
	ActionCompletedTask    ActionType = "completed_task"
	ActionCreatedSubtask   ActionType = "created_subtask"
	ActionUpdatedSubtask   ActionType = "updated_subtask"
	ActionAddedComment     ActionType = "added_comment"
)

type ResourceType string

const (
	ResourceWorkspace ResourceType = "Workspace"
	ResourceProject   ResourceType = "Project"
	ResourceTask      ResourceType = "Task"
	ResourceUser      ResourceType = "User"
	ResourceComment   ResourceType = "Comment"
)

// ActivityDetails carries only the fields relevant to its action; unused
// fields are omitted from the stored JSON.
type ActivityDetails struct {
	Description string `json:"description,omitempty"`
	Field       string `json:"field,omitempty"`
	OldValue    string `json:"oldValue,omitempty"`
	NewValue    string `json:"newValue,omitempty"`
	MemberID    uint64 `json:"memberId,omitempty"`
	Role        string `json:"role,omitempty"`
}

// ActivityLog rows are append-only: never updated or deleted.
type ActivityLog struct {
	ID           uint64          `gorm:"primarykey" json:"_id"`
	UserID       uint64          `gorm:"not null" json:"-"`
	Action       ActionType      `gorm:"type:varchar(50);not null" json:"action"`
	ResourceType ResourceType    `gorm:"type:varchar(20);not null" json:"resourceType"`
	ResourceID   uint64          `gorm:"index;not null" json:"resourceId"`
	Details      ActivityDetails `gorm:"serializer:json" json:"details"`
	CreatedAt    time.Time       `json:"createdAt"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
