package models

import (
	"time"

	"gorm.io/datatypes"
)

type Comment struct {
	ID          uint64         `gorm:"primarykey" json:"_id"`
	TaskID      uint64         `gorm:"index;not null" json:"task"`
	AuthorID    uint64         `gorm:"not null" json:"-"`
	Text        string         `gorm:"type:text;not null" json:"text"`
	IsEdited    bool           `gorm:"not null;default:false" json:"isEdited"`
	Mentions    datatypes.JSON `json:"mentions,omitempty"`
	Reactions   datatypes.JSON `json:"reactions,omitempty"`
	Attachments datatypes.JSON `json:"attachments,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`

	// Relations
	Task   Task `gorm:"foreignKey:TaskID" json:"-"`
	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
