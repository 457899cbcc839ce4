package models

import "time"

// SubTask completion never cascades to the parent task's status.
type SubTask struct {
	ID        uint64    `gorm:"primarykey" json:"_id"`
	TaskID    uint64    `gorm:"index;not null" json:"taskId"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}
