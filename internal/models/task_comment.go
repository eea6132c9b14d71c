package models

import (
	"time"
)

// TaskComment is a note left on a task
type TaskComment struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	TaskID      uint      `json:"task_id" gorm:"not null;index" validate:"required"`
	Task        *Task     `json:"-" gorm:"constraint:OnDelete:CASCADE;" validate:"-"`
	Content     string    `json:"content" gorm:"type:text;not null" validate:"required"`
	AuthorEmail string    `json:"author_email" gorm:"size:254;not null" validate:"required,email,max=254"`
	Timestamp   time.Time `json:"timestamp" gorm:"autoCreateTime;index"`
}

// TableName specifies the table name for TaskComment Model
func (TaskComment) TableName() string {
	return "task_comments"
}

// Validate re-checks field constraints before a save
func (c *TaskComment) Validate() error {
	return validateStruct(c)
}

// All returns every model in migration order
func All() []any {
	return []any{
		&Organization{},
		&Project{},
		&Task{},
		&TaskComment{},
	}
}
