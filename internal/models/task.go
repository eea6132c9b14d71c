package models

import (
	"time"
)

// TaskStatus represents the status of a task
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// TaskStatuses lists the allowed values in display order
func TaskStatuses() []TaskStatus {
	return []TaskStatus{StatusTodo, StatusInProgress, StatusDone}
}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task represents a unit of work inside a project
type Task struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	ProjectID     uint       `json:"project_id" gorm:"not null;index:idx_tasks_project_created,priority:1" validate:"required"`
	Project       *Project   `json:"-" gorm:"constraint:OnDelete:CASCADE;" validate:"-"`
	Title         string     `json:"title" gorm:"size:200;not null" validate:"required,max=200"`
	Description   string     `json:"description" gorm:"type:text"`
	Status        TaskStatus `json:"status" gorm:"size:20;not null;index" validate:"required,task_status"`
	AssigneeEmail string     `json:"assignee_email" gorm:"size:254" validate:"omitempty,email,max=254"`
	DueDate       *time.Time `json:"due_date"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime;index:idx_tasks_project_created,priority:2"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// Validate re-checks field constraints before a save
func (t *Task) Validate() error {
	return validateStruct(t)
}
