package models

import (
	"time"
)

// ProjectStatus represents the lifecycle state of a project
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on_hold"
)

// ProjectStatuses lists the allowed values in display order
func ProjectStatuses() []ProjectStatus {
	return []ProjectStatus{ProjectActive, ProjectCompleted, ProjectOnHold}
}

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}

// Project belongs to one organization and owns tasks
type Project struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	OrganizationID uint          `json:"organization_id" gorm:"not null;index:idx_projects_org_created,priority:1" validate:"required"`
	Organization   *Organization `json:"-" gorm:"constraint:OnDelete:CASCADE;" validate:"-"`
	Name           string        `json:"name" gorm:"size:200;not null" validate:"required,max=200"`
	Description    string        `json:"description" gorm:"type:text"`
	Status         ProjectStatus `json:"status" gorm:"size:20;not null" validate:"required,project_status"`
	DueDate        *time.Time    `json:"due_date"`
	CreatedAt      time.Time     `json:"created_at" gorm:"autoCreateTime;index:idx_projects_org_created,priority:2"`
}

// TableName specifies the table name for Project Model
func (Project) TableName() string {
	return "projects"
}

// Validate re-checks field constraints before a save
func (p *Project) Validate() error {
	return validateStruct(p)
}
