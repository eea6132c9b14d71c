package models

import "time"

// Organization is the tenant root; it owns projects and everything below them
type Organization struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:100;not null" validate:"required,max=100"`
	Slug         string    `json:"slug" gorm:"size:50;not null;uniqueIndex" validate:"required,max=50,slug"`
	ContactEmail string    `json:"contact_email" gorm:"size:254;not null" validate:"required,email,max=254"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName specifies the table name for Organization Model
func (Organization) TableName() string {
	return "organizations"
}

// Validate re-checks field constraints before a save
func (o *Organization) Validate() error {
	return validateStruct(o)
}
