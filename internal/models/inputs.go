package models

import "time"

// Cleaned field sets produced by the validators and consumed by the services.
// In the *Patch types a nil pointer means "leave unchanged".

type OrganizationInput struct {
	Name         string
	Slug         string
	ContactEmail string
}

type OrganizationPatch struct {
	Name         *string
	Slug         *string
	ContactEmail *string
}

func (p OrganizationPatch) IsEmpty() bool {
	return p.Name == nil && p.Slug == nil && p.ContactEmail == nil
}

type ProjectInput struct {
	OrganizationID uint
	Name           string
	Description    string
	Status         ProjectStatus
	DueDate        *time.Time
}

type ProjectPatch struct {
	OrganizationID *uint
	Name           *string
	Description    *string
	Status         *ProjectStatus
	DueDate        *time.Time
}

// Patch converts a full input into a patch touching every field, which is how
// a PUT is applied to an existing record.
func (in ProjectInput) Patch() ProjectPatch {
	return ProjectPatch{
		OrganizationID: &in.OrganizationID,
		Name:           &in.Name,
		Description:    &in.Description,
		Status:         &in.Status,
		DueDate:        in.DueDate,
	}
}

type TaskInput struct {
	ProjectID     uint
	Title         string
	Description   string
	Status        TaskStatus
	AssigneeEmail string
	DueDate       *time.Time
}

type TaskPatch struct {
	ProjectID     *uint
	Title         *string
	Description   *string
	Status        *TaskStatus
	AssigneeEmail *string
	DueDate       *time.Time
}

func (in TaskInput) Patch() TaskPatch {
	return TaskPatch{
		ProjectID:     &in.ProjectID,
		Title:         &in.Title,
		Description:   &in.Description,
		Status:        &in.Status,
		AssigneeEmail: &in.AssigneeEmail,
		DueDate:       in.DueDate,
	}
}

type TaskCommentInput struct {
	TaskID      uint
	Content     string
	AuthorEmail string
}

type TaskCommentPatch struct {
	TaskID      *uint
	Content     *string
	AuthorEmail *string
}

func (in TaskCommentInput) Patch() TaskCommentPatch {
	return TaskCommentPatch{
		TaskID:      &in.TaskID,
		Content:     &in.Content,
		AuthorEmail: &in.AuthorEmail,
	}
}
