package models

import (
	"testing"

	"project-management-api/internal/apperr"

	"github.com/stretchr/testify/require"
)

func TestOrganizationValidate(t *testing.T) {
	org := Organization{Name: "Acme", Slug: "acme", ContactEmail: "a@x.com"}
	require.NoError(t, org.Validate())

	bad := Organization{Name: "", Slug: "not a slug", ContactEmail: "nope"}
	ve, ok := apperr.IsValidation(bad.Validate())
	require.True(t, ok)
	require.Contains(t, ve.Fields, "name")
	require.Contains(t, ve.Fields, "slug")
	require.Equal(t, "Enter a valid email address.", ve.Fields["contact_email"])
}

func TestProjectValidate_Status(t *testing.T) {
	p := Project{OrganizationID: 1, Name: "Launch", Status: ProjectActive}
	require.NoError(t, p.Validate())

	p.Status = "archived"
	ve, ok := apperr.IsValidation(p.Validate())
	require.True(t, ok)
	require.Equal(t, `Value "archived" is not a valid choice.`, ve.Fields["status"])
}

func TestTaskValidate_OptionalAssignee(t *testing.T) {
	task := Task{ProjectID: 1, Title: "Write docs", Status: StatusTodo}
	require.NoError(t, task.Validate())

	task.AssigneeEmail = "bob"
	ve, ok := apperr.IsValidation(task.Validate())
	require.True(t, ok)
	require.Contains(t, ve.Fields, "assignee_email")
}

func TestTaskCommentValidate(t *testing.T) {
	c := TaskComment{TaskID: 1, Content: "ok", AuthorEmail: "a@b.com"}
	require.NoError(t, c.Validate())

	c.Content = ""
	ve, ok := apperr.IsValidation(c.Validate())
	require.True(t, ok)
	require.Equal(t, "This field cannot be blank.", ve.Fields["content"])
}

func TestStatusEnums(t *testing.T) {
	require.True(t, ProjectOnHold.Valid())
	require.False(t, ProjectStatus("ON_HOLD").Valid())
	require.True(t, StatusInProgress.Valid())
	require.False(t, TaskStatus("inProgress").Valid())
	require.Len(t, ProjectStatuses(), 3)
	require.Len(t, TaskStatuses(), 3)
}
