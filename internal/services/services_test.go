package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"project-management-api/internal/apperr"
	"project-management-api/internal/logger"
	"project-management-api/internal/models"
	"project-management-api/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	orgs     *OrganizationService
	projects *ProjectService
	tasks    *TaskService
	comments *TaskCommentService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	log := logger.Nop()
	return fixture{
		db:       db,
		orgs:     NewOrganizationService(db, log),
		projects: NewProjectService(db, log),
		tasks:    NewTaskService(db, log),
		comments: NewTaskCommentService(db, log),
	}
}

func (f fixture) org(t *testing.T, name, slug string) *models.Organization {
	t.Helper()
	org, err := f.orgs.Create(context.Background(), models.OrganizationInput{Name: name, Slug: slug, ContactEmail: "a@x.com"})
	require.NoError(t, err)
	return org
}

func (f fixture) project(t *testing.T, orgID uint, name string, status models.ProjectStatus) *models.Project {
	t.Helper()
	p, err := f.projects.Create(context.Background(), models.ProjectInput{OrganizationID: orgID, Name: name, Status: status})
	require.NoError(t, err)
	return p
}

func (f fixture) task(t *testing.T, projectID uint, title string, status models.TaskStatus) *models.Task {
	t.Helper()
	task, err := f.tasks.Create(context.Background(), models.TaskInput{ProjectID: projectID, Title: title, Status: status})
	require.NoError(t, err)
	return task
}

func TestOrganizationService_CreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	org := f.org(t, "Acme", "acme")
	require.NotZero(t, org.ID)
	require.False(t, org.CreatedAt.IsZero())

	other := f.org(t, "Globex", "globex")
	require.NotEqual(t, org.ID, other.ID)

	got, err := f.orgs.GetByID(ctx, org.ID)
	require.NoError(t, err)
	require.Equal(t, "Acme", got.Name)

	bySlug, err := f.orgs.GetBySlug(ctx, "globex")
	require.NoError(t, err)
	require.Equal(t, other.ID, bySlug.ID)

	missing, err := f.orgs.GetByID(ctx, 999)
	require.NoError(t, err)
	require.Nil(t, missing)

	ok, err := f.orgs.Exists(ctx, org.ID)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = f.orgs.Exists(ctx, 999)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOrganizationService_DuplicateSlug(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.org(t, "Acme", "acme")

	_, err := f.orgs.Create(ctx, models.OrganizationInput{Name: "ACME", Slug: "acme", ContactEmail: "b@x.com"})
	ve, ok := apperr.IsValidation(err)
	require.True(t, ok, "got %v", err)
	require.Equal(t, "Organization with slug 'acme' already exists.", ve.Fields["slug"])

	// An explicit distinct slug avoids the collision
	_, err = f.orgs.Create(ctx, models.OrganizationInput{Name: "ACME", Slug: "acme-2", ContactEmail: "b@x.com"})
	require.NoError(t, err)

	orgs, err := f.orgs.List(ctx)
	require.NoError(t, err)
	require.Len(t, orgs, 2)
}

func TestOrganizationService_ModelValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.orgs.Create(context.Background(), models.OrganizationInput{Name: "Acme", Slug: "acme", ContactEmail: "not-an-email"})
	ve, ok := apperr.IsValidation(err)
	require.True(t, ok)
	require.Contains(t, ve.Fields, "contact_email")
}

func TestOrganizationService_SearchAndOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.org(t, "Acme Rockets", "acme")
	second := f.org(t, "Globex", "globex-acme")
	f.org(t, "Initech", "initech")

	found, err := f.orgs.Search(ctx, "ACME")
	require.NoError(t, err)
	require.Len(t, found, 2)
	require.Equal(t, second.ID, found[0].ID) // newest first
	require.Equal(t, first.ID, found[1].ID)

	found, err = f.orgs.Search(ctx, "x.com")
	require.NoError(t, err)
	require.Len(t, found, 3)

	found, err = f.orgs.Search(ctx, "%")
	require.NoError(t, err)
	require.Empty(t, found)
}

func TestOrganizationService_PartialUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org := f.org(t, "Acme", "acme")

	email := "ops@acme.test"
	updated, err := f.orgs.Update(ctx, org.ID, models.OrganizationPatch{ContactEmail: &email})
	require.NoError(t, err)
	require.Equal(t, email, updated.ContactEmail)
	require.Equal(t, "Acme", updated.Name)
	require.Equal(t, "acme", updated.Slug)

	missing, err := f.orgs.Update(ctx, 999, models.OrganizationPatch{ContactEmail: &email})
	require.NoError(t, err)
	require.Nil(t, missing)

	f.org(t, "Globex", "globex")
	taken := "globex"
	_, err = f.orgs.Update(ctx, org.ID, models.OrganizationPatch{Slug: &taken})
	_, ok := apperr.IsValidation(err)
	require.True(t, ok)
}

func TestProjectService_RequiresOrganization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.projects.Create(ctx, models.ProjectInput{OrganizationID: 42, Name: "Ghost", Status: models.ProjectActive})
	require.True(t, errors.Is(err, apperr.ErrNotFound))
	require.Equal(t, "Organization with ID 42 does not exist.", err.Error())

	all, err := f.projects.List(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestProjectService_FiltersAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acme := f.org(t, "Acme", "acme")
	globex := f.org(t, "Globex", "globex")

	launch := f.project(t, acme.ID, "Launch", models.ProjectActive)
	f.project(t, acme.ID, "Retro", models.ProjectCompleted)
	f.project(t, globex.ID, "Launch party", models.ProjectActive)

	byOrg, err := f.projects.ListByOrganization(ctx, acme.ID)
	require.NoError(t, err)
	require.Len(t, byOrg, 2)

	searched, err := f.projects.Search(ctx, "launch", nil)
	require.NoError(t, err)
	require.Len(t, searched, 2)
	searched, err = f.projects.Search(ctx, "launch", &acme.ID)
	require.NoError(t, err)
	require.Len(t, searched, 1)

	active, err := f.projects.FilterByStatus(ctx, "active", &globex.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)

	due := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	status := models.ProjectOnHold
	updated, err := f.projects.Update(ctx, launch.ID, models.ProjectPatch{Status: &status, DueDate: &due})
	require.NoError(t, err)
	require.Equal(t, models.ProjectOnHold, updated.Status)
	require.Equal(t, "Launch", updated.Name)
	require.Equal(t, acme.ID, updated.OrganizationID)

	updated, err = f.projects.Update(ctx, launch.ID, models.ProjectPatch{OrganizationID: &globex.ID})
	require.NoError(t, err)
	require.Equal(t, globex.ID, updated.OrganizationID)

	missingOrg := uint(777)
	_, err = f.projects.Update(ctx, launch.ID, models.ProjectPatch{OrganizationID: &missingOrg})
	require.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestTaskService_ListByProjectIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org := f.org(t, "Acme", "acme")
	p1 := f.project(t, org.ID, "One", models.ProjectActive)
	p2 := f.project(t, org.ID, "Two", models.ProjectActive)
	f.task(t, p1.ID, "a", models.StatusDone)
	f.task(t, p2.ID, "b", models.StatusTodo)
	f.task(t, p2.ID, "c", models.StatusInProgress)

	tasks, err := f.tasks.ListByProjectIDs(ctx, []uint{p1.ID, p2.ID})
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	tasks, err = f.tasks.ListByProjectIDs(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, tasks)

	_, err = f.tasks.Create(ctx, models.TaskInput{ProjectID: 999, Title: "x", Status: models.StatusTodo})
	require.Equal(t, "Project with ID 999 does not exist.", err.Error())
}

func TestTaskService_CountByProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org := f.org(t, "Acme", "acme")
	p1 := f.project(t, org.ID, "One", models.ProjectActive)
	p2 := f.project(t, org.ID, "Two", models.ProjectActive)
	empty := f.project(t, org.ID, "Empty", models.ProjectOnHold)
	f.task(t, p1.ID, "a", models.StatusDone)
	f.task(t, p1.ID, "b", models.StatusTodo)
	f.task(t, p2.ID, "c", models.StatusDone)

	total, done, err := f.tasks.CountByProject(ctx, []uint{p1.ID, p2.ID, empty.ID})
	require.NoError(t, err)
	require.Equal(t, 2, total[p1.ID])
	require.Equal(t, 1, done[p1.ID])
	require.Equal(t, 1, total[p2.ID])
	require.Equal(t, 1, done[p2.ID])
	require.Zero(t, total[empty.ID])
}

func TestTaskCommentService_CountByTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org := f.org(t, "Acme", "acme")
	p := f.project(t, org.ID, "One", models.ProjectActive)
	t1 := f.task(t, p.ID, "a", models.StatusDone)
	t2 := f.task(t, p.ID, "b", models.StatusTodo)

	for i := 0; i < 2; i++ {
		_, err := f.comments.Create(ctx, models.TaskCommentInput{TaskID: t1.ID, Content: "note", AuthorEmail: "a@b.com"})
		require.NoError(t, err)
	}

	counts, err := f.comments.CountByTask(ctx, []uint{t1.ID, t2.ID})
	require.NoError(t, err)
	require.Equal(t, 2, counts[t1.ID])
	require.Equal(t, 0, counts[t2.ID])

	_, err = f.comments.Create(ctx, models.TaskCommentInput{TaskID: 999, Content: "x", AuthorEmail: "a@b.com"})
	require.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestCascadeDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org := f.org(t, "Acme", "acme")
	keep := f.org(t, "Globex", "globex")
	p := f.project(t, org.ID, "Launch", models.ProjectActive)
	kept := f.project(t, keep.ID, "Other", models.ProjectActive)
	task := f.task(t, p.ID, "Ship", models.StatusDone)
	_, err := f.comments.Create(ctx, models.TaskCommentInput{TaskID: task.ID, Content: "ok", AuthorEmail: "a@b.com"})
	require.NoError(t, err)

	deleted, err := f.orgs.Delete(ctx, org.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	projects, err := f.projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, kept.ID, projects[0].ID)

	tasks, err := f.tasks.List(ctx)
	require.NoError(t, err)
	require.Empty(t, tasks)

	comments, err := f.comments.List(ctx)
	require.NoError(t, err)
	require.Empty(t, comments)

	deleted, err = f.orgs.Delete(ctx, org.ID)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestCreate_ParentDeletedAfterCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org := f.org(t, "Acme", "acme")
	p := f.project(t, org.ID, "Launch", models.ProjectActive)
	task := f.task(t, p.ID, "Ship", models.StatusTodo)

	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:delete_parent", func(tx *gorm.DB) {
		parents := map[string]string{"projects": "organizations", "tasks": "projects", "task_comments": "tasks"}
		ids := map[string]uint{"projects": org.ID, "tasks": p.ID, "task_comments": task.ID}
		parent, ok := parents[tx.Statement.Table]
		if !ok {
			return
		}
		tx.Session(&gorm.Session{NewDB: true}).Exec("DELETE FROM "+parent+" WHERE id = ?", ids[tx.Statement.Table])
	}))

	_, err := f.comments.Create(ctx, models.TaskCommentInput{TaskID: task.ID, Content: "late", AuthorEmail: "a@b.com"})
	require.True(t, errors.Is(err, apperr.ErrNotFound), "got %v", err)
	require.Equal(t, fmt.Sprintf("Task with ID %d does not exist.", task.ID), err.Error())

	_, err = f.tasks.Create(ctx, models.TaskInput{ProjectID: p.ID, Title: "Late", Status: models.StatusTodo})
	require.True(t, errors.Is(err, apperr.ErrNotFound), "got %v", err)
	require.Equal(t, fmt.Sprintf("Project with ID %d does not exist.", p.ID), err.Error())

	_, err = f.projects.Create(ctx, models.ProjectInput{OrganizationID: org.ID, Name: "Late", Status: models.ProjectActive})
	require.True(t, errors.Is(err, apperr.ErrNotFound), "got %v", err)
	require.Equal(t, fmt.Sprintf("Organization with ID %d does not exist.", org.ID), err.Error())
}

func TestTaskService_UpdateTargetDeletedAfterCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org := f.org(t, "Acme", "acme")
	from := f.project(t, org.ID, "Launch", models.ProjectActive)
	to := f.project(t, org.ID, "Other", models.ProjectActive)
	task := f.task(t, from.ID, "Ship", models.StatusTodo)

	require.NoError(t, f.db.Callback().Update().Before("gorm:update").Register("test:delete_target", func(tx *gorm.DB) {
		if tx.Statement.Table != "tasks" {
			return
		}
		tx.Session(&gorm.Session{NewDB: true}).Exec("DELETE FROM projects WHERE id = ?", to.ID)
	}))

	_, err := f.tasks.Update(ctx, task.ID, models.TaskPatch{ProjectID: &to.ID})
	require.True(t, errors.Is(err, apperr.ErrNotFound), "got %v", err)
	require.Equal(t, fmt.Sprintf("Project with ID %d does not exist.", to.ID), err.Error())

	got, err := f.tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, from.ID, got.ProjectID)
}

func TestIsForeignKeyViolation(t *testing.T) {
	require.False(t, isForeignKeyViolation(nil))
	require.True(t, isForeignKeyViolation(fmt.Errorf("insert: %w", gorm.ErrForeignKeyViolated)))
	require.True(t, isForeignKeyViolation(errors.New("FOREIGN KEY constraint failed (787)")))
	require.False(t, isForeignKeyViolation(gorm.ErrDuplicatedKey))
}
