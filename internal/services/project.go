package services

import (
	"context"
	"errors"
	"fmt"

	"project-management-api/internal/apperr"
	"project-management-api/internal/logger"
	"project-management-api/internal/models"

	"gorm.io/gorm"
)

// ProjectService is the persistence boundary for projects
type ProjectService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectService(db *gorm.DB, log *logger.Logger) *ProjectService {
	return &ProjectService{db: db, log: log.With("service", "ProjectService")}
}

func (s *ProjectService) requireOrganization(ctx context.Context, orgID uint) error {
	ok, err := exists(s.db.WithContext(ctx), &models.Organization{}, orgID)
	if err != nil {
		return fmt.Errorf("check organization %d: %w", orgID, err)
	}
	if !ok {
		return apperr.NotFound("Organization", orgID)
	}
	return nil
}

// Create persists a project under an existing organization
func (s *ProjectService) Create(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	if err := s.requireOrganization(ctx, in.OrganizationID); err != nil {
		return nil, err
	}

	project := models.Project{
		OrganizationID: in.OrganizationID,
		Name:           in.Name,
		Description:    in.Description,
		Status:         in.Status,
		DueDate:        in.DueDate,
	}
	if err := project.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&project).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperr.NotFound("Organization", project.OrganizationID)
		}
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.log.Info("Project created", "project_id", project.ID, "organization_id", project.OrganizationID)
	return &project, nil
}

// GetByID returns nil, nil when no project has the id
func (s *ProjectService) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}
	return &project, nil
}

func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	return s.find(s.db.WithContext(ctx), "list projects")
}

func (s *ProjectService) ListByOrganization(ctx context.Context, orgID uint) ([]models.Project, error) {
	return s.find(s.db.WithContext(ctx).Where("organization_id = ?", orgID), "list projects by organization")
}

// Search matches name or description, optionally within one organization
func (s *ProjectService) Search(ctx context.Context, query string, orgID *uint) ([]models.Project, error) {
	p := likePattern(query)
	q := s.db.WithContext(ctx).Where("("+ilike("name")+" OR "+ilike("description")+")", p, p)
	if orgID != nil {
		q = q.Where("organization_id = ?", *orgID)
	}
	return s.find(q, "search projects")
}

// FilterByStatus lists projects with the given status, optionally within one
// organization.
func (s *ProjectService) FilterByStatus(ctx context.Context, status string, orgID *uint) ([]models.Project, error) {
	q := s.db.WithContext(ctx).Where("status = ?", status)
	if orgID != nil {
		q = q.Where("organization_id = ?", *orgID)
	}
	return s.find(q, "filter projects by status")
}

func (s *ProjectService) find(q *gorm.DB, op string) ([]models.Project, error) {
	projects := []models.Project{}
	if err := q.Order(newestFirst).Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return projects, nil
}

// Update applies the non-nil fields of patch, moving the project to another
// organization when OrganizationID is set. It returns nil, nil when the
// project does not exist.
func (s *ProjectService) Update(ctx context.Context, id uint, patch models.ProjectPatch) (*models.Project, error) {
	project, err := s.GetByID(ctx, id)
	if err != nil || project == nil {
		return nil, err
	}

	if patch.OrganizationID != nil {
		if err := s.requireOrganization(ctx, *patch.OrganizationID); err != nil {
			return nil, err
		}
		project.OrganizationID = *patch.OrganizationID
	}
	if patch.Name != nil {
		project.Name = *patch.Name
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if patch.Status != nil {
		project.Status = *patch.Status
	}
	if patch.DueDate != nil {
		project.DueDate = patch.DueDate
	}
	if err := project.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(project).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperr.NotFound("Organization", project.OrganizationID)
		}
		return nil, fmt.Errorf("update project %d: %w", id, err)
	}

	s.log.Info("Project updated", "project_id", project.ID)
	return project, nil
}

// Delete removes the project together with its tasks and their comments
func (s *ProjectService) Delete(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.Project{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete project %d: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		s.log.Info("Project deleted", "project_id", id)
	}
	return res.RowsAffected > 0, nil
}

func (s *ProjectService) Exists(ctx context.Context, id uint) (bool, error) {
	ok, err := exists(s.db.WithContext(ctx), &models.Project{}, id)
	if err != nil {
		return false, fmt.Errorf("check project %d: %w", id, err)
	}
	return ok, nil
}
