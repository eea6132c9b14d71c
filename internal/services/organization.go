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

// OrganizationService is the persistence boundary for organizations
type OrganizationService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrganizationService(db *gorm.DB, log *logger.Logger) *OrganizationService {
	return &OrganizationService{db: db, log: log.With("service", "OrganizationService")}
}

func slugTaken(slug string) error {
	return apperr.Invalid("slug", fmt.Sprintf("Organization with slug '%s' already exists.", slug))
}

// Create persists a new organization. A duplicate slug is reported as a
// validation error on the slug field.
func (s *OrganizationService) Create(ctx context.Context, in models.OrganizationInput) (*models.Organization, error) {
	org := models.Organization{
		Name:         in.Name,
		Slug:         in.Slug,
		ContactEmail: in.ContactEmail,
	}
	if err := org.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&org).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, slugTaken(org.Slug)
		}
		return nil, fmt.Errorf("create organization: %w", err)
	}

	s.log.Info("Organization created", "organization_id", org.ID, "slug", org.Slug)
	return &org, nil
}

// GetByID returns nil, nil when no organization has the id
func (s *OrganizationService) GetByID(ctx context.Context, id uint) (*models.Organization, error) {
	var org models.Organization
	if err := s.db.WithContext(ctx).First(&org, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization %d: %w", id, err)
	}
	return &org, nil
}

// GetBySlug returns nil, nil when no organization has the slug
func (s *OrganizationService) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	var org models.Organization
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization by slug: %w", err)
	}
	return &org, nil
}

func (s *OrganizationService) List(ctx context.Context) ([]models.Organization, error) {
	orgs := []models.Organization{}
	if err := s.db.WithContext(ctx).Order(newestFirst).Find(&orgs).Error; err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, nil
}

// Search matches name, slug or contact email, case-insensitively
func (s *OrganizationService) Search(ctx context.Context, query string) ([]models.Organization, error) {
	p := likePattern(query)
	orgs := []models.Organization{}
	err := s.db.WithContext(ctx).
		Where(ilike("name")+" OR "+ilike("slug")+" OR "+ilike("contact_email"), p, p, p).
		Order(newestFirst).
		Find(&orgs).Error
	if err != nil {
		return nil, fmt.Errorf("search organizations: %w", err)
	}
	return orgs, nil
}

// Update applies the non-nil fields of patch. It returns nil, nil when the
// organization does not exist.
func (s *OrganizationService) Update(ctx context.Context, id uint, patch models.OrganizationPatch) (*models.Organization, error) {
	org, err := s.GetByID(ctx, id)
	if err != nil || org == nil {
		return nil, err
	}

	if patch.Name != nil {
		org.Name = *patch.Name
	}
	if patch.Slug != nil {
		org.Slug = *patch.Slug
	}
	if patch.ContactEmail != nil {
		org.ContactEmail = *patch.ContactEmail
	}
	if err := org.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(org).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, slugTaken(org.Slug)
		}
		return nil, fmt.Errorf("update organization %d: %w", id, err)
	}

	s.log.Info("Organization updated", "organization_id", org.ID)
	return org, nil
}

// Delete removes the organization; projects, tasks and comments go with it
// through the foreign key cascade.
func (s *OrganizationService) Delete(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.Organization{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete organization %d: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		s.log.Info("Organization deleted", "organization_id", id)
	}
	return res.RowsAffected > 0, nil
}

func (s *OrganizationService) Exists(ctx context.Context, id uint) (bool, error) {
	ok, err := exists(s.db.WithContext(ctx), &models.Organization{}, id)
	if err != nil {
		return false, fmt.Errorf("check organization %d: %w", id, err)
	}
	return ok, nil
}
