package validators

import (
	"project-management-api/internal/apperr"
	"project-management-api/internal/models"

	"github.com/gosimple/slug"
)

// Slugify derives an organization slug from its name
func Slugify(name string) string {
	return slug.Make(name)
}

// ValidateOrganizationCreate requires name and contact_email; slug defaults to
// the slugified name.
func ValidateOrganizationCreate(data map[string]any) (models.OrganizationInput, error) {
	fe := apperr.FieldErrors{}

	name := requiredString(data, "name", "Name", fe)
	email := requiredString(data, "contact_email", "Contact email", fe)
	s := optionalString(data, "slug", "Slug", fe)

	if err := fe.Err(); err != nil {
		return models.OrganizationInput{}, err
	}
	if s == "" {
		s = Slugify(name)
	}
	return models.OrganizationInput{Name: name, Slug: s, ContactEmail: email}, nil
}

// ValidateOrganizationUpdate checks only the fields present in data. An empty
// slug is re-derived from a supplied name and otherwise ignored.
func ValidateOrganizationUpdate(data map[string]any) (models.OrganizationPatch, error) {
	fe := apperr.FieldErrors{}
	var patch models.OrganizationPatch

	patch.Name = patchString(data, "name", "Name", true, fe)
	patch.ContactEmail = patchString(data, "contact_email", "Contact email", true, fe)

	if s := patchString(data, "slug", "Slug", false, fe); s != nil {
		switch {
		case *s != "":
			patch.Slug = s
		case patch.Name != nil:
			derived := Slugify(*patch.Name)
			patch.Slug = &derived
		}
	}

	if err := fe.Err(); err != nil {
		return models.OrganizationPatch{}, err
	}
	return patch, nil
}
