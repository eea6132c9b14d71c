package validators

import (
	"project-management-api/internal/apperr"
	"project-management-api/internal/models"
)

func projectStatusValues() []string {
	out := make([]string, 0, 3)
	for _, s := range models.ProjectStatuses() {
		out = append(out, string(s))
	}
	return out
}

// ValidateProjectCreate requires organization_id, name and status
func ValidateProjectCreate(data map[string]any) (models.ProjectInput, error) {
	fe := apperr.FieldErrors{}

	orgID := requiredID(data, "organization_id", "Organization ID", fe)
	name := requiredString(data, "name", "Name", fe)

	status, _, ok := stringField(data, "status", "Status", fe)
	if ok {
		statusField(status, projectStatusValues(), "status", "Status is required.", fe)
	}

	description := optionalString(data, "description", "Description", fe)
	due := dateField(data, "due_date", false, fe)

	if err := fe.Err(); err != nil {
		return models.ProjectInput{}, err
	}
	return models.ProjectInput{
		OrganizationID: orgID,
		Name:           name,
		Description:    description,
		Status:         models.ProjectStatus(status),
		DueDate:        due,
	}, nil
}

// ValidateProjectUpdate checks only the fields present in data
func ValidateProjectUpdate(data map[string]any) (models.ProjectPatch, error) {
	fe := apperr.FieldErrors{}
	var patch models.ProjectPatch

	patch.OrganizationID = patchID(data, "organization_id", "Organization ID", fe)
	patch.Name = patchString(data, "name", "Name", true, fe)

	if s, present, ok := stringField(data, "status", "Status", fe); present && ok {
		if statusField(s, projectStatusValues(), "status", "Status cannot be empty.", fe) {
			status := models.ProjectStatus(s)
			patch.Status = &status
		}
	}

	patch.Description = patchString(data, "description", "Description", false, fe)
	patch.DueDate = dateField(data, "due_date", false, fe)

	if err := fe.Err(); err != nil {
		return models.ProjectPatch{}, err
	}
	return patch, nil
}
