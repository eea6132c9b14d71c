package validators

import (
	"project-management-api/internal/apperr"
	"project-management-api/internal/models"
)

func taskStatusValues() []string {
	out := make([]string, 0, 3)
	for _, s := range models.TaskStatuses() {
		out = append(out, string(s))
	}
	return out
}

// ValidateTaskCreate requires project_id, title and status
func ValidateTaskCreate(data map[string]any) (models.TaskInput, error) {
	fe := apperr.FieldErrors{}

	projectID := requiredID(data, "project_id", "Project ID", fe)
	title := requiredString(data, "title", "Title", fe)

	status, _, ok := stringField(data, "status", "Status", fe)
	if ok {
		statusField(status, taskStatusValues(), "status", "Status is required.", fe)
	}

	description := optionalString(data, "description", "Description", fe)
	assignee := optionalString(data, "assignee_email", "Assignee email", fe)
	due := dateField(data, "due_date", true, fe)

	if err := fe.Err(); err != nil {
		return models.TaskInput{}, err
	}
	return models.TaskInput{
		ProjectID:     projectID,
		Title:         title,
		Description:   description,
		Status:        models.TaskStatus(status),
		AssigneeEmail: assignee,
		DueDate:       due,
	}, nil
}

// ValidateTaskUpdate checks only the fields present in data
func ValidateTaskUpdate(data map[string]any) (models.TaskPatch, error) {
	fe := apperr.FieldErrors{}
	var patch models.TaskPatch

	patch.ProjectID = patchID(data, "project_id", "Project ID", fe)
	patch.Title = patchString(data, "title", "Title", true, fe)

	if s, present, ok := stringField(data, "status", "Status", fe); present && ok {
		if statusField(s, taskStatusValues(), "status", "Status cannot be empty.", fe) {
			status := models.TaskStatus(s)
			patch.Status = &status
		}
	}

	patch.Description = patchString(data, "description", "Description", false, fe)
	patch.AssigneeEmail = patchString(data, "assignee_email", "Assignee email", false, fe)
	patch.DueDate = dateField(data, "due_date", true, fe)

	if err := fe.Err(); err != nil {
		return models.TaskPatch{}, err
	}
	return patch, nil
}
