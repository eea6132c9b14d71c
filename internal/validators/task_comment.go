package validators

import (
	"strings"

	"project-management-api/internal/apperr"
	"project-management-api/internal/models"
)

const invalidAuthorEmail = "Author email must be a valid email address."

// ValidateTaskCommentCreate requires task_id, content and an author_email
// containing "@".
func ValidateTaskCommentCreate(data map[string]any) (models.TaskCommentInput, error) {
	fe := apperr.FieldErrors{}

	taskID := requiredID(data, "task_id", "Task ID", fe)
	content := requiredString(data, "content", "Content", fe)
	author := requiredString(data, "author_email", "Author email", fe)
	if author != "" && !strings.Contains(author, "@") {
		fe.Add("author_email", invalidAuthorEmail)
	}

	if err := fe.Err(); err != nil {
		return models.TaskCommentInput{}, err
	}
	return models.TaskCommentInput{TaskID: taskID, Content: content, AuthorEmail: author}, nil
}

// ValidateTaskCommentUpdate checks only the fields present in data
func ValidateTaskCommentUpdate(data map[string]any) (models.TaskCommentPatch, error) {
	fe := apperr.FieldErrors{}
	var patch models.TaskCommentPatch

	patch.TaskID = patchID(data, "task_id", "Task ID", fe)
	patch.Content = patchString(data, "content", "Content", true, fe)

	if author := patchString(data, "author_email", "Author email", true, fe); author != nil {
		if strings.Contains(*author, "@") {
			patch.AuthorEmail = author
		} else {
			fe.Add("author_email", invalidAuthorEmail)
		}
	}

	if err := fe.Err(); err != nil {
		return models.TaskCommentPatch{}, err
	}
	return patch, nil
}
