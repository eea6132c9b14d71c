package services

import (
	"project-management-api/internal/logger"

	"gorm.io/gorm"
)

// Services bundles one service per entity over a shared connection
type Services struct {
	Organizations *OrganizationService
	Projects      *ProjectService
	Tasks         *TaskService
	TaskComments  *TaskCommentService
}

func New(db *gorm.DB, log *logger.Logger) Services {
	return Services{
		Organizations: NewOrganizationService(db, log),
		Projects:      NewProjectService(db, log),
		Tasks:         NewTaskService(db, log),
		TaskComments:  NewTaskCommentService(db, log),
	}
}
