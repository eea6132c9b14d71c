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

// TaskService is the persistence boundary for tasks
type TaskService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskService(db *gorm.DB, log *logger.Logger) *TaskService {
	return &TaskService{db: db, log: log.With("service", "TaskService")}
}

func (s *TaskService) requireProject(ctx context.Context, projectID uint) error {
	ok, err := exists(s.db.WithContext(ctx), &models.Project{}, projectID)
	if err != nil {
		return fmt.Errorf("check project %d: %w", projectID, err)
	}
	if !ok {
		return apperr.NotFound("Project", projectID)
	}
	return nil
}

// Create persists a task under an existing project
func (s *TaskService) Create(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	if err := s.requireProject(ctx, in.ProjectID); err != nil {
		return nil, err
	}

	task := models.Task{
		ProjectID:     in.ProjectID,
		Title:         in.Title,
		Description:   in.Description,
		Status:        in.Status,
		AssigneeEmail: in.AssigneeEmail,
		DueDate:       in.DueDate,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperr.NotFound("Project", task.ProjectID)
		}
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.log.Info("Task created", "task_id", task.ID, "project_id", task.ProjectID)
	return &task, nil
}

// GetByID returns nil, nil when no task has the id
func (s *TaskService) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.WithContext(ctx).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return &task, nil
}

func (s *TaskService) List(ctx context.Context) ([]models.Task, error) {
	return s.find(s.db.WithContext(ctx), "list tasks")
}

func (s *TaskService) ListByProject(ctx context.Context, projectID uint) ([]models.Task, error) {
	return s.find(s.db.WithContext(ctx).Where("project_id = ?", projectID), "list tasks by project")
}

// ListByProjectIDs fetches the tasks of many projects in one query
func (s *TaskService) ListByProjectIDs(ctx context.Context, projectIDs []uint) ([]models.Task, error) {
	if len(projectIDs) == 0 {
		return []models.Task{}, nil
	}
	return s.find(s.db.WithContext(ctx).Where("project_id IN ?", projectIDs), "list tasks by projects")
}

// CountByProject returns total and done task counts per project id in one
// grouped query. Projects without tasks are absent from both maps.
func (s *TaskService) CountByProject(ctx context.Context, projectIDs []uint) (total, done map[uint]int, err error) {
	total = make(map[uint]int, len(projectIDs))
	done = make(map[uint]int, len(projectIDs))
	if len(projectIDs) == 0 {
		return total, done, nil
	}

	type row struct {
		ProjectID uint
		Total     int
		Done      int
	}
	var rows []row
	err = s.db.WithContext(ctx).Model(&models.Task{}).
		Select("project_id, COUNT(*) AS total, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS done", models.StatusDone).
		Where("project_id IN ?", projectIDs).
		Group("project_id").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, fmt.Errorf("count tasks by project: %w", err)
	}
	for _, r := range rows {
		total[r.ProjectID] = r.Total
		done[r.ProjectID] = r.Done
	}
	return total, done, nil
}

func (s *TaskService) find(q *gorm.DB, op string) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := q.Order(newestFirst).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tasks, nil
}

// Update applies the non-nil fields of patch, moving the task to another
// project when ProjectID is set. It returns nil, nil when the task does not
// exist.
func (s *TaskService) Update(ctx context.Context, id uint, patch models.TaskPatch) (*models.Task, error) {
	task, err := s.GetByID(ctx, id)
	if err != nil || task == nil {
		return nil, err
	}

	if patch.ProjectID != nil {
		if err := s.requireProject(ctx, *patch.ProjectID); err != nil {
			return nil, err
		}
		task.ProjectID = *patch.ProjectID
	}
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.AssigneeEmail != nil {
		task.AssigneeEmail = *patch.AssigneeEmail
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(task).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperr.NotFound("Project", task.ProjectID)
		}
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}

	s.log.Info("Task updated", "task_id", task.ID, "status", task.Status)
	return task, nil
}

// Delete removes the task and its comments
func (s *TaskService) Delete(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.Task{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete task %d: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		s.log.Info("Task deleted", "task_id", id)
	}
	return res.RowsAffected > 0, nil
}

func (s *TaskService) Exists(ctx context.Context, id uint) (bool, error) {
	ok, err := exists(s.db.WithContext(ctx), &models.Task{}, id)
	if err != nil {
		return false, fmt.Errorf("check task %d: %w", id, err)
	}
	return ok, nil
}
