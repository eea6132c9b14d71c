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

// TaskCommentService is the persistence boundary for task comments
type TaskCommentService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskCommentService(db *gorm.DB, log *logger.Logger) *TaskCommentService {
	return &TaskCommentService{db: db, log: log.With("service", "TaskCommentService")}
}

func (s *TaskCommentService) requireTask(ctx context.Context, taskID uint) error {
	ok, err := exists(s.db.WithContext(ctx), &models.Task{}, taskID)
	if err != nil {
		return fmt.Errorf("check task %d: %w", taskID, err)
	}
	if !ok {
		return apperr.NotFound("Task", taskID)
	}
	return nil
}

// Create persists a comment on an existing task
func (s *TaskCommentService) Create(ctx context.Context, in models.TaskCommentInput) (*models.TaskComment, error) {
	if err := s.requireTask(ctx, in.TaskID); err != nil {
		return nil, err
	}

	comment := models.TaskComment{
		TaskID:      in.TaskID,
		Content:     in.Content,
		AuthorEmail: in.AuthorEmail,
	}
	if err := comment.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperr.NotFound("Task", comment.TaskID)
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.log.Info("Comment created", "comment_id", comment.ID, "task_id", comment.TaskID)
	return &comment, nil
}

// GetByID returns nil, nil when no comment has the id
func (s *TaskCommentService) GetByID(ctx context.Context, id uint) (*models.TaskComment, error) {
	var comment models.TaskComment
	if err := s.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comment %d: %w", id, err)
	}
	return &comment, nil
}

func (s *TaskCommentService) List(ctx context.Context) ([]models.TaskComment, error) {
	return s.find(s.db.WithContext(ctx), "list comments")
}

func (s *TaskCommentService) ListByTask(ctx context.Context, taskID uint) ([]models.TaskComment, error) {
	return s.find(s.db.WithContext(ctx).Where("task_id = ?", taskID), "list comments by task")
}

func (s *TaskCommentService) find(q *gorm.DB, op string) ([]models.TaskComment, error) {
	comments := []models.TaskComment{}
	if err := q.Order(newestCommentsFirst).Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return comments, nil
}

// CountByTask returns the number of comments per task id. Tasks without
// comments are absent from the map.
func (s *TaskCommentService) CountByTask(ctx context.Context, taskIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(taskIDs))
	if len(taskIDs) == 0 {
		return counts, nil
	}

	type row struct {
		TaskID uint
		Count  int
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&models.TaskComment{}).
		Select("task_id, COUNT(*) as count").
		Where("task_id IN ?", taskIDs).
		Group("task_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	for _, r := range rows {
		counts[r.TaskID] = r.Count
	}
	return counts, nil
}

// Update applies the non-nil fields of patch, moving the comment to another
// task when TaskID is set. It returns nil, nil when the comment does not exist.
func (s *TaskCommentService) Update(ctx context.Context, id uint, patch models.TaskCommentPatch) (*models.TaskComment, error) {
	comment, err := s.GetByID(ctx, id)
	if err != nil || comment == nil {
		return nil, err
	}

	if patch.TaskID != nil {
		if err := s.requireTask(ctx, *patch.TaskID); err != nil {
			return nil, err
		}
		comment.TaskID = *patch.TaskID
	}
	if patch.Content != nil {
		comment.Content = *patch.Content
	}
	if patch.AuthorEmail != nil {
		comment.AuthorEmail = *patch.AuthorEmail
	}
	if err := comment.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(comment).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperr.NotFound("Task", comment.TaskID)
		}
		return nil, fmt.Errorf("update comment %d: %w", id, err)
	}

	s.log.Info("Comment updated", "comment_id", comment.ID)
	return comment, nil
}

func (s *TaskCommentService) Delete(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.TaskComment{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete comment %d: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		s.log.Info("Comment deleted", "comment_id", id)
	}
	return res.RowsAffected > 0, nil
}

func (s *TaskCommentService) Exists(ctx context.Context, id uint) (bool, error) {
	ok, err := exists(s.db.WithContext(ctx), &models.TaskComment{}, id)
	if err != nil {
		return false, fmt.Errorf("check comment %d: %w", id, err)
	}
	return ok, nil
}
