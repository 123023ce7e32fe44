package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/studypath-api/internal/models"
)

// TaskRepository exposes task persistence helpers.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, userID, id string) (models.Task, error)
	ListByUser(ctx context.Context, userID string) ([]models.Task, error)
	ListByGoals(ctx context.Context, userID string, goalIDs []string) ([]models.Task, error)
	UpdateCompletion(ctx context.Context, task *models.Task) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository constructs a repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) GetByID(ctx context.Context, userID, id string) (models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error
	return task, err
}

func (r *taskRepository) ListByUser(ctx context.Context, userID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) ListByGoals(ctx context.Context, userID string, goalIDs []string) ([]models.Task, error) {
	if len(goalIDs) == 0 {
		return []models.Task{}, nil
	}

	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND weekly_goal_id IN ?", userID, goalIDs).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateCompletion writes completed and completed_at only. A nil completed_at
// is persisted as NULL.
func (r *taskRepository) UpdateCompletion(ctx context.Context, task *models.Task) error {
	result := r.db.WithContext(ctx).Model(task).
		Where("user_id = ?", task.UserID).
		Select("completed", "completed_at", "updated_at").
		Updates(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
