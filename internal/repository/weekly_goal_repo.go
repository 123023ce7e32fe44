package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/studypath-api/internal/models"
)

// WeeklyGoalFilter narrows goal listings.
type WeeklyGoalFilter struct {
	RoadmapType string
}

// DeleteCounts reports how many rows a cascading delete removed.
type DeleteCounts struct {
	Goals int64
	Tasks int64
}

// WeeklyGoalRepository exposes weekly goal persistence helpers.
type WeeklyGoalRepository interface {
	Create(ctx context.Context, goal *models.WeeklyGoal) error
	GetByID(ctx context.Context, userID, id string) (models.WeeklyGoal, error)
	List(ctx context.Context, userID string, filter WeeklyGoalFilter) ([]models.WeeklyGoal, error)
	CountByRoadmap(ctx context.Context, userID, roadmapType string) (int64, error)
	Delete(ctx context.Context, userID, id string) (DeleteCounts, error)
	DeleteByRoadmap(ctx context.Context, userID, roadmapType string) (DeleteCounts, error)
}

type weeklyGoalRepository struct {
	db *gorm.DB
}

// NewWeeklyGoalRepository constructs a repository.
func NewWeeklyGoalRepository(db *gorm.DB) WeeklyGoalRepository {
	return &weeklyGoalRepository{db: db}
}

func (r *weeklyGoalRepository) Create(ctx context.Context, goal *models.WeeklyGoal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *weeklyGoalRepository) GetByID(ctx context.Context, userID, id string) (models.WeeklyGoal, error) {
	var goal models.WeeklyGoal
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&goal).Error
	return goal, err
}

func (r *weeklyGoalRepository) List(ctx context.Context, userID string, filter WeeklyGoalFilter) ([]models.WeeklyGoal, error) {
	query := r.db.WithContext(ctx).Model(&models.WeeklyGoal{}).Where("user_id = ?", userID)

	if roadmapType := strings.TrimSpace(filter.RoadmapType); roadmapType != "" {
		query = query.Where("roadmap_type = ?", roadmapType)
	}

	var goals []models.WeeklyGoal
	if err := query.Order("created_at ASC").Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *weeklyGoalRepository) CountByRoadmap(ctx context.Context, userID, roadmapType string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.WeeklyGoal{}).
		Where("user_id = ? AND roadmap_type = ?", userID, roadmapType).
		Count(&total).Error
	return total, err
}

func (r *weeklyGoalRepository) Delete(ctx context.Context, userID, id string) (DeleteCounts, error) {
	var counts DeleteCounts
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks := tx.Where("weekly_goal_id = ? AND user_id = ?", id, userID).Delete(&models.Task{})
		if tasks.Error != nil {
			return tasks.Error
		}

		goals := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.WeeklyGoal{})
		if goals.Error != nil {
			return goals.Error
		}
		if goals.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		counts = DeleteCounts{Goals: goals.RowsAffected, Tasks: tasks.RowsAffected}
		return nil
	})
	return counts, err
}

func (r *weeklyGoalRepository) DeleteByRoadmap(ctx context.Context, userID, roadmapType string) (DeleteCounts, error) {
	var counts DeleteCounts
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		goalIDs := tx.Model(&models.WeeklyGoal{}).
			Select("id").
			Where("user_id = ? AND roadmap_type = ?", userID, roadmapType)

		tasks := tx.Where("user_id = ? AND weekly_goal_id IN (?)", userID, goalIDs).Delete(&models.Task{})
		if tasks.Error != nil {
			return tasks.Error
		}

		goals := tx.Where("user_id = ? AND roadmap_type = ?", userID, roadmapType).Delete(&models.WeeklyGoal{})
		if goals.Error != nil {
			return goals.Error
		}

		if err := tx.Where("user_id = ? AND roadmap_type = ?", userID, roadmapType).Delete(&models.UserProgress{}).Error; err != nil {
			return err
		}

		counts = DeleteCounts{Goals: goals.RowsAffected, Tasks: tasks.RowsAffected}
		return nil
	})
	return counts, err
}
