package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/studypath-api/internal/models"
)

// UserProgressRepository stores per-roadmap completion snapshots.
type UserProgressRepository interface {
	Upsert(ctx context.Context, progress *models.UserProgress) error
	Get(ctx context.Context, userID, roadmapType string) (models.UserProgress, error)
	ListByUser(ctx context.Context, userID string) ([]models.UserProgress, error)
}

type userProgressRepository struct {
	db *gorm.DB
}

// NewUserProgressRepository constructs a repository.
func NewUserProgressRepository(db *gorm.DB) UserProgressRepository {
	return &userProgressRepository{db: db}
}

func (r *userProgressRepository) Upsert(ctx context.Context, progress *models.UserProgress) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "roadmap_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_tasks", "completed_tasks", "progress_percentage", "updated_at"}),
	}).Create(progress).Error
}

func (r *userProgressRepository) Get(ctx context.Context, userID, roadmapType string) (models.UserProgress, error) {
	var progress models.UserProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND roadmap_type = ?", userID, roadmapType).
		First(&progress).Error
	return progress, err
}

func (r *userProgressRepository) ListByUser(ctx context.Context, userID string) ([]models.UserProgress, error) {
	var rows []models.UserProgress
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("roadmap_type ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
