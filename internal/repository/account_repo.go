package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/studypath-api/internal/models"
)

// AccountRepository backs the email cooldown check and full account deletion.
type AccountRepository interface {
	InCooldown(ctx context.Context, email string, now time.Time) (bool, error)
	DeleteAccount(ctx context.Context, userID, email string, cooldownUntil time.Time) (models.AccountDeletion, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository constructs a repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// NormalizeEmail lowercases and trims an address for cooldown lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *accountRepository) InCooldown(ctx context.Context, email string, now time.Time) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.EmailCooldown{}).
		Where("email = ? AND until > ?", NormalizeEmail(email), now).
		Count(&total).Error
	return total > 0, err
}

// DeleteAccount removes every row owned by userID and records the cooldown in
// one transaction.
func (r *accountRepository) DeleteAccount(ctx context.Context, userID, email string, cooldownUntil time.Time) (models.AccountDeletion, error) {
	result := models.AccountDeletion{UserID: userID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks := tx.Where("user_id = ?", userID).Delete(&models.Task{})
		if tasks.Error != nil {
			return tasks.Error
		}
		goals := tx.Where("user_id = ?", userID).Delete(&models.WeeklyGoal{})
		if goals.Error != nil {
			return goals.Error
		}
		progress := tx.Where("user_id = ?", userID).Delete(&models.UserProgress{})
		if progress.Error != nil {
			return progress.Error
		}

		if normalized := NormalizeEmail(email); normalized != "" {
			cooldown := models.EmailCooldown{Email: normalized, Until: cooldownUntil}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "email"}},
				DoUpdates: clause.AssignmentColumns([]string{"until"}),
			}).Create(&cooldown).Error; err != nil {
				return err
			}
		}

		result.TasksDeleted = tasks.RowsAffected
		result.GoalsDeleted = goals.RowsAffected
		result.ProgressRows = progress.RowsAffected
		return nil
	})
	if err != nil {
		return models.AccountDeletion{Success: false, Message: "Account deletion failed", UserID: userID}, err
	}

	result.Success = true
	result.Message = "Account deleted successfully"
	return result, nil
}
