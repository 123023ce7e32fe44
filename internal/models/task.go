package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a checkable deliverable attached to a weekly goal.
type Task struct {
	ID           string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       string     `gorm:"size:64;not null;index" json:"user_id"`
	WeeklyGoalID string     `gorm:"type:varchar(36);not null;index" json:"weekly_goal_id"`
	Title        string     `gorm:"type:text;not null" json:"title"`
	Completed    bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt  *time.Time `json:"completed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeCreate assigns an identifier when missing.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(t.ID) == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// SetCompleted flips the completion flag; completed_at follows it exactly.
func (t *Task) SetCompleted(completed bool, at time.Time) {
	t.Completed = completed
	if completed {
		stamp := at
		t.CompletedAt = &stamp
		return
	}
	t.CompletedAt = nil
}
