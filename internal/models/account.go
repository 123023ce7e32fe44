package models

import "time"

// EmailCooldown blocks re-registration of an address until the given instant.
type EmailCooldown struct {
	Email     string    `gorm:"size:255;primaryKey" json:"email"`
	Until     time.Time `gorm:"not null;index" json:"until"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountDeletion mirrors the response of the account deletion procedure.
type AccountDeletion struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	UserID       string `json:"user_id"`
	GoalsDeleted int64  `json:"goals_deleted"`
	TasksDeleted int64  `json:"tasks_deleted"`
	ProgressRows int64  `json:"progress_deleted"`
}
