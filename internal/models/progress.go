package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProgress stores the last computed completion snapshot per roadmap.
type UserProgress struct {
	ID                 string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID             string    `gorm:"size:64;not null;uniqueIndex:idx_user_progress_user_roadmap" json:"user_id"`
	RoadmapType        string    `gorm:"size:160;not null;uniqueIndex:idx_user_progress_user_roadmap" json:"roadmap_type"`
	TotalTasks         int       `gorm:"not null;default:0" json:"total_tasks"`
	CompletedTasks     int       `gorm:"not null;default:0" json:"completed_tasks"`
	ProgressPercentage int       `gorm:"not null;default:0" json:"progress_percentage"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName pins the table name used by the client contract.
func (UserProgress) TableName() string {
	return "user_progress"
}

// BeforeCreate assigns an identifier when missing.
func (p *UserProgress) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
