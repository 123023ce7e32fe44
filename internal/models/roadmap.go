package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoadmapTypeCustom is the category assigned to roadmaps authored through the builder or single-goal form.
const RoadmapTypeCustom = "custom"

// WeeklyGoal is one week (or synthetic week) of a user's roadmap.
type WeeklyGoal struct {
	ID           string                         `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       string                         `gorm:"size:64;not null;index:idx_weekly_goals_user_roadmap" json:"user_id"`
	RoadmapType  string                         `gorm:"size:160;not null;index:idx_weekly_goals_user_roadmap" json:"roadmap_type"`
	WeekNumber   string                         `gorm:"size:64;not null" json:"week_number"`
	FocusArea    string                         `gorm:"type:text;not null" json:"focus_area"`
	Topics       datatypes.JSONSlice[string]    `gorm:"type:json" json:"topics"`
	Goals        datatypes.JSONSlice[string]    `gorm:"type:json" json:"goals"`
	Deliverables datatypes.JSONSlice[string]    `gorm:"type:json" json:"deliverables"`
	Reference    datatypes.JSONSlice[Reference] `gorm:"column:reference;type:json" json:"reference"`
	CreatedAt    time.Time                      `json:"created_at"`
	UpdatedAt    time.Time                      `json:"updated_at"`
}

// BeforeCreate assigns an identifier and normalises list columns.
func (g *WeeklyGoal) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(g.ID) == "" {
		g.ID = uuid.NewString()
	}
	g.normalise()
	return nil
}

// BeforeSave keeps list columns encoded as arrays rather than null.
func (g *WeeklyGoal) BeforeSave(tx *gorm.DB) error {
	g.normalise()
	return nil
}

func (g *WeeklyGoal) normalise() {
	if g.Topics == nil {
		g.Topics = datatypes.JSONSlice[string]{}
	}
	if g.Goals == nil {
		g.Goals = datatypes.JSONSlice[string]{}
	}
	if g.Deliverables == nil {
		g.Deliverables = datatypes.JSONSlice[string]{}
	}
	if g.Reference == nil {
		g.Reference = datatypes.JSONSlice[Reference]{}
	}
}
