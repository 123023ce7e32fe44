package repository

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/studypath-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.WeeklyGoal{}, &models.Task{}, &models.UserProgress{}, &models.EmailCooldown{}))
	return db
}

func seedGoal(t *testing.T, db *gorm.DB, userID, roadmapType, week string, deliverables ...string) models.WeeklyGoal {
	t.Helper()
	goal := models.WeeklyGoal{
		UserID:       userID,
		RoadmapType:  roadmapType,
		WeekNumber:   week,
		FocusArea:    "Focus " + week,
		Deliverables: deliverables,
	}
	require.NoError(t, db.Create(&goal).Error)
	for _, deliverable := range deliverables {
		task := models.Task{UserID: userID, WeeklyGoalID: goal.ID, Title: deliverable}
		require.NoError(t, db.Create(&task).Error)
	}
	return goal
}
