package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/studypath-api/internal/database"
	"github.com/noah-isme/studypath-api/internal/models"
	"github.com/noah-isme/studypath-api/internal/repository"
)

const twoWeekRoadmap = `{
  "title": "Two Weeks",
  "description": "A short plan",
  "weeks": [
    {"week": "1", "focus": "Foundations", "topics": ["algebra"], "goals": ["review"], "deliverables": ["Notes", "Quiz"]},
    {"week": "2", "focus": "Circuits", "topics": ["gates"], "goals": ["build"], "deliverables": ["Bell state"]}
  ]
}`

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type recordedEvent struct {
	Name    string
	Payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, name string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Name: name, Payload: payload})
	return nil
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.events))
	for _, event := range p.events {
		names = append(names, event.Name)
	}
	return names
}

type recordingInvalidator struct {
	users []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, userID string) {
	r.users = append(r.users, userID)
}

// failingGoalRepo fails Create once succeeded creates reach failAfter.
type failingGoalRepo struct {
	repository.WeeklyGoalRepository
	failAfter int
	created   int
}

func (r *failingGoalRepo) Create(ctx context.Context, goal *models.WeeklyGoal) error {
	if r.created >= r.failAfter {
		return errors.New("insert rejected")
	}
	r.created++
	return r.WeeklyGoalRepository.Create(ctx, goal)
}

// failingTaskRepo rejects tasks whose title matches reject.
type failingTaskRepo struct {
	repository.TaskRepository
	reject string
}

func (r *failingTaskRepo) Create(ctx context.Context, task *models.Task) error {
	if task.Title == r.reject {
		return errors.New("insert rejected")
	}
	return r.TaskRepository.Create(ctx, task)
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, userID string) int64 {
	t.Helper()
	var total int64
	require.NoError(t, db.Model(model).Where("user_id = ?", userID).Count(&total).Error)
	return total
}
