package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/studypath-api/internal/dto"
	"github.com/noah-isme/studypath-api/internal/importer"
	"github.com/noah-isme/studypath-api/internal/observability"
	"github.com/noah-isme/studypath-api/internal/repository"
)

// planWriter persists a plan one row at a time. A goal insert failure stops
// the write; a task insert failure is logged and skipped.
type planWriter struct {
	goals  repository.WeeklyGoalRepository
	tasks  repository.TaskRepository
	logger zerolog.Logger
}

func (w planWriter) write(ctx context.Context, userID string, plan importer.Plan) (dto.ImportOutcome, error) {
	outcome := dto.ImportOutcome{RoadmapType: plan.RoadmapType, Title: plan.Title, Warnings: []string{}}

	for _, week := range plan.Weeks {
		goal := week.Goal
		goal.ID = ""
		goal.UserID = userID

		if err := w.goals.Create(ctx, &goal); err != nil {
			w.logger.Error().Err(err).
				Str("user_id", userID).
				Str("roadmap_type", plan.RoadmapType).
				Str("week_number", goal.WeekNumber).
				Msg("failed to create weekly goal")
			return outcome, &ImportError{Week: goal.WeekNumber, Err: err, Outcome: outcome}
		}

		if strings.HasPrefix(goal.WeekNumber, "advanced-") {
			outcome.AdvancedTopicsCreated++
		} else {
			outcome.WeeksCreated++
		}
		observability.ImportedRows().WithLabelValues("weekly_goals").Inc()

		for _, planned := range week.Tasks {
			task := planned
			task.ID = ""
			task.UserID = userID
			task.WeeklyGoalID = goal.ID
			task.SetCompleted(false, goal.CreatedAt)

			if err := w.tasks.Create(ctx, &task); err != nil {
				outcome.TasksFailed++
				w.logger.Warn().Err(err).
					Str("user_id", userID).
					Str("weekly_goal_id", goal.ID).
					Str("task_title", task.Title).
					Msg("failed to create task, continuing")
				continue
			}
			outcome.TasksCreated++
			observability.ImportedRows().WithLabelValues("tasks").Inc()
		}
	}

	return outcome, nil
}
