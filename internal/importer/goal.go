package importer

import (
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/noah-isme/studypath-api/internal/models"
)

// CustomGoal is a single goal authored outside of any roadmap.
type CustomGoal struct {
	Title       string
	Description string
	Category    string
	Priority    string
	Deadline    *time.Time
	Tags        []string
}

// GoalPlan turns a custom goal into a one-week plan with a single task. The
// week number embeds the creation instant in unix milliseconds.
func (v *Validator) GoalPlan(goal CustomGoal, now time.Time) Plan {
	title := v.cleanString(goal.Title)
	description := v.cleanString(goal.Description)

	tags := make([]interface{}, 0, len(goal.Tags))
	for _, tag := range goal.Tags {
		if cleaned := v.cleanString(tag); cleaned != "" {
			tags = append(tags, cleaned)
		}
	}

	reference := models.Reference{
		"type":     "Custom Goal",
		"title":    title,
		"category": goal.Category,
		"priority": goal.Priority,
		"tags":     tags,
	}
	if goal.Deadline != nil {
		reference["deadline"] = goal.Deadline.Format("2006-01-02")
	}

	week := newWeekPlan(models.WeeklyGoal{
		RoadmapType:  models.RoadmapTypeCustom,
		WeekNumber:   fmt.Sprintf("custom-%d", now.UnixMilli()),
		FocusArea:    title,
		Topics:       datatypes.JSONSlice[string]{description},
		Goals:        datatypes.JSONSlice[string]{title},
		Deliverables: datatypes.JSONSlice[string]{fmt.Sprintf("Complete: %s", title)},
		Reference:    datatypes.JSONSlice[models.Reference]{reference},
	})
	return Plan{RoadmapType: models.RoadmapTypeCustom, Title: title, Weeks: []WeekPlan{week}}
}
