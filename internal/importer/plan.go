package importer

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/datatypes"

	"github.com/noah-isme/studypath-api/internal/models"
)

// DefaultImportType is used when a title yields no usable roadmap type.
const DefaultImportType = "json_import"

// WeekPlan is one weekly goal and the tasks created from its deliverables.
type WeekPlan struct {
	Goal  models.WeeklyGoal
	Tasks []models.Task
}

// Plan is the ordered set of rows to persist for one roadmap.
type Plan struct {
	RoadmapType string
	Title       string
	Weeks       []WeekPlan
}

// TaskCount is the number of task rows the plan creates.
func (p Plan) TaskCount() int {
	total := 0
	for _, week := range p.Weeks {
		total += len(week.Tasks)
	}
	return total
}

// WithRoadmapType returns a copy of the plan with every goal re-typed.
func (p Plan) WithRoadmapType(roadmapType string) Plan {
	out := Plan{RoadmapType: roadmapType, Title: p.Title, Weeks: make([]WeekPlan, len(p.Weeks))}
	for i, week := range p.Weeks {
		week.Goal.RoadmapType = roadmapType
		week.Tasks = append([]models.Task(nil), week.Tasks...)
		out.Weeks[i] = week
	}
	return out
}

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	nonTypeSymbols = regexp.MustCompile(`[^a-z0-9_]`)
)

// RoadmapType derives a roadmap category key from a title: lowercased,
// whitespace collapsed to underscores and every other symbol dropped.
func RoadmapType(title string) string {
	key := strings.ToLower(strings.TrimSpace(title))
	key = whitespaceRun.ReplaceAllString(key, "_")
	key = nonTypeSymbols.ReplaceAllString(key, "")
	if key == "" {
		return DefaultImportType
	}
	return key
}

// PlanFromDocument expands a validated document into rows. The roadmap type
// always comes from the title; a roadmap_type key in the document is ignored.
// Advanced topics become extra weeks numbered advanced-<n>.
func PlanFromDocument(doc Document) Plan {
	roadmapType := RoadmapType(doc.Title)

	description := doc.Description
	if description == "" {
		description = "Imported from JSON document"
	}
	metadata := models.Reference{
		"type":            "Roadmap Metadata",
		"title":           doc.Title,
		"description":     description,
		"prerequisites":   listOrEmpty(doc.Prerequisites),
		"checklist":       listOrEmpty(doc.Checklist),
		"advanced_topics": listOrEmpty(doc.rawAdvanced),
	}

	plan := Plan{RoadmapType: roadmapType, Title: doc.Title}
	for _, week := range doc.Weeks {
		refs := make([]models.Reference, 0, len(week.References)+1)
		for _, ref := range week.References {
			refs = append(refs, withReferenceDefaults(ref))
		}
		refs = append(refs, metadata.Clone())

		plan.Weeks = append(plan.Weeks, newWeekPlan(models.WeeklyGoal{
			RoadmapType:  roadmapType,
			WeekNumber:   week.Number,
			FocusArea:    week.Focus,
			Topics:       datatypes.JSONSlice[string](week.Topics),
			Goals:        datatypes.JSONSlice[string](week.Goals),
			Deliverables: datatypes.JSONSlice[string](week.Deliverables),
			Reference:    datatypes.JSONSlice[models.Reference](refs),
		}))
	}

	for _, topic := range doc.AdvancedTopics {
		plan.Weeks = append(plan.Weeks, advancedWeek(roadmapType, topic))
	}
	return plan
}

func advancedWeek(roadmapType string, topic AdvancedTopic) WeekPlan {
	topics := []string{topic.Description}
	if topic.Description == "" {
		topics = []string{topic.Topic}
	}
	deliverables := topic.Deliverables
	if len(deliverables) == 0 {
		deliverables = []string{fmt.Sprintf("Complete study of %s", topic.Topic)}
	}
	recommended := topic.RecommendedTime
	if recommended == "" {
		recommended = "Variable"
	}

	refs := make([]models.Reference, 0, len(topic.References)+1)
	for _, ref := range topic.References {
		refs = append(refs, ref.Clone())
	}
	refs = append(refs, models.Reference{
		"type":             "Advanced Topic",
		"title":            topic.Topic,
		"description":      topic.Description,
		"recommended_time": recommended,
	})

	return newWeekPlan(models.WeeklyGoal{
		RoadmapType:  roadmapType,
		WeekNumber:   fmt.Sprintf("advanced-%d", topic.Index),
		FocusArea:    fmt.Sprintf("Advanced Topic: %s", topic.Topic),
		Topics:       datatypes.JSONSlice[string](topics),
		Goals:        datatypes.JSONSlice[string]{fmt.Sprintf("Master %s", topic.Topic)},
		Deliverables: datatypes.JSONSlice[string](deliverables),
		Reference:    datatypes.JSONSlice[models.Reference](refs),
	})
}

// newWeekPlan creates one pending task per deliverable.
func newWeekPlan(goal models.WeeklyGoal) WeekPlan {
	tasks := make([]models.Task, 0, len(goal.Deliverables))
	for _, deliverable := range goal.Deliverables {
		tasks = append(tasks, models.Task{Title: deliverable})
	}
	return WeekPlan{Goal: goal, Tasks: tasks}
}

// withReferenceDefaults fills type and title when absent and keeps every other key.
func withReferenceDefaults(ref models.Reference) models.Reference {
	out := ref.Clone()
	if out.Type() == "" {
		out["type"] = "Reference"
	}
	if out.Title() == "" {
		title := ref.Book()
		if title == "" {
			title = "Untitled"
		}
		out["title"] = title
	}
	return out
}

func listOrEmpty(items []interface{}) []interface{} {
	if items == nil {
		return []interface{}{}
	}
	return items
}
