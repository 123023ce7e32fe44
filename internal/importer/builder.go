package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/datatypes"

	"github.com/noah-isme/studypath-api/internal/models"
)

// Builder steps.
const (
	StepDetails = 1
	StepWeeks   = 2
)

// Field names a list on a draft week.
type Field string

const (
	FieldTopics       Field = "topics"
	FieldGoals        Field = "goals"
	FieldDeliverables Field = "deliverables"
)

var (
	// ErrWeekOutOfRange is returned when a week index does not exist.
	ErrWeekOutOfRange = errors.New("week index out of range")
	// ErrItemOutOfRange is returned when a list index does not exist.
	ErrItemOutOfRange = errors.New("item index out of range")
	// ErrUnknownField is returned for a list name other than topics, goals or deliverables.
	ErrUnknownField = errors.New("unknown week field")
)

// DraftWeek is a week being edited in the builder.
type DraftWeek struct {
	WeekNumber   string   `json:"week_number"`
	FocusArea    string   `json:"focus_area"`
	Topics       []string `json:"topics"`
	Goals        []string `json:"goals"`
	Deliverables []string `json:"deliverables"`
}

func newDraftWeek(number int) DraftWeek {
	return DraftWeek{
		WeekNumber:   strconv.Itoa(number),
		Topics:       []string{""},
		Goals:        []string{""},
		Deliverables: []string{""},
	}
}

func (w *DraftWeek) list(field Field) (*[]string, error) {
	switch field {
	case FieldTopics:
		return &w.Topics, nil
	case FieldGoals:
		return &w.Goals, nil
	case FieldDeliverables:
		return &w.Deliverables, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
}

// Builder assembles a custom roadmap in two steps: details, then weeks.
type Builder struct {
	validator   *Validator
	step        int
	title       string
	description string
	weeks       []DraftWeek
}

// NewBuilder starts on the details step with a single empty week.
func NewBuilder(validator *Validator) *Builder {
	return &Builder{
		validator: validator,
		step:      StepDetails,
		weeks:     []DraftWeek{newDraftWeek(1)},
	}
}

// Step returns the current step.
func (b *Builder) Step() int { return b.step }

// Title returns the cleaned title.
func (b *Builder) Title() string { return b.title }

// Description returns the cleaned description.
func (b *Builder) Description() string { return b.description }

// Weeks returns a copy of the draft weeks.
func (b *Builder) Weeks() []DraftWeek {
	out := make([]DraftWeek, len(b.weeks))
	copy(out, b.weeks)
	return out
}

// SetDetails records the title and description and advances to the weeks
// step when both are present. Any problems are returned in display order.
func (b *Builder) SetDetails(title, description string) []string {
	b.title = b.validator.cleanString(title)
	b.description = b.validator.cleanString(description)

	problems := b.detailErrors()
	if len(problems) == 0 {
		b.step = StepWeeks
	}
	return problems
}

func (b *Builder) detailErrors() []string {
	var problems []string
	if b.title == "" {
		problems = append(problems, "Please enter a roadmap title")
	}
	if b.description == "" {
		problems = append(problems, "Please enter a roadmap description")
	}
	return problems
}

// Back returns to the details step.
func (b *Builder) Back() { b.step = StepDetails }

// SetWeeks replaces the draft weeks wholesale. A week without a number is
// numbered by its position.
func (b *Builder) SetWeeks(weeks []DraftWeek) {
	b.weeks = make([]DraftWeek, len(weeks))
	copy(b.weeks, weeks)
	for i := range b.weeks {
		b.weeks[i].WeekNumber = strings.TrimSpace(b.weeks[i].WeekNumber)
		if b.weeks[i].WeekNumber == "" {
			b.weeks[i].WeekNumber = strconv.Itoa(i + 1)
		}
	}
}

// AddWeek appends an empty week numbered after the current count.
func (b *Builder) AddWeek() DraftWeek {
	week := newDraftWeek(len(b.weeks) + 1)
	b.weeks = append(b.weeks, week)
	return week
}

// RemoveWeek drops the week at index unless it is the last one left.
func (b *Builder) RemoveWeek(index int) bool {
	if index < 0 || index >= len(b.weeks) || len(b.weeks) <= 1 {
		return false
	}
	b.weeks = append(b.weeks[:index], b.weeks[index+1:]...)
	return true
}

// SetFocus updates the focus area of a week.
func (b *Builder) SetFocus(week int, focus string) error {
	if week < 0 || week >= len(b.weeks) {
		return ErrWeekOutOfRange
	}
	b.weeks[week].FocusArea = focus
	return nil
}

// AddItem appends an empty slot to a week list.
func (b *Builder) AddItem(week int, field Field) error {
	list, err := b.listFor(week, field)
	if err != nil {
		return err
	}
	*list = append(*list, "")
	return nil
}

// SetItem overwrites one entry of a week list.
func (b *Builder) SetItem(week int, field Field, index int, value string) error {
	list, err := b.listFor(week, field)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(*list) {
		return ErrItemOutOfRange
	}
	(*list)[index] = value
	return nil
}

// RemoveItem drops one entry of a week list, always keeping one slot.
func (b *Builder) RemoveItem(week int, field Field, index int) (bool, error) {
	list, err := b.listFor(week, field)
	if err != nil {
		return false, err
	}
	if index < 0 || index >= len(*list) || len(*list) <= 1 {
		return false, nil
	}
	*list = append((*list)[:index], (*list)[index+1:]...)
	return true, nil
}

func (b *Builder) listFor(week int, field Field) (*[]string, error) {
	if week < 0 || week >= len(b.weeks) {
		return nil, ErrWeekOutOfRange
	}
	return b.weeks[week].list(field)
}

// Submit validates every week before producing a plan, so nothing is written
// while any week is incomplete.
func (b *Builder) Submit() (Plan, Result) {
	var result Result
	result.Errors = append(result.Errors, b.detailErrors()...)
	if len(b.weeks) == 0 {
		result.errorf("Roadmap must have at least one week")
	}

	reference := models.Reference{
		"type":        "Custom Roadmap",
		"title":       b.title,
		"description": b.description,
	}
	plan := Plan{RoadmapType: models.RoadmapTypeCustom, Title: b.title}

	for _, week := range b.weeks {
		focus := b.validator.cleanString(week.FocusArea)
		topics := b.cleanList(week.Topics)
		goals := b.cleanList(week.Goals)
		deliverables := b.cleanList(week.Deliverables)

		before := len(result.Errors)
		if focus == "" {
			result.errorf("Week %s must have a focus area", week.WeekNumber)
		}
		if len(topics) == 0 {
			result.errorf("Week %s must have at least one topic", week.WeekNumber)
		}
		if len(goals) == 0 {
			result.errorf("Week %s must have at least one goal", week.WeekNumber)
		}
		if len(deliverables) == 0 {
			result.errorf("Week %s must have at least one deliverable", week.WeekNumber)
		}
		if len(result.Errors) != before {
			continue
		}

		plan.Weeks = append(plan.Weeks, newWeekPlan(models.WeeklyGoal{
			RoadmapType:  models.RoadmapTypeCustom,
			WeekNumber:   week.WeekNumber,
			FocusArea:    focus,
			Topics:       datatypes.JSONSlice[string](topics),
			Goals:        datatypes.JSONSlice[string](goals),
			Deliverables: datatypes.JSONSlice[string](deliverables),
			Reference:    datatypes.JSONSlice[models.Reference]{reference.Clone()},
		}))
	}

	if !result.Valid() {
		return Plan{}, result
	}
	return plan, result
}

func (b *Builder) cleanList(items []string) []string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if s := b.validator.cleanString(item); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return cleaned
}
