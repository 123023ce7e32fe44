package progress

import (
	"sort"
	"strconv"
	"strings"

	"github.com/noah-isme/studypath-api/internal/models"
)

// WeekIndex parses a week number into its numeric position. Custom and imported
// roadmaps use labels such as "advanced-1"; those report ok=false.
func WeekIndex(weekNumber string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(weekNumber))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// SortWeeks orders goals by numeric week first, then non-numeric labels
// lexically. Ties fall back to creation time. The input slice is not modified.
func SortWeeks(goals []models.WeeklyGoal) []models.WeeklyGoal {
	sorted := make([]models.WeeklyGoal, len(goals))
	copy(sorted, goals)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		an, aNumeric := WeekIndex(a.WeekNumber)
		bn, bNumeric := WeekIndex(b.WeekNumber)
		switch {
		case aNumeric && !bNumeric:
			return true
		case !aNumeric && bNumeric:
			return false
		case aNumeric && bNumeric && an != bn:
			return an < bn
		case !aNumeric && !bNumeric && a.WeekNumber != b.WeekNumber:
			return a.WeekNumber < b.WeekNumber
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return sorted
}

// Navigator steps through the numeric weeks of a single roadmap.
type Navigator struct {
	numeric   []models.WeeklyGoal
	unordered []models.WeeklyGoal
	current   int
}

// NewNavigator splits goals into numeric and non-numeric weeks and positions
// the cursor on current, clamped to [1, numeric week count].
func NewNavigator(goals []models.WeeklyGoal, current int) *Navigator {
	nav := &Navigator{}
	for _, goal := range SortWeeks(goals) {
		if _, ok := WeekIndex(goal.WeekNumber); ok {
			nav.numeric = append(nav.numeric, goal)
			continue
		}
		nav.unordered = append(nav.unordered, goal)
	}
	nav.current = nav.Clamp(current)
	return nav
}

// Len is the number of numeric weeks.
func (n *Navigator) Len() int { return len(n.numeric) }

// Current returns the selected week, or 0 when the roadmap has no numeric weeks.
func (n *Navigator) Current() int { return n.current }

// Clamp bounds week to [1, Len()].
func (n *Navigator) Clamp(week int) int {
	if len(n.numeric) == 0 {
		return 0
	}
	if week < 1 {
		return 1
	}
	if week > len(n.numeric) {
		return len(n.numeric)
	}
	return week
}

func (n *Navigator) Prev() int     { return n.Clamp(n.current - 1) }
func (n *Navigator) Next() int     { return n.Clamp(n.current + 1) }
func (n *Navigator) HasPrev() bool { return n.current > 1 }
func (n *Navigator) HasNext() bool { return n.current > 0 && n.current < len(n.numeric) }

// Week returns the goal at the current position among the sorted numeric
// weeks, so roadmaps numbered 5, 6, 7 or with gaps still resolve.
func (n *Navigator) Week() (models.WeeklyGoal, bool) {
	if n.current < 1 || n.current > len(n.numeric) {
		return models.WeeklyGoal{}, false
	}
	return n.numeric[n.current-1], true
}

// Unordered lists weeks excluded from numeric navigation, sorted by label.
func (n *Navigator) Unordered() []models.WeeklyGoal {
	out := make([]models.WeeklyGoal, len(n.unordered))
	copy(out, n.unordered)
	return out
}

// Position is the serialisable navigation state.
type Position struct {
	Current   int      `json:"current"`
	Total     int      `json:"total"`
	Prev      int      `json:"prev"`
	Next      int      `json:"next"`
	HasPrev   bool     `json:"has_prev"`
	HasNext   bool     `json:"has_next"`
	Unordered []string `json:"unordered"`
}

// Position snapshots the navigator.
func (n *Navigator) Position() Position {
	labels := make([]string, 0, len(n.unordered))
	for _, goal := range n.unordered {
		labels = append(labels, goal.WeekNumber)
	}
	return Position{
		Current:   n.current,
		Total:     len(n.numeric),
		Prev:      n.Prev(),
		Next:      n.Next(),
		HasPrev:   n.HasPrev(),
		HasNext:   n.HasNext(),
		Unordered: labels,
	}
}
