package importer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studypath-api/internal/models"
)

func TestRoadmapType(t *testing.T) {
	require.Equal(t, "quantum_computing_101", RoadmapType("  Quantum   Computing 101 "))
	require.Equal(t, "c_basics", RoadmapType("C++ Basics"))
	require.Equal(t, "rd", RoadmapType("R&D"))
	require.Equal(t, DefaultImportType, RoadmapType("!!!"))
}

func TestPlanFromDocumentTwoWeeks(t *testing.T) {
	raw := `{
	  "title": "Two Weeks",
	  "weeks": [
	    {"week": "1", "focus": "A", "topics": ["t"], "goals": ["g"], "deliverables": ["A", "B"]},
	    {"week": "2", "focus": "C", "topics": ["t"], "goals": ["g"], "deliverables": ["C"]}
	  ]
	}`
	doc, result := NewValidator(nil).Validate([]byte(raw))
	require.True(t, result.Valid())

	plan := PlanFromDocument(doc)
	require.Equal(t, "two_weeks", plan.RoadmapType)
	require.Len(t, plan.Weeks, 2)
	require.Equal(t, 3, plan.TaskCount())
	for _, week := range plan.Weeks {
		require.Equal(t, "two_weeks", week.Goal.RoadmapType)
		for _, task := range week.Tasks {
			require.False(t, task.Completed)
			require.Nil(t, task.CompletedAt)
		}
	}
	require.Equal(t, "A", plan.Weeks[0].Tasks[0].Title)
	require.Equal(t, "C", plan.Weeks[1].Tasks[0].Title)

	metadata := plan.Weeks[0].Goal.Reference[len(plan.Weeks[0].Goal.Reference)-1]
	require.Equal(t, "Roadmap Metadata", metadata.Type())
	require.Equal(t, "Imported from JSON document", metadata["description"])
}

func TestPlanFromDocumentIgnoresDocumentRoadmapType(t *testing.T) {
	raw := `{
	  "title": "Python Mastery",
	  "roadmap_type": "custom_python",
	  "weeks": [
	    {"week": "1", "focus": "Syntax", "topics": ["t"], "goals": ["g"], "deliverables": ["d"]}
	  ],
	  "advanced_topics": [{"topic": "Async", "description": "asyncio"}]
	}`
	doc, result := NewValidator(nil).Validate([]byte(raw))
	require.True(t, result.Valid())

	plan := PlanFromDocument(doc)
	require.Equal(t, "python_mastery", plan.RoadmapType)
	require.Len(t, plan.Weeks, 2)
	for _, week := range plan.Weeks {
		require.Equal(t, "python_mastery", week.Goal.RoadmapType)
	}
}

func TestPlanKeepsUnknownReferenceFields(t *testing.T) {
	raw := `{"title":"X","weeks":[{"week":"1","focus":"F","topics":["t"],"goals":["g"],"deliverables":["d"],
	  "reference":[{"type":"Book","book":"X","custom_field":"Y"},{"url":"https://example.com"}]}]}`
	doc, result := NewValidator(nil).Validate([]byte(raw))
	require.True(t, result.Valid())

	refs := PlanFromDocument(doc).Weeks[0].Goal.Reference
	require.Len(t, refs, 3)
	require.Equal(t, "Y", refs[0]["custom_field"])
	require.Equal(t, "X", refs[0].Title())
	require.Equal(t, "Reference", refs[1].Type())
	require.Equal(t, "Untitled", refs[1].Title())
	require.Equal(t, "https://example.com", refs[1].URL())

	encoded, err := json.Marshal(refs)
	require.NoError(t, err)
	var decoded []models.Reference
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.Equal(t, "Y", decoded[0]["custom_field"])
}

func TestPlanAdvancedTopicsBecomeWeeks(t *testing.T) {
	raw := `{"title":"Deep Dive","weeks":[{"week":"1","focus":"F","topics":["t"],"goals":["g"],"deliverables":["d"]}],
	  "advanced_topics":[
	    {"topic":"Error Correction","description":"Surface codes"},
	    {"topic":"Pulses","description":"Pulse level control","deliverables":["Gate calibration","Drag pulse"],"recommended_time":"2 weeks"}
	  ]}`
	doc, result := NewValidator(nil).Validate([]byte(raw))
	require.True(t, result.Valid())

	plan := PlanFromDocument(doc)
	require.Len(t, plan.Weeks, 3)
	require.Equal(t, 4, plan.TaskCount())

	first := plan.Weeks[1]
	require.Equal(t, "advanced-1", first.Goal.WeekNumber)
	require.Equal(t, "deep_dive", first.Goal.RoadmapType)
	require.Equal(t, "Advanced Topic: Error Correction", first.Goal.FocusArea)
	require.Equal(t, []string{"Surface codes"}, []string(first.Goal.Topics))
	require.Equal(t, []string{"Master Error Correction"}, []string(first.Goal.Goals))
	require.Equal(t, "Complete study of Error Correction", first.Tasks[0].Title)
	require.Equal(t, "Variable", first.Goal.Reference[0]["recommended_time"])

	second := plan.Weeks[2]
	require.Equal(t, "advanced-2", second.Goal.WeekNumber)
	require.Len(t, second.Tasks, 2)
	require.Equal(t, "2 weeks", second.Goal.Reference[0]["recommended_time"])
}

func TestWithRoadmapTypeCopies(t *testing.T) {
	doc, _ := NewValidator(nil).Validate([]byte(singleWeek))
	plan := PlanFromDocument(doc)
	retyped := plan.WithRoadmapType("qiskit")

	require.Equal(t, "qiskit", retyped.RoadmapType)
	require.Equal(t, "qiskit", retyped.Weeks[0].Goal.RoadmapType)
	require.Equal(t, "x", plan.Weeks[0].Goal.RoadmapType)
}
