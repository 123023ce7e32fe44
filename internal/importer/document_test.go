package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const singleWeek = `{
  "title": "X",
  "weeks": [{"week": "1", "focus": "F", "topics": ["t"], "goals": ["g"], "deliverables": ["d"]}]
}`

func containsAll(t *testing.T, messages []string, parts ...string) {
	t.Helper()
	for _, msg := range messages {
		matched := true
		for _, part := range parts {
			if !strings.Contains(msg, part) {
				matched = false
				break
			}
		}
		if matched {
			return
		}
	}
	t.Fatalf("no message contains %v in %v", parts, messages)
}

func TestValidateRejectsMalformedJSON(t *testing.T) {
	v := NewValidator(nil)
	for _, raw := range []string{"", "{", "[1,2]", `"title"`, `{"title":"X"} {}`} {
		_, result := v.Validate([]byte(raw))
		require.False(t, result.Valid(), raw)
		require.Len(t, result.Errors, 1, raw)
		require.True(t, strings.HasPrefix(result.Errors[0], "JSON parsing error: "), raw)
	}
}

func TestValidateEmptyWeeks(t *testing.T) {
	_, result := NewValidator(nil).Validate([]byte(`{"title":"X","weeks":[]}`))
	require.False(t, result.Valid())
	containsAll(t, result.Errors, "Weeks array cannot be empty")
}

func TestValidateEmptyDeliverables(t *testing.T) {
	raw := `{"title":"X","weeks":[{"week":"1","focus":"F","topics":["t"],"goals":["g"],"deliverables":[]}]}`
	_, result := NewValidator(nil).Validate([]byte(raw))
	require.False(t, result.Valid())
	containsAll(t, result.Errors, "Week 1", "deliverables")
}

func TestValidateSingleWeekWarnsAboutReferences(t *testing.T) {
	doc, result := NewValidator(nil).Validate([]byte(singleWeek))
	require.True(t, result.Valid())
	require.Empty(t, result.Errors)
	require.Equal(t, []string{"Week 1: No references provided (optional)"}, result.Warnings)
	require.Len(t, doc.Weeks, 1)
	require.Equal(t, "F", doc.Weeks[0].Focus)
}

func TestValidateCollectsEveryError(t *testing.T) {
	raw := `{
	  "weeks": [
	    {"focus": 3, "topics": "x", "goals": [" ", ""], "deliverables": ["ok", 4]},
	    "nope"
	  ]
	}`
	_, result := NewValidator(nil).Validate([]byte(raw))
	require.False(t, result.Valid())
	require.Equal(t, []string{
		"Missing or invalid title field",
		"Week 1: Missing week number",
		"Week 1: Missing or invalid focus area",
		"Week 1: Missing or empty topics array",
		"Week 1: Missing or empty goals array",
		"Week 1: deliverables array must contain only strings",
		"Week 2: Invalid week entry",
	}, result.Errors)
}

func TestValidateFiltersBlankEntriesBeforeCounting(t *testing.T) {
	raw := `{"title":"X","weeks":[{"week":2,"focus":" F ","topics":["  ","t"],"goals":["g",""],"deliverables":["d"],"references":[{"title":"R"}]}]}`
	doc, result := NewValidator(nil).Validate([]byte(raw))
	require.True(t, result.Valid())
	require.Empty(t, result.Warnings)
	require.Equal(t, "2", doc.Weeks[0].Number)
	require.Equal(t, "F", doc.Weeks[0].Focus)
	require.Equal(t, []string{"t"}, doc.Weeks[0].Topics)
	require.Equal(t, []string{"g"}, doc.Weeks[0].Goals)
}

func TestValidateOptionalSectionsOnlyWarn(t *testing.T) {
	raw := `{
	  "title": "X",
	  "weeks": [{"week": "1", "focus": "F", "topics": ["t"], "goals": ["g"], "deliverables": ["d"], "reference": [{"type": "Book"}, 7]}],
	  "advanced_topics": [{"topic": "Noise"}, {"description": "no name"}],
	  "prerequisites": [],
	  "checklist": []
	}`
	doc, result := NewValidator(nil).Validate([]byte(raw))
	require.True(t, result.Valid())
	require.Equal(t, []string{
		"Week 1: Reference 2 is not an object and was skipped",
		"Advanced topic 1: Missing topic name or description",
		"Advanced topic 2: Missing topic name or description",
		"Prerequisites array is empty",
		"Checklist array is empty",
	}, result.Warnings)
	require.Len(t, doc.AdvancedTopics, 1)
	require.Equal(t, "Noise", doc.AdvancedTopics[0].Topic)
}

func TestValidatorStripsMarkup(t *testing.T) {
	raw := `{"title":"<b>Rust</b> & Go","weeks":[{"week":"1","focus":"<script>alert(1)</script>Ownership","topics":["<i>borrow</i>"],"goals":["g"],"deliverables":["d"]}]}`
	doc, result := NewValidator(nil).Validate([]byte(raw))
	require.True(t, result.Valid())
	require.Equal(t, "Rust & Go", doc.Title)
	require.Equal(t, "Ownership", doc.Weeks[0].Focus)
	require.Equal(t, []string{"borrow"}, doc.Weeks[0].Topics)
}
