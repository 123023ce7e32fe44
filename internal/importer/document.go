// Package importer validates roadmap documents and turns them into the weekly
// goal and task rows that get persisted for a user.
package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/noah-isme/studypath-api/internal/models"
)

// Result lists every problem found in a candidate roadmap. Errors block the
// import, warnings never do.
type Result struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Valid reports whether the candidate can be imported.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Document is the cleaned form of a JSON roadmap.
type Document struct {
	Title          string
	Description    string
	Weeks          []Week
	AdvancedTopics []AdvancedTopic
	Prerequisites  []interface{}
	Checklist      []interface{}

	rawAdvanced []interface{}
}

// Week is a single validated week of a document.
type Week struct {
	Number       string
	Focus        string
	Topics       []string
	Goals        []string
	Deliverables []string
	References   []models.Reference
}

// AdvancedTopic is an optional extra study topic that becomes a synthetic week.
type AdvancedTopic struct {
	Index           int
	Topic           string
	Description     string
	RecommendedTime string
	Deliverables    []string
	References      []models.Reference
}

// Validator checks roadmap documents. The zero value trims strings only.
type Validator struct {
	clean func(string) string
}

// NewValidator returns a validator that strips markup from user text with the
// given policy. A nil policy falls back to bluemonday's strict policy.
func NewValidator(policy *bluemonday.Policy) *Validator {
	if policy == nil {
		policy = bluemonday.StrictPolicy()
	}
	return &Validator{clean: func(value string) string {
		return strings.TrimSpace(html.UnescapeString(policy.Sanitize(value)))
	}}
}

func (v *Validator) cleanString(value string) string {
	if v == nil || v.clean == nil {
		return strings.TrimSpace(value)
	}
	return v.clean(value)
}

// Validate parses raw and collects all errors and warnings at once. The
// returned document is only meaningful when the result is valid.
func (v *Validator) Validate(raw []byte) (Document, Result) {
	var result Result
	var doc Document

	root, err := decodeObject(raw)
	if err != nil {
		result.errorf("JSON parsing error: %s", err.Error())
		return doc, result
	}

	if title, ok := root["title"].(string); !ok || strings.TrimSpace(title) == "" {
		result.errorf("Missing or invalid title field")
	} else {
		doc.Title = v.cleanString(title)
	}

	switch description := root["description"].(type) {
	case nil:
	case string:
		doc.Description = v.cleanString(description)
	default:
		result.warnf("Description should be a string and was ignored")
	}

	weeks, ok := root["weeks"].([]interface{})
	if !ok {
		result.errorf("Missing or invalid weeks array")
	} else {
		if len(weeks) == 0 {
			result.errorf("Weeks array cannot be empty")
		}
		for i, entry := range weeks {
			if week, ok := v.validateWeek(i+1, entry, &result); ok {
				doc.Weeks = append(doc.Weeks, week)
			}
		}
	}

	v.validateAdvanced(root, &doc, &result)
	doc.Prerequisites = optionalList(root, "prerequisites", "Prerequisites", &result)
	doc.Checklist = optionalList(root, "checklist", "Checklist", &result)

	return doc, result
}

func (v *Validator) validateWeek(n int, entry interface{}, result *Result) (Week, bool) {
	raw, ok := entry.(map[string]interface{})
	if !ok {
		result.errorf("Week %d: Invalid week entry", n)
		return Week{}, false
	}

	before := len(result.Errors)
	week := Week{}

	if number, ok := weekNumber(raw["week"]); ok {
		week.Number = number
	} else {
		result.errorf("Week %d: Missing week number", n)
	}

	if focus, ok := raw["focus"].(string); ok && v.cleanString(focus) != "" {
		week.Focus = v.cleanString(focus)
	} else {
		result.errorf("Week %d: Missing or invalid focus area", n)
	}

	week.Topics = v.requiredStrings(n, raw, "topics", result)
	week.Goals = v.requiredStrings(n, raw, "goals", result)
	week.Deliverables = v.requiredStrings(n, raw, "deliverables", result)

	refs, present := raw["reference"]
	if !present {
		refs = raw["references"]
	}
	week.References = referenceList(refs, fmt.Sprintf("Week %d", n), result)
	if len(week.References) == 0 {
		result.warnf("Week %d: No references provided (optional)", n)
	}

	return week, len(result.Errors) == before
}

// requiredStrings returns the non-blank strings of field, counting only the
// cleaned entries towards the non-empty requirement.
func (v *Validator) requiredStrings(n int, raw map[string]interface{}, field string, result *Result) []string {
	items, ok := raw[field].([]interface{})
	if !ok {
		result.errorf("Week %d: Missing or empty %s array", n, field)
		return nil
	}

	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			result.errorf("Week %d: %s array must contain only strings", n, field)
			return nil
		}
		if s = v.cleanString(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		result.errorf("Week %d: Missing or empty %s array", n, field)
		return nil
	}
	return cleaned
}

func (v *Validator) validateAdvanced(root map[string]interface{}, doc *Document, result *Result) {
	raw, present := root["advanced_topics"]
	if !present || raw == nil {
		return
	}
	entries, ok := raw.([]interface{})
	if !ok {
		result.warnf("advanced_topics should be an array and was ignored")
		return
	}
	doc.rawAdvanced = entries

	for i, entry := range entries {
		obj, _ := entry.(map[string]interface{})
		topic, _ := obj["topic"].(string)
		description, _ := obj["description"].(string)
		topic = v.cleanString(topic)
		description = v.cleanString(description)
		if topic == "" || description == "" {
			result.warnf("Advanced topic %d: Missing topic name or description", i+1)
		}
		if topic == "" {
			continue
		}

		advanced := AdvancedTopic{Index: i + 1, Topic: topic, Description: description}
		if recommended, ok := obj["recommended_time"].(string); ok {
			advanced.RecommendedTime = strings.TrimSpace(recommended)
		}
		if items, ok := obj["deliverables"].([]interface{}); ok {
			for _, item := range items {
				if s, ok := item.(string); ok && v.cleanString(s) != "" {
					advanced.Deliverables = append(advanced.Deliverables, v.cleanString(s))
				}
			}
		}
		refs, present := obj["reference"]
		if !present {
			refs = obj["references"]
		}
		advanced.References = referenceList(refs, fmt.Sprintf("Advanced topic %d", i+1), result)
		doc.AdvancedTopics = append(doc.AdvancedTopics, advanced)
	}
}

func optionalList(root map[string]interface{}, key, label string, result *Result) []interface{} {
	raw, present := root[key]
	if !present || raw == nil {
		return nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		result.warnf("%s should be an array and was ignored", label)
		return nil
	}
	if len(items) == 0 {
		result.warnf("%s array is empty", label)
	}
	return items
}

func referenceList(raw interface{}, owner string, result *Result) []models.Reference {
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	refs := make([]models.Reference, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			result.warnf("%s: Reference %d is not an object and was skipped", owner, i+1)
			continue
		}
		refs = append(refs, models.Reference(obj))
	}
	return refs
}

// weekNumber accepts non-blank strings and non-zero numbers.
func weekNumber(raw interface{}) (string, bool) {
	switch value := raw.(type) {
	case string:
		trimmed := strings.TrimSpace(value)
		return trimmed, trimmed != ""
	case json.Number:
		if f, err := value.Float64(); err != nil || f == 0 {
			return "", false
		}
		return value.String(), true
	default:
		return "", false
	}
}

func decodeObject(raw []byte) (map[string]interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value interface{}
	if err := decoder.Decode(&value); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("unexpected end of JSON input")
		}
		return nil, err
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}

	obj, ok := value.(map[string]interface{})
	if !ok {
		return nil, errors.New("top-level value must be an object")
	}
	return obj, nil
}
