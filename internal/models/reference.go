package models

import (
	"fmt"
	"strings"
)

// Reference is a schema-loose study resource attached to a weekly goal.
// Unknown keys are preserved as-is.
type Reference map[string]interface{}

// Type returns the reference category.
func (r Reference) Type() string { return r.stringValue("type") }

// Title returns the display title.
func (r Reference) Title() string { return r.stringValue("title") }

// Section returns the documentation section, if any.
func (r Reference) Section() string { return r.stringValue("section") }

// Book returns the referenced book, if any.
func (r Reference) Book() string { return r.stringValue("book") }

// URL returns the resource link, if any.
func (r Reference) URL() string { return r.stringValue("url") }

// Chapters returns the chapter list, skipping non-string entries.
func (r Reference) Chapters() []string {
	raw, ok := r["chapters"]
	if !ok || raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return append([]string(nil), v...)
	case []interface{}:
		chapters := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				chapters = append(chapters, s)
			}
		}
		return chapters
	default:
		return nil
	}
}

// Clone returns a shallow copy so callers can add defaults without mutating the source.
func (r Reference) Clone() Reference {
	out := make(Reference, len(r))
	for key, value := range r {
		out[key] = value
	}
	return out
}

func (r Reference) stringValue(key string) string {
	raw, ok := r[key]
	if !ok || raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(raw))
}
