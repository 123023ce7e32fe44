// Package catalog serves the predefined roadmaps bundled with the binary.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/noah-isme/studypath-api/internal/importer"
	"github.com/noah-isme/studypath-api/internal/progress"
)

//go:embed data/*.json
var files embed.FS

// ErrUnknownRoadmap is returned for a roadmap type the catalog does not carry.
var ErrUnknownRoadmap = errors.New("unknown roadmap")

// Entry describes one predefined roadmap.
type Entry struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Weeks       int    `json:"weeks"`
	Tasks       int    `json:"tasks"`
}

// Catalog holds the parsed predefined roadmaps keyed by roadmap type.
type Catalog struct {
	entries []Entry
	plans   map[string]importer.Plan
}

// Load parses every embedded roadmap through the importer. A bundled file that
// fails validation is a build defect and is reported as an error.
func Load(validator *importer.Validator) (*Catalog, error) {
	names, err := files.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	c := &Catalog{plans: make(map[string]importer.Plan, len(names))}
	for _, name := range names {
		raw, err := files.ReadFile(path.Join("data", name.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name.Name(), err)
		}

		doc, result := validator.Validate(raw)
		if !result.Valid() {
			return nil, fmt.Errorf("catalog %s: %s", name.Name(), strings.Join(result.Errors, "; "))
		}

		roadmapType := strings.TrimSuffix(name.Name(), path.Ext(name.Name()))
		plan := importer.PlanFromDocument(doc).WithRoadmapType(roadmapType)
		c.plans[roadmapType] = plan
		c.entries = append(c.entries, Entry{
			Type:        roadmapType,
			Title:       progress.RoadmapTitle(roadmapType),
			Description: doc.Description,
			Weeks:       len(plan.Weeks),
			Tasks:       plan.TaskCount(),
		})
	}

	sort.Slice(c.entries, func(i, j int) bool { return c.entries[i].Type < c.entries[j].Type })
	return c, nil
}

// List returns every predefined roadmap ordered by type.
func (c *Catalog) List() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Plan returns a fresh copy of the rows for roadmapType.
func (c *Catalog) Plan(roadmapType string) (importer.Plan, error) {
	plan, ok := c.plans[roadmapType]
	if !ok {
		return importer.Plan{}, fmt.Errorf("%w: %s", ErrUnknownRoadmap, roadmapType)
	}
	return plan.WithRoadmapType(roadmapType), nil
}

// Has reports whether roadmapType is a predefined roadmap.
func (c *Catalog) Has(roadmapType string) bool {
	_, ok := c.plans[roadmapType]
	return ok
}
