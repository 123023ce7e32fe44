package dto

import "github.com/noah-isme/studypath-api/internal/importer"

// ImportOutcome counts the rows created by an import, also when it stopped early.
type ImportOutcome struct {
	RoadmapType           string   `json:"roadmap_type"`
	Title                 string   `json:"title"`
	WeeksCreated          int      `json:"weeks_created"`
	AdvancedTopicsCreated int      `json:"advanced_topics_created"`
	TasksCreated          int      `json:"tasks_created"`
	TasksFailed           int      `json:"tasks_failed"`
	Warnings              []string `json:"warnings"`
}

// ImportPreview summarises what a valid document would create.
type ImportPreview struct {
	Title          string `json:"title"`
	RoadmapType    string `json:"roadmap_type"`
	Weeks          int    `json:"weeks"`
	AdvancedTopics int    `json:"advanced_topics"`
	Tasks          int    `json:"tasks"`
}

// ImportValidationResponse is returned by the dry-run endpoint.
type ImportValidationResponse struct {
	Valid    bool           `json:"valid"`
	Errors   []string       `json:"errors"`
	Warnings []string       `json:"warnings"`
	Preview  *ImportPreview `json:"preview,omitempty"`
}

// CustomRoadmapDetailsRequest is the first builder step.
type CustomRoadmapDetailsRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CustomRoadmapDetailsResponse echoes the accepted details.
type CustomRoadmapDetailsResponse struct {
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CustomRoadmapRequest submits a complete builder draft.
type CustomRoadmapRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Weeks       []importer.DraftWeek `json:"weeks"`
}
