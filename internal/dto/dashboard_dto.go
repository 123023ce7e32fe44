package dto

import (
	"time"

	"github.com/noah-isme/studypath-api/internal/progress"
)

// DashboardResponse aggregates every roadmap of a user.
type DashboardResponse struct {
	Stats       progress.Stats             `json:"stats"`
	Roadmaps    []progress.RoadmapProgress `json:"roadmaps"`
	Charts      progress.Charts            `json:"charts"`
	Timezone    string                     `json:"timezone"`
	GeneratedAt time.Time                  `json:"generated_at"`
	CacheHit    bool                       `json:"cache_hit"`
}
