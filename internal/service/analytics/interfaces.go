package analytics

import (
	"context"
	"time"

	"github.com/redscope/engagement-backend/internal/domain/activity"
	"github.com/redscope/engagement-backend/internal/domain/asset"
	"github.com/redscope/engagement-backend/internal/domain/finding"
	"github.com/redscope/engagement-backend/internal/domain/person"
	"github.com/redscope/engagement-backend/internal/domain/project"
)

// Service computes derived statistics over live store contents. Results
// are never cached beyond a single call, so every answer reflects the
// store at call time.
type Service interface {
	// Stats returns the live per-project rollup.
	Stats(ctx context.Context, projectID string) (project.Stats, error)
	// GlobalStats sums per-project stats across active projects and,
	// separately, across all projects regardless of status.
	GlobalStats(ctx context.Context) (*GlobalStats, error)
	// ProjectWithStats returns a copy of the project with its stats
	// snapshot refreshed to the live counts.
	ProjectWithStats(ctx context.Context, projectID string) (*project.Project, error)
	// ProjectsWithStats returns all projects with refreshed snapshots.
	ProjectsWithStats(ctx context.Context) ([]*project.Project, error)
	// SeverityBreakdown partitions a project's findings by severity tier.
	SeverityBreakdown(ctx context.Context, projectID string) (*SeverityBreakdown, error)
	// StatusBoard partitions a project's findings into the four triage
	// buckets, preserving each bucket's insertion order.
	StatusBoard(ctx context.Context, projectID string) (*StatusBoard, error)
	// ActivityFeed returns the newest events first, at most limit.
	ActivityFeed(ctx context.Context, limit int) []*activity.Event
	// Timeline buckets the activity log into the trailing weeks calendar
	// weeks, partitioned by referenced entity kind.
	Timeline(ctx context.Context, weeks int) ([]TimelineBucket, error)
}

// Repository is the read surface the engine aggregates over.
type Repository interface {
	GetProject(id string) (*project.Project, error)
	Projects() []*project.Project
	PeopleByProject(projectID string) []*person.Person
	AssetsByProject(projectID string) []*asset.Asset
	FindingsByProject(projectID string) []*finding.Finding
	Events() []*activity.Event
}

// GlobalStats separates active-project totals from all-project totals.
type GlobalStats struct {
	Active         project.Stats `json:"active"`
	Total          project.Stats `json:"total"`
	ActiveProjects int           `json:"active_projects"`
	TotalProjects  int           `json:"total_projects"`
}

// SeverityBreakdown is a complete partition of findings by severity.
type SeverityBreakdown struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// StatusBoard holds the four triage columns in workflow order.
type StatusBoard struct {
	ToTriage    []*finding.Finding `json:"to-triage"`
	Confirmed   []*finding.Finding `json:"confirmed"`
	Exploitable []*finding.Finding `json:"exploitable"`
	Remediated  []*finding.Finding `json:"remediated"`
}

// TimelineBucket is one calendar-aligned week of activity. Start is the
// bucket's Monday 00:00 UTC; Findings and Assets count events referencing
// those entity kinds, Total counts every event in the bucket.
type TimelineBucket struct {
	Start    time.Time `json:"start"`
	Total    int       `json:"total"`
	Findings int       `json:"findings"`
	Assets   int       `json:"assets"`
}
