package analytics

import (
	"context"
	"time"

	"github.com/redscope/engagement-backend/internal/domain/activity"
	"github.com/redscope/engagement-backend/internal/domain/errors"
	"github.com/redscope/engagement-backend/internal/domain/finding"
	"github.com/redscope/engagement-backend/internal/domain/project"
)

// service implements the Service interface
type service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new aggregation service.
func NewService(repo Repository) Service {
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// NewServiceWithNow creates an aggregation service with a fixed clock,
// used by tests that assert on timeline bucket boundaries.
func NewServiceWithNow(repo Repository, now func() time.Time) Service {
	return &service{repo: repo, now: now}
}

func (s *service) Stats(ctx context.Context, projectID string) (project.Stats, error) {
	if _, err := s.repo.GetProject(projectID); err != nil {
		return project.Stats{}, err
	}
	return s.statsOf(projectID), nil
}

// statsOf counts live owned entities. The project is assumed to exist.
func (s *service) statsOf(projectID string) project.Stats {
	findings := s.repo.FindingsByProject(projectID)
	stats := project.Stats{
		People:   len(s.repo.PeopleByProject(projectID)),
		Assets:   len(s.repo.AssetsByProject(projectID)),
		Findings: len(findings),
	}
	for _, f := range findings {
		if f.Severity == finding.SeverityCritical {
			stats.Critical++
		}
	}
	return stats
}

func (s *service) GlobalStats(ctx context.Context) (*GlobalStats, error) {
	out := &GlobalStats{}
	for _, p := range s.repo.Projects() {
		stats := s.statsOf(p.ID)
		out.TotalProjects++
		addStats(&out.Total, stats)
		if p.Status == project.StatusActive {
			out.ActiveProjects++
			addStats(&out.Active, stats)
		}
	}
	return out, nil
}

func addStats(dst *project.Stats, src project.Stats) {
	dst.People += src.People
	dst.Assets += src.Assets
	dst.Findings += src.Findings
	dst.Critical += src.Critical
}

func (s *service) ProjectWithStats(ctx context.Context, projectID string) (*project.Project, error) {
	p, err := s.repo.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	fresh := *p
	fresh.Stats = s.statsOf(p.ID)
	return &fresh, nil
}

func (s *service) ProjectsWithStats(ctx context.Context) ([]*project.Project, error) {
	projects := s.repo.Projects()
	out := make([]*project.Project, 0, len(projects))
	for _, p := range projects {
		fresh := *p
		fresh.Stats = s.statsOf(p.ID)
		out = append(out, &fresh)
	}
	return out, nil
}

func (s *service) SeverityBreakdown(ctx context.Context, projectID string) (*SeverityBreakdown, error) {
	if _, err := s.repo.GetProject(projectID); err != nil {
		return nil, err
	}
	out := &SeverityBreakdown{}
	for _, f := range s.repo.FindingsByProject(projectID) {
		switch f.Severity {
		case finding.SeverityCritical:
			out.Critical++
		case finding.SeverityHigh:
			out.High++
		case finding.SeverityMedium:
			out.Medium++
		case finding.SeverityLow:
			out.Low++
		default:
			return nil, errors.NewDataIntegrityError("finding " + f.ID + " has unknown severity: " + string(f.Severity))
		}
	}
	return out, nil
}

func (s *service) StatusBoard(ctx context.Context, projectID string) (*StatusBoard, error) {
	if _, err := s.repo.GetProject(projectID); err != nil {
		return nil, err
	}
	board := &StatusBoard{
		ToTriage:    []*finding.Finding{},
		Confirmed:   []*finding.Finding{},
		Exploitable: []*finding.Finding{},
		Remediated:  []*finding.Finding{},
	}
	for _, f := range s.repo.FindingsByProject(projectID) {
		switch f.Status {
		case finding.StatusToTriage:
			board.ToTriage = append(board.ToTriage, f)
		case finding.StatusConfirmed:
			board.Confirmed = append(board.Confirmed, f)
		case finding.StatusExploitable:
			board.Exploitable = append(board.Exploitable, f)
		case finding.StatusRemediated:
			board.Remediated = append(board.Remediated, f)
		default:
			return nil, errors.NewDataIntegrityError("finding " + f.ID + " has unknown status: " + string(f.Status))
		}
	}
	return board, nil
}

func (s *service) ActivityFeed(ctx context.Context, limit int) []*activity.Event {
	events := s.repo.Events()
	if limit <= 0 || limit > len(events) {
		limit = len(events)
	}
	out := make([]*activity.Event, 0, limit)
	for i := len(events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, events[i])
	}
	return out
}

func (s *service) Timeline(ctx context.Context, weeks int) ([]TimelineBucket, error) {
	if weeks <= 0 {
		return nil, errors.NewValidationError("INVALID_RANGE", "weeks must be positive")
	}

	// Bucket boundaries are calendar-aligned, so two differently-ordered
	// calls over the same events always produce identical buckets.
	end := weekStart(s.now())
	start := end.AddDate(0, 0, -7*(weeks-1))

	buckets := make([]TimelineBucket, weeks)
	for i := range buckets {
		buckets[i].Start = start.AddDate(0, 0, 7*i)
	}

	for _, e := range s.repo.Events() {
		ws := weekStart(e.Timestamp)
		if ws.Before(start) || ws.After(end) {
			continue
		}
		idx := int(ws.Sub(start).Hours()) / (24 * 7)
		buckets[idx].Total++
		switch e.RefKind {
		case activity.RefFinding:
			buckets[idx].Findings++
		case activity.RefAsset:
			buckets[idx].Assets++
		}
	}
	return buckets, nil
}

// weekStart truncates to the ISO week boundary: Monday 00:00 UTC.
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}
