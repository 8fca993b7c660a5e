package project

import (
	"time"

	"github.com/redscope/engagement-backend/internal/domain/errors"
)

// Status is the lifecycle state of an engagement
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusCompleted
}

// Stats is the derived per-project rollup. It is never authoritative:
// the analytics service recomputes it from owned entities on every read.
type Stats struct {
	People   int `json:"people"`
	Assets   int `json:"assets"`
	Findings int `json:"findings"`
	Critical int `json:"critical"`
}

// Project is a red-team engagement scoped to a single target organization.
type Project struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Target       string    `json:"target"`
	Scope        []string  `json:"scope"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	NDASigned    bool      `json:"nda_signed"`
	TeamMembers  []string  `json:"team_members"`
	Stats        Stats     `json:"stats"`
}

// New creates an active project. Target is the scope descriptor shown in
// the dashboard header, typically the organization's primary domain.
func New(id, name, target string, scope []string) (*Project, error) {
	if id == "" {
		return nil, errors.NewValidationError("MISSING_ID", "project id is required")
	}
	if name == "" {
		return nil, errors.NewValidationError("MISSING_NAME", "project name is required")
	}
	if target == "" {
		return nil, errors.NewValidationError("MISSING_TARGET", "project target is required")
	}

	now := time.Now().UTC()
	return &Project{
		ID:           id,
		Name:         name,
		Target:       target,
		Scope:        scope,
		Status:       StatusActive,
		CreatedAt:    now,
		LastActivity: now,
	}, nil
}

// Complete marks the engagement as finished.
func (p *Project) Complete() {
	p.Status = StatusCompleted
	p.LastActivity = time.Now().UTC()
}

// Touch records activity against the project.
func (p *Project) Touch(at time.Time) {
	if at.After(p.LastActivity) {
		p.LastActivity = at
	}
}

// HasMember reports whether the given team member is assigned to the project.
func (p *Project) HasMember(member string) bool {
	for _, m := range p.TeamMembers {
		if m == member {
			return true
		}
	}
	return false
}
