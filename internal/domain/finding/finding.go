package finding

import (
	"time"

	"github.com/redscope/engagement-backend/internal/domain/errors"
)

// Severity rates a finding's impact. Severities are totally ordered with
// critical highest.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Severities lists all tiers from highest to lowest.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Rank returns the severity's position in the total order, critical
// highest. Unknown severities rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Status is a finding's position in the triage workflow
type Status string

const (
	StatusToTriage    Status = "to-triage"
	StatusConfirmed   Status = "confirmed"
	StatusExploitable Status = "exploitable"
	StatusRemediated  Status = "remediated"
)

// Statuses lists the triage board columns in workflow order.
var Statuses = []Status{StatusToTriage, StatusConfirmed, StatusExploitable, StatusRemediated}

func (s Status) Valid() bool {
	switch s {
	case StatusToTriage, StatusConfirmed, StatusExploitable, StatusRemediated:
		return true
	}
	return false
}

// forwardEdges is the legal triage transition set. Remediated is terminal;
// leaving it requires the explicit reopen operation.
var forwardEdges = map[Status][]Status{
	StatusToTriage:    {StatusConfirmed, StatusRemediated},
	StatusConfirmed:   {StatusExploitable, StatusRemediated},
	StatusExploitable: {StatusRemediated},
}

// CanTransitionTo reports whether the forward edge s -> target is legal.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range forwardEdges[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Finding is a vulnerability discovered against a project asset.
type Finding struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"project_id"`
	Title          string    `json:"title"`
	Severity       Severity  `json:"severity"`
	Asset          string    `json:"asset"`
	CVE            string    `json:"cve,omitempty"`
	CVSS           float64   `json:"cvss"`
	Status         Status    `json:"status"`
	AssignedTo     string    `json:"assigned_to,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	LastTransition time.Time `json:"last_transition"`
}

// New creates a finding in the to-triage state.
func New(id, projectID, title string, severity Severity, assetID string, cvss float64) (*Finding, error) {
	if id == "" {
		return nil, errors.NewValidationError("MISSING_ID", "finding id is required")
	}
	if projectID == "" {
		return nil, errors.NewValidationError("MISSING_PROJECT", "finding project reference is required")
	}
	if title == "" {
		return nil, errors.NewValidationError("MISSING_TITLE", "finding title is required")
	}
	if !severity.Valid() {
		return nil, errors.NewValidationError("INVALID_SEVERITY", "unknown severity: "+string(severity))
	}
	if cvss < 0.0 || cvss > 10.0 {
		return nil, errors.NewValidationError("INVALID_CVSS", "cvss score must be between 0.0 and 10.0")
	}

	now := time.Now().UTC()
	return &Finding{
		ID:             id,
		ProjectID:      projectID,
		Title:          title,
		Severity:       severity,
		Asset:          assetID,
		CVSS:           cvss,
		Status:         StatusToTriage,
		CreatedAt:      now,
		LastTransition: now,
	}, nil
}

// TransitionTo moves the finding along a forward triage edge. Illegal
// edges leave the finding unchanged and return InvalidTransitionError.
func (f *Finding) TransitionTo(target Status, at time.Time) error {
	if !target.Valid() {
		return errors.NewValidationError("INVALID_STATUS", "unknown status: "+string(target))
	}
	if !f.Status.CanTransitionTo(target) {
		return errors.NewInvalidTransitionError(string(f.Status), string(target))
	}
	f.Status = target
	f.LastTransition = at
	return nil
}

// Reopen returns a remediated finding to triage. It is the only way out
// of the terminal state and is logged distinctly from forward transitions.
func (f *Finding) Reopen(at time.Time) error {
	if f.Status != StatusRemediated {
		return errors.NewInvalidTransitionError(string(f.Status), string(StatusToTriage))
	}
	f.Status = StatusToTriage
	f.LastTransition = at
	return nil
}

// Assign sets the finding's assignee. Assignment is independent of triage
// status; an empty assignee unassigns.
func (f *Finding) Assign(assignee string) {
	f.AssignedTo = assignee
}
