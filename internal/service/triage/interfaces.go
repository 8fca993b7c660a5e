package triage

import (
	"context"

	"github.com/redscope/engagement-backend/internal/domain/activity"
	"github.com/redscope/engagement-backend/internal/domain/finding"
)

// Service governs the triage workflow of findings. Every mutation commits
// together with its audit event: either both are visible or neither is.
type Service interface {
	// Transition moves a finding along a forward triage edge.
	Transition(ctx context.Context, findingID string, target finding.Status, actor string) (*finding.Finding, error)
	// Reopen returns a remediated finding to triage.
	Reopen(ctx context.Context, findingID, actor string) (*finding.Finding, error)
	// Assign sets or clears (empty assignee) the finding's assignee.
	Assign(ctx context.Context, findingID, assignee, actor string) (*finding.Finding, error)
}

// FindingRepository is the store surface the state machine needs.
type FindingRepository interface {
	GetFinding(id string) (*finding.Finding, error)
	UpdateFinding(id string, fn func(*finding.Finding) ([]*activity.Event, error)) (*finding.Finding, error)
}

// MetricsCollector records triage throughput.
type MetricsCollector interface {
	RecordTransition(from, to finding.Status)
	RecordReopen()
}
