package triage

import (
	"context"
	"fmt"
	"time"

	"github.com/redscope/engagement-backend/internal/domain/activity"
	"github.com/redscope/engagement-backend/internal/domain/errors"
	"github.com/redscope/engagement-backend/internal/domain/finding"
)

// service implements the Service interface
type service struct {
	findings FindingRepository
	metrics  MetricsCollector
}

// NewService creates a new triage service. metrics may be nil.
func NewService(findings FindingRepository, metrics MetricsCollector) Service {
	return &service{findings: findings, metrics: metrics}
}

func (s *service) Transition(ctx context.Context, findingID string, target finding.Status, actor string) (*finding.Finding, error) {
	if actor == "" {
		return nil, errors.NewValidationError("MISSING_ACTOR", "actor is required")
	}

	var from finding.Status
	updated, err := s.findings.UpdateFinding(findingID, func(f *finding.Finding) ([]*activity.Event, error) {
		from = f.Status
		if err := f.TransitionTo(target, time.Now().UTC()); err != nil {
			return nil, err
		}
		desc := fmt.Sprintf("%s moved %q from %s to %s", actor, f.Title, from, target)
		return []*activity.Event{activity.New(actor, desc, activity.RefFinding, f.ID)}, nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordTransition(from, target)
	}
	return updated, nil
}

func (s *service) Reopen(ctx context.Context, findingID, actor string) (*finding.Finding, error) {
	if actor == "" {
		return nil, errors.NewValidationError("MISSING_ACTOR", "actor is required")
	}

	updated, err := s.findings.UpdateFinding(findingID, func(f *finding.Finding) ([]*activity.Event, error) {
		if err := f.Reopen(time.Now().UTC()); err != nil {
			return nil, err
		}
		desc := fmt.Sprintf("%s reopened %q", actor, f.Title)
		return []*activity.Event{activity.New(actor, desc, activity.RefFinding, f.ID)}, nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordReopen()
	}
	return updated, nil
}

func (s *service) Assign(ctx context.Context, findingID, assignee, actor string) (*finding.Finding, error) {
	if actor == "" {
		return nil, errors.NewValidationError("MISSING_ACTOR", "actor is required")
	}

	return s.findings.UpdateFinding(findingID, func(f *finding.Finding) ([]*activity.Event, error) {
		f.Assign(assignee)
		var desc string
		if assignee == "" {
			desc = fmt.Sprintf("%s unassigned %q", actor, f.Title)
		} else {
			desc = fmt.Sprintf("%s assigned %q to %s", actor, f.Title, assignee)
		}
		return []*activity.Event{activity.New(actor, desc, activity.RefFinding, f.ID)}, nil
	})
}
