// Package ingestion converts already-parsed collector output into domain
// entities and commits it to the store in atomic batches.
package ingestion

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/redscope/engagement-backend/internal/domain/activity"
	"github.com/redscope/engagement-backend/internal/domain/asset"
	"github.com/redscope/engagement-backend/internal/domain/errors"
	"github.com/redscope/engagement-backend/internal/domain/finding"
	"github.com/redscope/engagement-backend/internal/domain/person"
	"github.com/redscope/engagement-backend/internal/domain/project"
	"github.com/redscope/engagement-backend/internal/store"
)

// Service ingests record batches.
type Service interface {
	Ingest(ctx context.Context, batch Batch) (*Summary, error)
}

// Repository is the store surface ingestion needs.
type Repository interface {
	ApplyBatch(b store.Batch) error
	TargetDomain(projectID string) (string, error)
}

type service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService creates a new ingestion service.
func NewService(repo Repository) Service {
	return &service{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Ingest validates and converts every record, then commits the whole
// batch atomically. Records are upserts: redelivery replaces by id.
func (s *service) Ingest(ctx context.Context, batch Batch) (*Summary, error) {
	if err := s.validate.Struct(batch); err != nil {
		return nil, errors.NewValidationError("INVALID_BATCH", "batch failed validation").WithCause(err)
	}

	sb := store.Batch{}
	targets := map[string]string{}

	for _, rec := range batch.Projects {
		p, err := toProject(rec)
		if err != nil {
			return nil, err
		}
		targets[p.ID] = p.Target
		sb.Projects = append(sb.Projects, p)
	}
	for _, rec := range batch.People {
		p, err := s.toPerson(rec, targets)
		if err != nil {
			return nil, err
		}
		sb.People = append(sb.People, p)
	}
	for _, rec := range batch.Assets {
		a, err := asset.New(rec.ID, rec.ProjectID, asset.Type(rec.Type), rec.Value)
		if err != nil {
			return nil, err
		}
		sb.Assets = append(sb.Assets, a)
	}
	for _, rec := range batch.Findings {
		f, err := toFinding(rec)
		if err != nil {
			return nil, err
		}
		sb.Findings = append(sb.Findings, f)
	}
	for _, rec := range batch.Events {
		e := activity.New(rec.Actor, rec.Description, activity.RefKind(rec.RefKind), rec.RefID)
		if !rec.Timestamp.IsZero() {
			e.Timestamp = rec.Timestamp.UTC()
		}
		sb.Events = append(sb.Events, e)
	}

	if err := s.repo.ApplyBatch(sb); err != nil {
		return nil, err
	}

	return &Summary{
		Projects: len(sb.Projects),
		People:   len(sb.People),
		Assets:   len(sb.Assets),
		Findings: len(sb.Findings),
		Events:   len(sb.Events),
	}, nil
}

func toProject(rec ProjectRecord) (*project.Project, error) {
	p, err := project.New(rec.ID, rec.Name, rec.Target, rec.Scope)
	if err != nil {
		return nil, err
	}
	if rec.Status != "" {
		p.Status = project.Status(rec.Status)
	}
	p.NDASigned = rec.NDASigned
	p.TeamMembers = rec.TeamMembers
	if !rec.CreatedAt.IsZero() {
		p.CreatedAt = rec.CreatedAt.UTC()
		p.LastActivity = rec.CreatedAt.UTC()
	}
	return p, nil
}

func (s *service) toPerson(rec PersonRecord, batchTargets map[string]string) (*person.Person, error) {
	p, err := person.New(rec.ID, rec.ProjectID, rec.Name, rec.Source)
	if err != nil {
		return nil, err
	}
	p.Title = rec.Title
	p.Email = rec.Email
	for _, sp := range rec.SocialProfiles {
		p.SocialProfiles = append(p.SocialProfiles, person.SocialProfile{
			Platform:  person.ParsePlatform(sp.Platform),
			Handle:    sp.Handle,
			Followers: sp.Followers,
			Repos:     sp.Repos,
			Verified:  sp.Verified,
		})
	}
	for _, lk := range rec.LeakedData {
		p.LeakedData = append(p.LeakedData, person.LeakRecord{Source: lk.Source, Type: lk.Type, Date: lk.Date})
	}
	p.AddTags(rec.Tags...)
	if !rec.Discovered.IsZero() {
		p.Discovered = rec.Discovered.UTC()
	}

	// Pre-classified records keep their tier; everything else is
	// classified against the owning project's target domain.
	if rec.Confidence != "" {
		p.Confidence = person.ConfidenceTier(rec.Confidence)
	} else {
		domain, ok := batchTargets[rec.ProjectID]
		if !ok {
			d, err := s.repo.TargetDomain(rec.ProjectID)
			if err != nil {
				return nil, errors.NewValidationError("UNKNOWN_PROJECT", "person references unknown project: "+rec.ProjectID)
			}
			domain = d
		}
		p.Confidence = person.Classify(p, domain)
	}
	return p, nil
}

func toFinding(rec FindingRecord) (*finding.Finding, error) {
	f, err := finding.New(rec.ID, rec.ProjectID, rec.Title, finding.Severity(rec.Severity), rec.Asset, rec.CVSS)
	if err != nil {
		return nil, err
	}
	f.CVE = rec.CVE
	f.AssignedTo = rec.AssignedTo
	if rec.Status != "" {
		f.Status = finding.Status(rec.Status)
	}
	if !rec.CreatedAt.IsZero() {
		f.CreatedAt = rec.CreatedAt.UTC()
		f.LastTransition = rec.CreatedAt.UTC()
	}
	return f, nil
}
