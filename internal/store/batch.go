package store

import (
	"time"

	"github.com/redscope/engagement-backend/internal/domain/activity"
	"github.com/redscope/engagement-backend/internal/domain/asset"
	"github.com/redscope/engagement-backend/internal/domain/errors"
	"github.com/redscope/engagement-backend/internal/domain/finding"
	"github.com/redscope/engagement-backend/internal/domain/person"
	"github.com/redscope/engagement-backend/internal/domain/project"
)

// Batch is one ingestion unit. It commits atomically: either every record
// lands or none do.
type Batch struct {
	Projects []*project.Project
	People   []*person.Person
	Assets   []*asset.Asset
	Findings []*finding.Finding
	Events   []*activity.Event
}

// ApplyBatch validates and commits a batch under a single write lock.
// Owned entities may reference projects carried in the same batch.
func (s *Store) ApplyBatch(b Batch) error {
	for _, p := range b.Projects {
		if err := validateProject(p); err != nil {
			return err
		}
	}
	for _, p := range b.People {
		if err := validatePerson(p); err != nil {
			return err
		}
	}
	for _, a := range b.Assets {
		if err := validateAsset(a); err != nil {
			return err
		}
	}
	for _, f := range b.Findings {
		if err := validateFinding(f); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	incoming := make(map[string]bool, len(b.Projects))
	for _, p := range b.Projects {
		incoming[p.ID] = true
	}
	projectExists := func(id string) bool {
		if incoming[id] {
			return true
		}
		_, ok := s.projects.get(id)
		return ok
	}

	for _, p := range b.People {
		if !projectExists(p.ProjectID) {
			return errors.NewValidationError("UNKNOWN_PROJECT", "person references unknown project: "+p.ProjectID)
		}
	}
	for _, a := range b.Assets {
		if !projectExists(a.ProjectID) {
			return errors.NewValidationError("UNKNOWN_PROJECT", "asset references unknown project: "+a.ProjectID)
		}
	}
	for _, f := range b.Findings {
		if !projectExists(f.ProjectID) {
			return errors.NewValidationError("UNKNOWN_PROJECT", "finding references unknown project: "+f.ProjectID)
		}
	}

	now := time.Now().UTC()
	touched := map[string]bool{}
	for _, p := range b.Projects {
		s.projects.upsert(p.ID, p)
	}
	for _, p := range b.People {
		s.people.upsert(p.ID, p)
		touched[p.ProjectID] = true
	}
	for _, a := range b.Assets {
		s.assets.upsert(a.ID, a)
		touched[a.ProjectID] = true
	}
	for _, f := range b.Findings {
		s.findings.upsert(f.ID, f)
		touched[f.ProjectID] = true
	}
	s.events = append(s.events, b.Events...)
	for id := range touched {
		s.touchProject(id, now)
	}
	return nil
}
