// Package recon holds the reconnaissance-side mutations: tagging people
// and keeping their confidence classification current.
package recon

import (
	"context"
	"fmt"
	"strings"

	"github.com/redscope/engagement-backend/internal/domain/activity"
	"github.com/redscope/engagement-backend/internal/domain/errors"
	"github.com/redscope/engagement-backend/internal/domain/person"
)

// Service mutates person records.
type Service interface {
	// TagPerson adds tags to a person and re-runs confidence
	// classification, since an override tag may change the tier.
	TagPerson(ctx context.Context, personID string, tags []string, actor string) (*person.Person, error)
	// Reclassify recomputes the confidence tier from current evidence.
	Reclassify(ctx context.Context, personID string) (*person.Person, error)
}

// PersonRepository is the store surface recon mutations need.
type PersonRepository interface {
	GetPerson(id string) (*person.Person, error)
	UpdatePerson(id string, fn func(*person.Person) ([]*activity.Event, error)) (*person.Person, error)
}

// ProjectTargets resolves a project's target domain for classification.
type ProjectTargets interface {
	TargetDomain(projectID string) (string, error)
}

type service struct {
	people  PersonRepository
	targets ProjectTargets
}

// NewService creates a new recon service.
func NewService(people PersonRepository, targets ProjectTargets) Service {
	return &service{people: people, targets: targets}
}

func (s *service) TagPerson(ctx context.Context, personID string, tags []string, actor string) (*person.Person, error) {
	if actor == "" {
		return nil, errors.NewValidationError("MISSING_ACTOR", "actor is required")
	}
	if len(tags) == 0 {
		return nil, errors.NewValidationError("MISSING_TAGS", "at least one tag is required")
	}

	domain, err := s.targetDomainFor(personID)
	if err != nil {
		return nil, err
	}

	return s.people.UpdatePerson(personID, func(p *person.Person) ([]*activity.Event, error) {
		p.AddTags(tags...)
		p.Confidence = person.Classify(p, domain)

		desc := fmt.Sprintf("%s tagged %s with %s", actor, p.Name, strings.Join(tags, ", "))
		return []*activity.Event{activity.New(actor, desc, activity.RefPerson, p.ID)}, nil
	})
}

func (s *service) Reclassify(ctx context.Context, personID string) (*person.Person, error) {
	domain, err := s.targetDomainFor(personID)
	if err != nil {
		return nil, err
	}

	return s.people.UpdatePerson(personID, func(p *person.Person) ([]*activity.Event, error) {
		p.Confidence = person.Classify(p, domain)
		return nil, nil
	})
}

// targetDomainFor resolves the person's project target domain. It must run
// before UpdatePerson: the commit callback executes under the store's write
// lock, where no further store reads are allowed.
func (s *service) targetDomainFor(personID string) (string, error) {
	p, err := s.people.GetPerson(personID)
	if err != nil {
		return "", err
	}
	return s.targets.TargetDomain(p.ProjectID)
}
