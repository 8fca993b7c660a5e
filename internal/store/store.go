// Package store provides the in-memory entity store backing the
// engagement API. Collections preserve insertion order so table views are
// deterministic, mutation is serialized per store, and compound updates
// commit an entity mutation together with its audit events atomically.
package store

import (
	"iter"
	"sync"
	"time"

	"github.com/redscope/engagement-backend/internal/domain/activity"
	"github.com/redscope/engagement-backend/internal/domain/asset"
	"github.com/redscope/engagement-backend/internal/domain/errors"
	"github.com/redscope/engagement-backend/internal/domain/finding"
	"github.com/redscope/engagement-backend/internal/domain/person"
	"github.com/redscope/engagement-backend/internal/domain/project"
)

// collection is an insertion-ordered map. Replacing an entity keeps its
// original position.
type collection[T any] struct {
	order []string
	items map[string]T
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{items: make(map[string]T)}
}

func (c *collection[T]) get(id string) (T, bool) {
	v, ok := c.items[id]
	return v, ok
}

func (c *collection[T]) upsert(id string, v T) {
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
	}
	c.items[id] = v
}

func (c *collection[T]) insert(id string, v T) bool {
	if _, ok := c.items[id]; ok {
		return false
	}
	c.order = append(c.order, id)
	c.items[id] = v
	return true
}

func (c *collection[T]) removeWhere(pred func(T) bool) {
	kept := c.order[:0]
	for _, id := range c.order {
		if pred(c.items[id]) {
			delete(c.items, id)
		} else {
			kept = append(kept, id)
		}
	}
	c.order = kept
}

func (c *collection[T]) snapshot() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

// Store holds the canonical entity collections. Stored entities are
// treated as immutable: every mutation clones, modifies the clone, and
// swaps it in under the write lock, so a reader holding a snapshot never
// observes a half-applied update.
type Store struct {
	mu       sync.RWMutex
	projects *collection[*project.Project]
	people   *collection[*person.Person]
	assets   *collection[*asset.Asset]
	findings *collection[*finding.Finding]
	events   []*activity.Event
}

// New creates an empty store.
func New() *Store {
	return &Store{
		projects: newCollection[*project.Project](),
		people:   newCollection[*person.Person](),
		assets:   newCollection[*asset.Asset](),
		findings: newCollection[*finding.Finding](),
	}
}

// --- projects ---

// CreateProject inserts a new project, failing with ConflictError if the
// identifier is already taken. Any events commit with the insert under the
// same lock acquisition; a rejected insert appends nothing.
func (s *Store) CreateProject(p *project.Project, events ...*activity.Event) error {
	if err := validateProject(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.projects.insert(p.ID, p) {
		return errors.NewConflictError("project already exists: " + p.ID)
	}
	s.events = append(s.events, events...)
	return nil
}

// UpsertProject inserts or replaces a project by identifier.
func (s *Store) UpsertProject(p *project.Project) error {
	if err := validateProject(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects.upsert(p.ID, p)
	return nil
}

// GetProject returns the project or NotFoundError.
func (s *Store) GetProject(id string) (*project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects.get(id)
	if !ok {
		return nil, errors.ErrProjectNotFound
	}
	return p, nil
}

// Projects returns all projects in insertion order.
func (s *Store) Projects() []*project.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects.snapshot()
}

// QueryProjects returns a restartable sequence over a snapshot taken at
// call time, in insertion order. A nil predicate matches everything.
func (s *Store) QueryProjects(pred func(*project.Project) bool) iter.Seq[*project.Project] {
	return querySeq(s.Projects(), pred)
}

// TargetDomain returns the project's target scope descriptor, used by
// confidence classification.
func (s *Store) TargetDomain(projectID string) (string, error) {
	p, err := s.GetProject(projectID)
	if err != nil {
		return "", err
	}
	return p.Target, nil
}

// DeleteProject removes the project and cascades to its people, assets
// and findings. Activity events referencing them are kept; dangling weak
// references are tolerated. Any events commit with the delete under the
// same lock acquisition; a failed delete appends nothing.
func (s *Store) DeleteProject(id string, events ...*activity.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects.get(id); !ok {
		return errors.ErrProjectNotFound
	}
	s.projects.removeWhere(func(p *project.Project) bool { return p.ID == id })
	s.people.removeWhere(func(p *person.Person) bool { return p.ProjectID == id })
	s.assets.removeWhere(func(a *asset.Asset) bool { return a.ProjectID == id })
	s.findings.removeWhere(func(f *finding.Finding) bool { return f.ProjectID == id })
	s.events = append(s.events, events...)
	return nil
}

// UpdateProject applies fn to a clone of the stored project and swaps the
// clone in, appending any returned events in the same commit.
func (s *Store) UpdateProject(id string, fn func(*project.Project) ([]*activity.Event, error)) (*project.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.projects.get(id)
	if !ok {
		return nil, errors.ErrProjectNotFound
	}
	next := cloneProject(cur)
	events, err := fn(next)
	if err != nil {
		return nil, err
	}
	s.projects.upsert(id, next)
	s.events = append(s.events, events...)
	return next, nil
}

// --- people ---

// UpsertPerson inserts or replaces a person. The owning project must
// exist.
func (s *Store) UpsertPerson(p *person.Person) error {
	if err := validatePerson(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects.get(p.ProjectID); !ok {
		return errors.NewValidationError("UNKNOWN_PROJECT", "person references unknown project: "+p.ProjectID)
	}
	s.people.upsert(p.ID, p)
	s.touchProject(p.ProjectID, time.Now().UTC())
	return nil
}

// GetPerson returns the person or NotFoundError.
func (s *Store) GetPerson(id string) (*person.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.people.get(id)
	if !ok {
		return nil, errors.ErrPersonNotFound
	}
	return p, nil
}

// PeopleByProject returns the project's people in insertion order.
func (s *Store) PeopleByProject(projectID string) []*person.Person {
	out := []*person.Person{}
	for p := range s.QueryPeople(func(p *person.Person) bool { return p.ProjectID == projectID }) {
		out = append(out, p)
	}
	return out
}

// QueryPeople returns a restartable snapshot sequence in insertion order.
func (s *Store) QueryPeople(pred func(*person.Person) bool) iter.Seq[*person.Person] {
	s.mu.RLock()
	snap := s.people.snapshot()
	s.mu.RUnlock()
	return querySeq(snap, pred)
}

// UpdatePerson applies fn to a clone and commits it with any returned
// events atomically.
func (s *Store) UpdatePerson(id string, fn func(*person.Person) ([]*activity.Event, error)) (*person.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.people.get(id)
	if !ok {
		return nil, errors.ErrPersonNotFound
	}
	next := clonePerson(cur)
	events, err := fn(next)
	if err != nil {
		return nil, err
	}
	s.people.upsert(id, next)
	s.events = append(s.events, events...)
	s.touchProject(next.ProjectID, time.Now().UTC())
	return next, nil
}

// --- assets ---

// UpsertAsset inserts or replaces an asset. The owning project must
// exist.
func (s *Store) UpsertAsset(a *asset.Asset) error {
	if err := validateAsset(a); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects.get(a.ProjectID); !ok {
		return errors.NewValidationError("UNKNOWN_PROJECT", "asset references unknown project: "+a.ProjectID)
	}
	s.assets.upsert(a.ID, a)
	s.touchProject(a.ProjectID, time.Now().UTC())
	return nil
}

// GetAsset returns the asset or NotFoundError.
func (s *Store) GetAsset(id string) (*asset.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assets.get(id)
	if !ok {
		return nil, errors.ErrAssetNotFound
	}
	return a, nil
}

// AssetsByProject returns the project's assets in insertion order.
func (s *Store) AssetsByProject(projectID string) []*asset.Asset {
	s.mu.RLock()
	snap := s.assets.snapshot()
	s.mu.RUnlock()
	out := []*asset.Asset{}
	for _, a := range snap {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out
}

// --- findings ---

// UpsertFinding inserts or replaces a finding. The owning project must
// exist.
func (s *Store) UpsertFinding(f *finding.Finding) error {
	if err := validateFinding(f); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects.get(f.ProjectID); !ok {
		return errors.NewValidationError("UNKNOWN_PROJECT", "finding references unknown project: "+f.ProjectID)
	}
	s.findings.upsert(f.ID, f)
	s.touchProject(f.ProjectID, time.Now().UTC())
	return nil
}

// GetFinding returns the finding or NotFoundError.
func (s *Store) GetFinding(id string) (*finding.Finding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.findings.get(id)
	if !ok {
		return nil, errors.ErrFindingNotFound
	}
	return f, nil
}

// FindingsByProject returns the project's findings in insertion order.
func (s *Store) FindingsByProject(projectID string) []*finding.Finding {
	out := []*finding.Finding{}
	for f := range s.QueryFindings(func(f *finding.Finding) bool { return f.ProjectID == projectID }) {
		out = append(out, f)
	}
	return out
}

// QueryFindings returns a restartable snapshot sequence in insertion
// order.
func (s *Store) QueryFindings(pred func(*finding.Finding) bool) iter.Seq[*finding.Finding] {
	s.mu.RLock()
	snap := s.findings.snapshot()
	s.mu.RUnlock()
	return querySeq(snap, pred)
}

// UpdateFinding applies fn to a clone of the stored finding. On success
// the clone, the returned audit events, and the owning project's activity
// timestamp commit as one unit; on error nothing changes.
func (s *Store) UpdateFinding(id string, fn func(*finding.Finding) ([]*activity.Event, error)) (*finding.Finding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.findings.get(id)
	if !ok {
		return nil, errors.ErrFindingNotFound
	}
	next := cloneFinding(cur)
	events, err := fn(next)
	if err != nil {
		return nil, err
	}
	s.findings.upsert(id, next)
	s.events = append(s.events, events...)
	s.touchProject(next.ProjectID, time.Now().UTC())
	return next, nil
}

// --- activity ---

// AppendEvents appends to the activity log. Events are never mutated or
// deleted afterwards.
func (s *Store) AppendEvents(events ...*activity.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
}

// Events returns the full activity log in append order.
func (s *Store) Events() []*activity.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*activity.Event, len(s.events))
	copy(out, s.events)
	return out
}

// touchProject advances the owning project's last-activity timestamp.
// Callers must hold the write lock.
func (s *Store) touchProject(projectID string, at time.Time) {
	cur, ok := s.projects.get(projectID)
	if !ok {
		return
	}
	next := cloneProject(cur)
	next.Touch(at)
	s.projects.upsert(projectID, next)
}

func querySeq[T any](snap []T, pred func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range snap {
			if pred != nil && !pred(v) {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}
