package activity

import (
	"time"

	"github.com/google/uuid"
)

// RefKind names the kind of entity an event references
type RefKind string

const (
	RefProject RefKind = "project"
	RefPerson  RefKind = "person"
	RefAsset   RefKind = "asset"
	RefFinding RefKind = "finding"
	RefNone    RefKind = ""
)

// Event is a single entry in the append-only activity feed. Events are
// never mutated or deleted; references are weak, so an event may outlive
// the entity it points at after a project cascade delete.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Actor       string    `json:"actor"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	RefKind     RefKind   `json:"ref_kind,omitempty"`
	RefID       string    `json:"ref_id,omitempty"`
}

// New creates an event stamped with the current time.
func New(actor, description string, refKind RefKind, refID string) *Event {
	return &Event{
		ID:          uuid.New(),
		Actor:       actor,
		Description: description,
		Timestamp:   time.Now().UTC(),
		RefKind:     refKind,
		RefID:       refID,
	}
}
