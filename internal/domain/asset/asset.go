package asset

import (
	"time"

	"github.com/redscope/engagement-backend/internal/domain/errors"
)

// Type categorizes a discovered asset. The enum is open: collectors may
// report types beyond the named constants and they pass through unchanged.
type Type string

const (
	TypeSubdomain Type = "subdomain"
	TypeIP        Type = "ip"
	TypeService   Type = "service"
)

// Asset is an attack-surface element discovered for a project.
type Asset struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	Type       Type      `json:"type"`
	Value      string    `json:"value"`
	Discovered time.Time `json:"discovered"`
}

// New creates an asset record attributed to a project.
func New(id, projectID string, assetType Type, value string) (*Asset, error) {
	if id == "" {
		return nil, errors.NewValidationError("MISSING_ID", "asset id is required")
	}
	if projectID == "" {
		return nil, errors.NewValidationError("MISSING_PROJECT", "asset project reference is required")
	}
	if value == "" {
		return nil, errors.NewValidationError("MISSING_VALUE", "asset value is required")
	}

	return &Asset{
		ID:         id,
		ProjectID:  projectID,
		Type:       assetType,
		Value:      value,
		Discovered: time.Now().UTC(),
	}, nil
}
