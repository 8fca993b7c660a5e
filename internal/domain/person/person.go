package person

import (
	"time"

	"github.com/redscope/engagement-backend/internal/domain/errors"
)

// Platform identifies the social network a profile was discovered on
type Platform string

const (
	PlatformLinkedIn Platform = "LinkedIn"
	PlatformGitHub   Platform = "GitHub"
	PlatformTwitter  Platform = "Twitter"
	PlatformOther    Platform = "Other"
)

// ParsePlatform maps free-form collector output onto the platform enum.
// Unrecognized platforms collapse to Other rather than failing ingestion.
func ParsePlatform(s string) Platform {
	switch s {
	case "LinkedIn", "linkedin":
		return PlatformLinkedIn
	case "GitHub", "github":
		return PlatformGitHub
	case "Twitter", "twitter":
		return PlatformTwitter
	default:
		return PlatformOther
	}
}

// SocialProfile is a single discovered social media presence.
type SocialProfile struct {
	Platform  Platform `json:"platform"`
	Handle    string   `json:"handle"`
	Followers int      `json:"followers,omitempty"`
	Repos     int      `json:"repos,omitempty"`
	Verified  bool     `json:"verified"`
}

// LeakRecord is a breach-database hit attributed to the person.
type LeakRecord struct {
	Source string `json:"source"`
	Type   string `json:"type"`
	Date   string `json:"date"`
}

// Person is an individual discovered during reconnaissance.
type Person struct {
	ID             string          `json:"id"`
	ProjectID      string          `json:"project_id"`
	Name           string          `json:"name"`
	Title          string          `json:"title"`
	Email          string          `json:"email"`
	Source         string          `json:"source"`
	SocialProfiles []SocialProfile `json:"social_profiles"`
	LeakedData     []LeakRecord    `json:"leaked_data"`
	Confidence     ConfidenceTier  `json:"confidence"`
	Tags           []string        `json:"tags"`
	Discovered     time.Time       `json:"discovered"`
}

// New creates a person record attributed to a project. The confidence tier
// is left for the classifier; callers ingesting pre-classified data may set
// it directly afterwards.
func New(id, projectID, name, source string) (*Person, error) {
	if id == "" {
		return nil, errors.NewValidationError("MISSING_ID", "person id is required")
	}
	if projectID == "" {
		return nil, errors.NewValidationError("MISSING_PROJECT", "person project reference is required")
	}
	if name == "" {
		return nil, errors.NewValidationError("MISSING_NAME", "person name is required")
	}

	return &Person{
		ID:         id,
		ProjectID:  projectID,
		Name:       name,
		Source:     source,
		Confidence: TierLow,
		Discovered: time.Now().UTC(),
	}, nil
}

// AddTags appends tags the person does not already carry, preserving the
// order tags were first applied in.
func (p *Person) AddTags(tags ...string) {
	for _, tag := range tags {
		if tag == "" || p.HasTag(tag) {
			continue
		}
		p.Tags = append(p.Tags, tag)
	}
}

// HasTag reports whether the person carries the exact tag.
func (p *Person) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
