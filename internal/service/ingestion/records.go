package ingestion

import "time"

// Record shapes accepted from the ingestion collaborator. Transport and
// parsing are the collaborator's concern; these arrive as structured data
// and are validated field-by-field before anything is committed.

type ProjectRecord struct {
	ID          string    `json:"id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Target      string    `json:"target" validate:"required"`
	Scope       []string  `json:"scope"`
	Status      string    `json:"status" validate:"omitempty,oneof=active completed"`
	NDASigned   bool      `json:"nda_signed"`
	TeamMembers []string  `json:"team_members"`
	CreatedAt   time.Time `json:"created_at"`
}

type SocialProfileRecord struct {
	Platform  string `json:"platform" validate:"required"`
	Handle    string `json:"handle"`
	Followers int    `json:"followers" validate:"gte=0"`
	Repos     int    `json:"repos" validate:"gte=0"`
	Verified  bool   `json:"verified"`
}

type LeakRecord struct {
	Source string `json:"source" validate:"required"`
	Type   string `json:"type"`
	Date   string `json:"date"`
}

type PersonRecord struct {
	ID             string                `json:"id" validate:"required"`
	ProjectID      string                `json:"project_id" validate:"required"`
	Name           string                `json:"name" validate:"required"`
	Title          string                `json:"title"`
	Email          string                `json:"email" validate:"omitempty,email"`
	Source         string                `json:"source"`
	SocialProfiles []SocialProfileRecord `json:"social_profiles" validate:"dive"`
	LeakedData     []LeakRecord          `json:"leaked_data" validate:"dive"`
	Confidence     string                `json:"confidence" validate:"omitempty,oneof=high medium low"`
	Tags           []string              `json:"tags"`
	Discovered     time.Time             `json:"discovered"`
}

type AssetRecord struct {
	ID        string `json:"id" validate:"required"`
	ProjectID string `json:"project_id" validate:"required"`
	Type      string `json:"type" validate:"required"`
	Value     string `json:"value" validate:"required"`
}

type FindingRecord struct {
	ID         string    `json:"id" validate:"required"`
	ProjectID  string    `json:"project_id" validate:"required"`
	Title      string    `json:"title" validate:"required"`
	Severity   string    `json:"severity" validate:"required,oneof=critical high medium low"`
	Asset      string    `json:"asset"`
	CVE        string    `json:"cve"`
	CVSS       float64   `json:"cvss" validate:"gte=0,lte=10"`
	Status     string    `json:"status" validate:"omitempty,oneof=to-triage confirmed exploitable remediated"`
	AssignedTo string    `json:"assigned_to"`
	CreatedAt  time.Time `json:"created_at"`
}

type EventRecord struct {
	Actor       string    `json:"actor" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Timestamp   time.Time `json:"timestamp"`
	RefKind     string    `json:"ref_kind" validate:"omitempty,oneof=project person asset finding"`
	RefID       string    `json:"ref_id"`
}

// Batch is one ingestion payload.
type Batch struct {
	Projects []ProjectRecord `json:"projects" validate:"dive"`
	People   []PersonRecord  `json:"people" validate:"dive"`
	Assets   []AssetRecord   `json:"assets" validate:"dive"`
	Findings []FindingRecord `json:"findings" validate:"dive"`
	Events   []EventRecord   `json:"events" validate:"dive"`
}

// Summary reports how many records a batch committed.
type Summary struct {
	Projects int `json:"projects"`
	People   int `json:"people"`
	Assets   int `json:"assets"`
	Findings int `json:"findings"`
	Events   int `json:"events"`
}
