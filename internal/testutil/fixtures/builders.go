// Package fixtures provides entity builders for tests.
package fixtures

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/redscope/engagement-backend/internal/domain/finding"
	"github.com/redscope/engagement-backend/internal/domain/person"
	"github.com/redscope/engagement-backend/internal/domain/project"
)

// ProjectBuilder builds test Project entities
type ProjectBuilder struct {
	t      *testing.T
	id     string
	name   string
	target string
	scope  []string
	status project.Status
}

// NewProjectBuilder creates a ProjectBuilder with defaults
func NewProjectBuilder(t *testing.T) *ProjectBuilder {
	return &ProjectBuilder{
		t:      t,
		id:     "p1",
		name:   "Acme Corp Assessment",
		target: "acme.example",
		scope:  []string{"*.acme.example"},
		status: project.StatusActive,
	}
}

func (b *ProjectBuilder) WithID(id string) *ProjectBuilder {
	b.id = id
	return b
}

func (b *ProjectBuilder) WithName(name string) *ProjectBuilder {
	b.name = name
	return b
}

func (b *ProjectBuilder) WithTarget(target string) *ProjectBuilder {
	b.target = target
	return b
}

func (b *ProjectBuilder) WithStatus(status project.Status) *ProjectBuilder {
	b.status = status
	return b
}

func (b *ProjectBuilder) Build() *project.Project {
	p, err := project.New(b.id, b.name, b.target, b.scope)
	require.NoError(b.t, err)
	p.Status = b.status
	return p
}

// PersonBuilder builds test Person entities
type PersonBuilder struct {
	t        *testing.T
	id       string
	project  string
	name     string
	email    string
	profiles []person.SocialProfile
	tags     []string
}

// NewPersonBuilder creates a PersonBuilder with defaults
func NewPersonBuilder(t *testing.T) *PersonBuilder {
	return &PersonBuilder{
		t:       t,
		id:      "per1",
		project: "p1",
		name:    "Jordan Reyes",
	}
}

func (b *PersonBuilder) WithID(id string) *PersonBuilder {
	b.id = id
	return b
}

func (b *PersonBuilder) WithProject(projectID string) *PersonBuilder {
	b.project = projectID
	return b
}

func (b *PersonBuilder) WithEmail(email string) *PersonBuilder {
	b.email = email
	return b
}

func (b *PersonBuilder) WithProfile(sp person.SocialProfile) *PersonBuilder {
	b.profiles = append(b.profiles, sp)
	return b
}

func (b *PersonBuilder) WithTags(tags ...string) *PersonBuilder {
	b.tags = append(b.tags, tags...)
	return b
}

func (b *PersonBuilder) Build() *person.Person {
	p, err := person.New(b.id, b.project, b.name, "linkedin-scrape")
	require.NoError(b.t, err)
	p.Email = b.email
	p.SocialProfiles = b.profiles
	p.AddTags(b.tags...)
	return p
}

// FindingBuilder builds test Finding entities
type FindingBuilder struct {
	t        *testing.T
	id       string
	project  string
	title    string
	severity finding.Severity
	status   finding.Status
	cvss     float64
}

// NewFindingBuilder creates a FindingBuilder with defaults
func NewFindingBuilder(t *testing.T) *FindingBuilder {
	return &FindingBuilder{
		t:        t,
		id:       "f1",
		project:  "p1",
		title:    "SQL injection in login form",
		severity: finding.SeverityHigh,
		status:   finding.StatusToTriage,
		cvss:     8.1,
	}
}

func (b *FindingBuilder) WithID(id string) *FindingBuilder {
	b.id = id
	return b
}

func (b *FindingBuilder) WithProject(projectID string) *FindingBuilder {
	b.project = projectID
	return b
}

func (b *FindingBuilder) WithSeverity(severity finding.Severity) *FindingBuilder {
	b.severity = severity
	return b
}

func (b *FindingBuilder) WithStatus(status finding.Status) *FindingBuilder {
	b.status = status
	return b
}

func (b *FindingBuilder) WithCVSS(cvss float64) *FindingBuilder {
	b.cvss = cvss
	return b
}

func (b *FindingBuilder) Build() *finding.Finding {
	f, err := finding.New(b.id, b.project, b.title, b.severity, "a1", b.cvss)
	require.NoError(b.t, err)
	f.Status = b.status
	return f
}
