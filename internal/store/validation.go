package store

import (
	"github.com/redscope/engagement-backend/internal/domain/asset"
	"github.com/redscope/engagement-backend/internal/domain/errors"
	"github.com/redscope/engagement-backend/internal/domain/finding"
	"github.com/redscope/engagement-backend/internal/domain/person"
	"github.com/redscope/engagement-backend/internal/domain/project"
)

// Write-side invariants. Entities built through the domain constructors
// already satisfy these; records arriving pre-built from ingestion are
// re-checked here so a malformed upsert never lands.

func validateProject(p *project.Project) error {
	switch {
	case p == nil:
		return errors.NewValidationError("NIL_ENTITY", "project is nil")
	case p.ID == "":
		return errors.NewValidationError("MISSING_ID", "project id is required")
	case p.Name == "":
		return errors.NewValidationError("MISSING_NAME", "project name is required")
	case p.Target == "":
		return errors.NewValidationError("MISSING_TARGET", "project target is required")
	case !p.Status.Valid():
		return errors.NewValidationError("INVALID_STATUS", "unknown project status: "+string(p.Status))
	}
	return nil
}

func validatePerson(p *person.Person) error {
	switch {
	case p == nil:
		return errors.NewValidationError("NIL_ENTITY", "person is nil")
	case p.ID == "":
		return errors.NewValidationError("MISSING_ID", "person id is required")
	case p.ProjectID == "":
		return errors.NewValidationError("MISSING_PROJECT", "person project reference is required")
	case p.Name == "":
		return errors.NewValidationError("MISSING_NAME", "person name is required")
	case !p.Confidence.Valid():
		return errors.NewValidationError("INVALID_CONFIDENCE", "unknown confidence tier: "+string(p.Confidence))
	}
	return nil
}

func validateAsset(a *asset.Asset) error {
	switch {
	case a == nil:
		return errors.NewValidationError("NIL_ENTITY", "asset is nil")
	case a.ID == "":
		return errors.NewValidationError("MISSING_ID", "asset id is required")
	case a.ProjectID == "":
		return errors.NewValidationError("MISSING_PROJECT", "asset project reference is required")
	case a.Value == "":
		return errors.NewValidationError("MISSING_VALUE", "asset value is required")
	}
	return nil
}

func validateFinding(f *finding.Finding) error {
	switch {
	case f == nil:
		return errors.NewValidationError("NIL_ENTITY", "finding is nil")
	case f.ID == "":
		return errors.NewValidationError("MISSING_ID", "finding id is required")
	case f.ProjectID == "":
		return errors.NewValidationError("MISSING_PROJECT", "finding project reference is required")
	case f.Title == "":
		return errors.NewValidationError("MISSING_TITLE", "finding title is required")
	case !f.Severity.Valid():
		return errors.NewValidationError("INVALID_SEVERITY", "unknown severity: "+string(f.Severity))
	case !f.Status.Valid():
		return errors.NewValidationError("INVALID_STATUS", "unknown status: "+string(f.Status))
	case f.CVSS < 0.0 || f.CVSS > 10.0:
		return errors.NewValidationError("INVALID_CVSS", "cvss score must be between 0.0 and 10.0")
	}
	return nil
}

// Clone helpers for the copy-on-write mutation path. Slices the mutation
// methods append to are copied; everything else is value-copied.

func cloneProject(p *project.Project) *project.Project {
	next := *p
	next.Scope = append([]string(nil), p.Scope...)
	next.TeamMembers = append([]string(nil), p.TeamMembers...)
	return &next
}

func clonePerson(p *person.Person) *person.Person {
	next := *p
	next.Tags = append([]string(nil), p.Tags...)
	next.SocialProfiles = append([]person.SocialProfile(nil), p.SocialProfiles...)
	next.LeakedData = append([]person.LeakRecord(nil), p.LeakedData...)
	return &next
}

func cloneFinding(f *finding.Finding) *finding.Finding {
	next := *f
	return &next
}
