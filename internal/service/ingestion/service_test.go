package ingestion_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redscope/engagement-backend/internal/domain/errors"
	"github.com/redscope/engagement-backend/internal/domain/person"
	"github.com/redscope/engagement-backend/internal/service/ingestion"
	"github.com/redscope/engagement-backend/internal/store"
	"github.com/redscope/engagement-backend/internal/testutil/fixtures"
)

func projectRecord() ingestion.ProjectRecord {
	return ingestion.ProjectRecord{
		ID:     "p1",
		Name:   "Acme Corp Assessment",
		Target: "acme.example",
		Scope:  []string{"*.acme.example"},
	}
}

func TestIngest_FullBatch(t *testing.T) {
	s := store.New()
	svc := ingestion.NewService(s)

	summary, err := svc.Ingest(context.Background(), ingestion.Batch{
		Projects: []ingestion.ProjectRecord{projectRecord()},
		People: []ingestion.PersonRecord{{
			ID:        "per1",
			ProjectID: "p1",
			Name:      "Jordan Reyes",
			Email:     "jordan.reyes@acme.example",
			Source:    "linkedin-scrape",
			SocialProfiles: []ingestion.SocialProfileRecord{
				{Platform: "linkedin", Handle: "jordan-reyes", Verified: true},
			},
		}},
		Assets: []ingestion.AssetRecord{{
			ID: "a1", ProjectID: "p1", Type: "subdomain", Value: "vpn.acme.example",
		}},
		Findings: []ingestion.FindingRecord{{
			ID: "f1", ProjectID: "p1", Title: "Exposed admin panel", Severity: "critical", CVSS: 9.8,
		}},
		Events: []ingestion.EventRecord{{
			Actor: "scanner", Description: "imported recon scan", RefKind: "asset", RefID: "a1",
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, &ingestion.Summary{Projects: 1, People: 1, Assets: 1, Findings: 1, Events: 1}, summary)

	// The person had no explicit tier, so ingestion classified them
	// against the project's target domain.
	p, err := s.GetPerson("per1")
	require.NoError(t, err)
	assert.Equal(t, person.TierHigh, p.Confidence)

	_, err = s.GetFinding("f1")
	require.NoError(t, err)
	assert.Len(t, s.Events(), 1)
}

func TestIngest_KeepsPreclassifiedTier(t *testing.T) {
	s := store.New()
	svc := ingestion.NewService(s)

	_, err := svc.Ingest(context.Background(), ingestion.Batch{
		Projects: []ingestion.ProjectRecord{projectRecord()},
		People: []ingestion.PersonRecord{{
			ID: "per1", ProjectID: "p1", Name: "Jordan Reyes",
			Email:      "jordan.reyes@acme.example",
			Confidence: "low",
		}},
	})
	require.NoError(t, err)

	p, err := s.GetPerson("per1")
	require.NoError(t, err)
	assert.Equal(t, person.TierLow, p.Confidence)
}

func TestIngest_ClassifiesAgainstExistingProject(t *testing.T) {
	s := store.New()
	require.NoError(t, s.UpsertProject(fixtures.NewProjectBuilder(t).Build()))
	svc := ingestion.NewService(s)

	_, err := svc.Ingest(context.Background(), ingestion.Batch{
		People: []ingestion.PersonRecord{{
			ID: "per1", ProjectID: "p1", Name: "Jordan Reyes",
			Email: "jordan.reyes@gmail.com",
		}},
	})
	require.NoError(t, err)

	p, err := s.GetPerson("per1")
	require.NoError(t, err)
	assert.Equal(t, person.TierMedium, p.Confidence)
}

func TestIngest_UnknownProjectRejectsWholeBatch(t *testing.T) {
	s := store.New()
	svc := ingestion.NewService(s)

	_, err := svc.Ingest(context.Background(), ingestion.Batch{
		Projects: []ingestion.ProjectRecord{projectRecord()},
		Findings: []ingestion.FindingRecord{{
			ID: "f1", ProjectID: "ghost", Title: "x", Severity: "low", CVSS: 1.0,
		}},
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	// Nothing from the failed batch is visible, not even the valid project.
	assert.Empty(t, s.Projects())
}

func TestIngest_MalformedRecord(t *testing.T) {
	svc := ingestion.NewService(store.New())

	tests := []struct {
		name  string
		batch ingestion.Batch
	}{
		{
			name: "missing project name",
			batch: ingestion.Batch{
				Projects: []ingestion.ProjectRecord{{ID: "p1", Target: "acme.example"}},
			},
		},
		{
			name: "bad email",
			batch: ingestion.Batch{
				People: []ingestion.PersonRecord{{ID: "per1", ProjectID: "p1", Name: "x", Email: "not-an-email"}},
			},
		},
		{
			name: "unknown severity",
			batch: ingestion.Batch{
				Findings: []ingestion.FindingRecord{{ID: "f1", ProjectID: "p1", Title: "x", Severity: "catastrophic"}},
			},
		},
		{
			name: "cvss out of range",
			batch: ingestion.Batch{
				Findings: []ingestion.FindingRecord{{ID: "f1", ProjectID: "p1", Title: "x", Severity: "low", CVSS: 11}},
			},
		},
		{
			name: "unknown ref kind",
			batch: ingestion.Batch{
				Events: []ingestion.EventRecord{{Actor: "a", Description: "d", RefKind: "campaign"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Ingest(context.Background(), tt.batch)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
		})
	}
}

func TestIngest_RedeliveryReplacesByID(t *testing.T) {
	s := store.New()
	svc := ingestion.NewService(s)
	ctx := context.Background()

	batch := ingestion.Batch{
		Projects: []ingestion.ProjectRecord{projectRecord()},
		Findings: []ingestion.FindingRecord{{
			ID: "f1", ProjectID: "p1", Title: "Exposed admin panel", Severity: "high", CVSS: 7.0,
		}},
	}
	_, err := svc.Ingest(ctx, batch)
	require.NoError(t, err)

	batch.Findings[0].Severity = "critical"
	batch.Findings[0].CVSS = 9.8
	_, err = svc.Ingest(ctx, batch)
	require.NoError(t, err)

	findings := s.FindingsByProject("p1")
	require.Len(t, findings, 1)
	assert.Equal(t, 9.8, findings[0].CVSS)
}
