package finding_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redscope/engagement-backend/internal/domain/errors"
	"github.com/redscope/engagement-backend/internal/domain/finding"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		project  string
		title    string
		severity finding.Severity
		cvss     float64
		wantErr  bool
	}{
		{
			name:     "creates finding in to-triage",
			id:       "f1",
			project:  "p1",
			title:    "Exposed admin panel",
			severity: finding.SeverityCritical,
			cvss:     9.8,
		},
		{
			name:     "rejects missing id",
			project:  "p1",
			title:    "x",
			severity: finding.SeverityLow,
			wantErr:  true,
		},
		{
			name:     "rejects missing project",
			id:       "f1",
			title:    "x",
			severity: finding.SeverityLow,
			wantErr:  true,
		},
		{
			name:     "rejects unknown severity",
			id:       "f1",
			project:  "p1",
			title:    "x",
			severity: finding.Severity("catastrophic"),
			wantErr:  true,
		},
		{
			name:     "rejects cvss above 10",
			id:       "f1",
			project:  "p1",
			title:    "x",
			severity: finding.SeverityLow,
			cvss:     10.1,
			wantErr:  true,
		},
		{
			name:     "rejects negative cvss",
			id:       "f1",
			project:  "p1",
			title:    "x",
			severity: finding.SeverityLow,
			cvss:     -0.1,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := finding.New(tt.id, tt.project, tt.title, tt.severity, "a1", tt.cvss)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, finding.StatusToTriage, f.Status)
			assert.Empty(t, f.AssignedTo)
			assert.NotZero(t, f.CreatedAt)
			assert.Equal(t, f.CreatedAt, f.LastTransition)
		})
	}
}

func TestTransitionTo_EdgeMatrix(t *testing.T) {
	allowed := map[finding.Status][]finding.Status{
		finding.StatusToTriage:    {finding.StatusConfirmed, finding.StatusRemediated},
		finding.StatusConfirmed:   {finding.StatusExploitable, finding.StatusRemediated},
		finding.StatusExploitable: {finding.StatusRemediated},
		finding.StatusRemediated:  {},
	}

	isAllowed := func(from, to finding.Status) bool {
		for _, s := range allowed[from] {
			if s == to {
				return true
			}
		}
		return false
	}

	for _, from := range finding.Statuses {
		for _, to := range finding.Statuses {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				f, err := finding.New("f1", "p1", "x", finding.SeverityMedium, "a1", 5.0)
				require.NoError(t, err)
				f.Status = from
				before := f.LastTransition

				err = f.TransitionTo(to, time.Now().UTC().Add(time.Minute))
				if isAllowed(from, to) {
					require.NoError(t, err)
					assert.Equal(t, to, f.Status)
					assert.True(t, f.LastTransition.After(before))
				} else {
					require.Error(t, err)
					assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidTransition))
					assert.Equal(t, from, f.Status, "finding must be unchanged after illegal transition")
					assert.Equal(t, before, f.LastTransition)
				}
			})
		}
	}
}

func TestTransitionTo_UnknownTarget(t *testing.T) {
	f, err := finding.New("f1", "p1", "x", finding.SeverityLow, "a1", 1.0)
	require.NoError(t, err)

	err = f.TransitionTo(finding.Status("wontfix"), time.Now())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Equal(t, finding.StatusToTriage, f.Status)
}

func TestReopen(t *testing.T) {
	tests := []struct {
		name    string
		status  finding.Status
		wantErr bool
	}{
		{name: "reopens remediated finding", status: finding.StatusRemediated},
		{name: "rejects reopen from to-triage", status: finding.StatusToTriage, wantErr: true},
		{name: "rejects reopen from confirmed", status: finding.StatusConfirmed, wantErr: true},
		{name: "rejects reopen from exploitable", status: finding.StatusExploitable, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := finding.New("f1", "p1", "x", finding.SeverityLow, "a1", 2.0)
			require.NoError(t, err)
			f.Status = tt.status

			err = f.Reopen(time.Now().UTC())
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidTransition))
				assert.Equal(t, tt.status, f.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, finding.StatusToTriage, f.Status)
		})
	}
}

func TestAssign_IndependentOfStatus(t *testing.T) {
	for _, status := range finding.Statuses {
		f, err := finding.New("f1", "p1", "x", finding.SeverityLow, "a1", 2.0)
		require.NoError(t, err)
		f.Status = status

		f.Assign("alice")
		assert.Equal(t, "alice", f.AssignedTo)

		f.Assign("")
		assert.Empty(t, f.AssignedTo)
	}
}

func TestSeverityRank(t *testing.T) {
	assert.Greater(t, finding.SeverityCritical.Rank(), finding.SeverityHigh.Rank())
	assert.Greater(t, finding.SeverityHigh.Rank(), finding.SeverityMedium.Rank())
	assert.Greater(t, finding.SeverityMedium.Rank(), finding.SeverityLow.Rank())
	assert.Greater(t, finding.SeverityLow.Rank(), finding.Severity("bogus").Rank())
}
