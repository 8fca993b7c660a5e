package triage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redscope/engagement-backend/internal/domain/errors"
	"github.com/redscope/engagement-backend/internal/domain/finding"
	"github.com/redscope/engagement-backend/internal/service/triage"
	"github.com/redscope/engagement-backend/internal/store"
	"github.com/redscope/engagement-backend/internal/testutil/fixtures"
)

func setup(t *testing.T, status finding.Status) (*store.Store, triage.Service) {
	t.Helper()
	s := store.New()
	require.NoError(t, s.UpsertProject(fixtures.NewProjectBuilder(t).Build()))
	require.NoError(t, s.UpsertFinding(fixtures.NewFindingBuilder(t).WithStatus(status).Build()))
	return s, triage.NewService(s, nil)
}

func TestTransition_AppendsAuditEvent(t *testing.T) {
	s, svc := setup(t, finding.StatusToTriage)
	ctx := context.Background()

	f, err := svc.Transition(ctx, "f1", finding.StatusConfirmed, "alice")
	require.NoError(t, err)
	assert.Equal(t, finding.StatusConfirmed, f.Status)

	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "alice", events[0].Actor)
	assert.Contains(t, events[0].Description, "from to-triage to confirmed")
	assert.Equal(t, "f1", events[0].RefID)
}

func TestTransition_IllegalEdgeLeavesFindingUnchanged(t *testing.T) {
	s, svc := setup(t, finding.StatusConfirmed)
	ctx := context.Background()

	_, err := svc.Transition(ctx, "f1", finding.StatusToTriage, "alice")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidTransition))

	f, err := s.GetFinding("f1")
	require.NoError(t, err)
	assert.Equal(t, finding.StatusConfirmed, f.Status)
	assert.Empty(t, s.Events(), "failed transition must not log")
}

func TestTransition_UnknownFinding(t *testing.T) {
	_, svc := setup(t, finding.StatusToTriage)

	_, err := svc.Transition(context.Background(), "ghost", finding.StatusConfirmed, "alice")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestTransition_RequiresActor(t *testing.T) {
	_, svc := setup(t, finding.StatusToTriage)

	_, err := svc.Transition(context.Background(), "f1", finding.StatusConfirmed, "")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestReopen(t *testing.T) {
	s, svc := setup(t, finding.StatusRemediated)
	ctx := context.Background()

	f, err := svc.Reopen(ctx, "f1", "bob")
	require.NoError(t, err)
	assert.Equal(t, finding.StatusToTriage, f.Status)

	events := s.Events()
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Description, "reopened")
}

func TestReopen_OnlyFromRemediated(t *testing.T) {
	s, svc := setup(t, finding.StatusExploitable)

	_, err := svc.Reopen(context.Background(), "f1", "bob")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidTransition))
	assert.Empty(t, s.Events())
}

func TestAssign_AnyStateAndUnassign(t *testing.T) {
	for _, status := range finding.Statuses {
		s, svc := setup(t, status)
		ctx := context.Background()

		f, err := svc.Assign(ctx, "f1", "carol", "alice")
		require.NoError(t, err)
		assert.Equal(t, "carol", f.AssignedTo)
		assert.Equal(t, status, f.Status, "assignment must not change status")

		f, err = svc.Assign(ctx, "f1", "", "alice")
		require.NoError(t, err)
		assert.Empty(t, f.AssignedTo)

		assert.Len(t, s.Events(), 2)
	}
}
