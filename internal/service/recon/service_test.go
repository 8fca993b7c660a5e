package recon_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redscope/engagement-backend/internal/domain/errors"
	"github.com/redscope/engagement-backend/internal/domain/person"
	"github.com/redscope/engagement-backend/internal/service/recon"
	"github.com/redscope/engagement-backend/internal/store"
	"github.com/redscope/engagement-backend/internal/testutil/fixtures"
)

func setup(t *testing.T) (*store.Store, recon.Service) {
	t.Helper()
	s := store.New()
	require.NoError(t, s.UpsertProject(fixtures.NewProjectBuilder(t).Build()))
	require.NoError(t, s.UpsertPerson(fixtures.NewPersonBuilder(t).WithEmail("jordan.reyes@gmail.com").Build()))
	return s, recon.NewService(s, s)
}

func TestTagPerson(t *testing.T) {
	s, svc := setup(t)

	p, err := svc.TagPerson(context.Background(), "per1", []string{"developer", "vip"}, "alice")
	require.NoError(t, err)
	assert.Contains(t, p.Tags, "developer")
	assert.Contains(t, p.Tags, "vip")

	events := s.Events()
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Description, "tagged Jordan Reyes")
}

func TestTagPerson_OverrideTagReclassifies(t *testing.T) {
	_, svc := setup(t)

	p, err := svc.TagPerson(context.Background(), "per1",
		[]string{person.OverrideTagPrefix + "high"}, "alice")
	require.NoError(t, err)
	assert.Equal(t, person.TierHigh, p.Confidence)
}

func TestTagPerson_Validation(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	_, err := svc.TagPerson(ctx, "per1", nil, "alice")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = svc.TagPerson(ctx, "per1", []string{"x"}, "")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = svc.TagPerson(ctx, "ghost", []string{"x"}, "alice")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestMutations_ReturnAgainstStoreBackedTargets(t *testing.T) {
	// The store serves as both person repository and target resolver, the
	// way cmd/api wires it. Both mutations must come back with the store's
	// write lock released.
	_, svc := setup(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := svc.TagPerson(context.Background(), "per1", []string{"vip"}, "alice")
		assert.NoError(t, err)
		_, err = svc.Reclassify(context.Background(), "per1")
		assert.NoError(t, err)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("person mutation never returned; store lock still held")
	}
}

func TestReclassify(t *testing.T) {
	s, svc := setup(t)

	stored, err := s.GetPerson("per1")
	require.NoError(t, err)
	require.Equal(t, person.TierLow, stored.Confidence)

	// The generic email is one weak signal, so reclassification lifts
	// the stored tier to medium.
	p, err := svc.Reclassify(context.Background(), "per1")
	require.NoError(t, err)
	assert.Equal(t, person.TierMedium, p.Confidence)
}
