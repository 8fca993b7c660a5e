package project_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redscope/engagement-backend/internal/domain/errors"
	"github.com/redscope/engagement-backend/internal/domain/project"
)

func TestNew(t *testing.T) {
	p, err := project.New("p1", "Acme Corp Assessment", "acme.example", []string{"*.acme.example"})
	require.NoError(t, err)
	assert.Equal(t, project.StatusActive, p.Status)
	assert.NotZero(t, p.CreatedAt)
	assert.Equal(t, p.CreatedAt, p.LastActivity)
	assert.Zero(t, p.Stats)

	_, err = project.New("", "x", "y", nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = project.New("p1", "", "y", nil)
	require.Error(t, err)

	_, err = project.New("p1", "x", "", nil)
	require.Error(t, err)
}

func TestComplete(t *testing.T) {
	p, err := project.New("p1", "Acme", "acme.example", nil)
	require.NoError(t, err)
	p.Complete()
	assert.Equal(t, project.StatusCompleted, p.Status)
}

func TestTouch(t *testing.T) {
	p, err := project.New("p1", "Acme", "acme.example", nil)
	require.NoError(t, err)

	later := p.LastActivity.Add(time.Hour)
	p.Touch(later)
	assert.Equal(t, later, p.LastActivity)

	// A touch in the past never rewinds the timestamp.
	p.Touch(later.Add(-2 * time.Hour))
	assert.Equal(t, later, p.LastActivity)
}

func TestHasMember(t *testing.T) {
	p, err := project.New("p1", "Acme", "acme.example", nil)
	require.NoError(t, err)
	p.TeamMembers = []string{"alice", "bob"}
	assert.True(t, p.HasMember("alice"))
	assert.False(t, p.HasMember("mallory"))
}
