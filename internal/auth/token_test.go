package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neomorfeo/agencyhub/internal/domain"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(Options{
		SigningKey: []byte("test-secret"),
		Issuer:     "agencyhub",
		Audience:   "agencyhub-api",
		TTL:        time.Hour,
	})
	require.NoError(t, err)
	return m
}

func TestManager_RoundTrip(t *testing.T) {
	m := newTestManager(t)
	actor := domain.Actor{ID: "u-7", Role: domain.RoleClient, ClientID: "c-1"}

	token, err := m.Issue(actor)
	require.NoError(t, err)

	got, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestManager_RejectsBadIssue(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Issue(domain.Actor{Role: domain.RoleAdmin})
	assert.Error(t, err, "missing subject")

	_, err = m.Issue(domain.Actor{ID: "u-1", Role: domain.RoleClient})
	assert.Error(t, err, "client without client id")

	_, err = m.Issue(domain.SystemActor())
	assert.Error(t, err, "system role")
}

func TestManager_Expired(t *testing.T) {
	m := newTestManager(t)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.Issue(domain.Actor{ID: "u-1", Role: domain.RoleStaff})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestManager_WrongKey(t *testing.T) {
	m := newTestManager(t)
	token, err := m.Issue(domain.Actor{ID: "u-1", Role: domain.RoleAdmin})
	require.NoError(t, err)

	other, err := NewManager(Options{SigningKey: []byte("other"), Issuer: "agencyhub", Audience: "agencyhub-api"})
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_WrongAudience(t *testing.T) {
	m := newTestManager(t)
	token, err := m.Issue(domain.Actor{ID: "u-1", Role: domain.RoleAdmin})
	require.NoError(t, err)

	other, err := NewManager(Options{SigningKey: []byte("test-secret"), Issuer: "agencyhub", Audience: "elsewhere"})
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewManager_RequiresKey(t *testing.T) {
	_, err := NewManager(Options{})
	assert.Error(t, err)
}

func TestActorContext(t *testing.T) {
	_, ok := ActorFrom(context.Background())
	assert.False(t, ok)

	actor := domain.Actor{ID: "u-1", Role: domain.RoleStaff}
	got, ok := ActorFrom(WithActor(context.Background(), actor))
	require.True(t, ok)
	assert.Equal(t, actor, got)
}
