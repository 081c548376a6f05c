package handler

import (
	"complainthub/backend/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "5b0c1f3e-8d2a-4c47-9b1e-0a6f2d9c7e31"

func TestAuthenticator_RoundTrip(t *testing.T) {
	a := NewAuthenticator("secret", "complainthub")

	tok, err := a.GenerateToken(testUserID, models.RoleManager)
	require.NoError(t, err)

	actor, err := a.ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, models.Actor{ID: testUserID, Role: models.RoleManager}, actor)
}

func TestAuthenticator_Rejects(t *testing.T) {
	a := NewAuthenticator("secret", "complainthub")

	t.Run("expired", func(t *testing.T) {
		tok, err := a.GenerateToken(testUserID, models.RoleSubmitter)
		require.NoError(t, err)

		later := *a
		later.Now = func() time.Time { return time.Now().Add(a.TTL + time.Hour) }
		_, err = later.ParseToken(tok)
		assert.Error(t, err)
	})

	t.Run("unknown role", func(t *testing.T) {
		tok, err := a.GenerateToken(testUserID, models.Role("admin"))
		require.NoError(t, err)
		_, err = a.ParseToken(tok)
		assert.EqualError(t, err, "token carries an unknown role")
	})

	t.Run("subject is not a uuid", func(t *testing.T) {
		tok, err := a.GenerateToken("u1", models.RoleSubmitter)
		require.NoError(t, err)
		_, err = a.ParseToken(tok)
		assert.EqualError(t, err, "token subject is not a user id")
	})

	t.Run("empty subject", func(t *testing.T) {
		tok, err := a.GenerateToken("", models.RoleSubmitter)
		require.NoError(t, err)
		_, err = a.ParseToken(tok)
		assert.EqualError(t, err, "token has no subject")
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewAuthenticator("secret", "someone-else")
		tok, err := other.GenerateToken(testUserID, models.RoleSubmitter)
		require.NoError(t, err)
		_, err = a.ParseToken(tok)
		assert.Error(t, err)
	})
}

