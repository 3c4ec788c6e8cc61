package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-while/go-msgboard/internal/models"
)

func TestCreateAndGet(t *testing.T) {
	store := NewMemoryStore()

	token, err := store.Create(models.SessionUser{
		UserID:   7,
		Username: "alice",
		Role:     models.RoleGuest,
	})
	require.NoError(t, err)
	assert.Len(t, token, TokenLength)

	user, ok := store.Get(token)
	require.True(t, ok)
	assert.Equal(t, int64(7), user.UserID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleGuest, user.Role)
}

func TestGetUnknownToken(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Get("deadbeef")
	assert.False(t, ok)

	_, ok = store.Get("")
	assert.False(t, ok)
}

func TestDestroy(t *testing.T) {
	store := NewMemoryStore()

	token, err := store.Create(models.SessionUser{UserID: 1, Username: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)

	require.NoError(t, store.Destroy(token))
	_, ok := store.Get(token)
	assert.False(t, ok)

	// Destroying an unknown token is not an error
	assert.NoError(t, store.Destroy(token))
	assert.Zero(t, store.Len())
}

func TestTokensAreUnique(t *testing.T) {
	store := NewMemoryStore()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := store.Create(models.SessionUser{UserID: int64(i)})
		require.NoError(t, err)
		assert.False(t, seen[token], "token collision")
		seen[token] = true
	}
	assert.Equal(t, 100, store.Len())
}
