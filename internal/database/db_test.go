package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/go-while/go-msgboard/internal/models"
)

// openTestDB opens a fresh database in a temp dir, seeded like a first
// startup.
func openTestDB(t *testing.T) *Database {
	t.Helper()
	dbconfig := DefaultDBConfig()
	dbconfig.DataDir = t.TempDir()
	db, err := OpenDatabase(dbconfig)
	require.NoError(t, err)
	t.Cleanup(func() { db.Shutdown() })
	return db
}

func TestSeedCreatesAdminAndDefaultForum(t *testing.T) {
	db := openTestDB(t)

	admin, err := db.GetUserByUsername(SeedAdminUsername)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(SeedAdminPassword)))

	forums, err := db.GetAllForums()
	require.NoError(t, err)
	require.Len(t, forums, 1)
	assert.Equal(t, SeedForumTitle, forums[0].Title)

	users, err := db.GetAllUsers()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	// Running the seed again must not duplicate rows
	require.NoError(t, db.Seed())
	require.NoError(t, db.Seed())

	users, err := db.GetAllUsers()
	require.NoError(t, err)
	assert.Len(t, users, 1)

	count, err := db.CountForums()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestInsertUserDuplicateUsername(t *testing.T) {
	db := openTestDB(t)

	alice := &models.User{Username: "alice", PasswordHash: "hash1", Role: models.RoleGuest}
	require.NoError(t, db.InsertUser(alice))
	assert.NotZero(t, alice.UserID)

	dup := &models.User{Username: "alice", PasswordHash: "hash2", Role: models.RoleGuest}
	err := db.InsertUser(dup)
	require.ErrorIs(t, err, ErrUsernameTaken)

	// The original row must be untouched
	stored, err := db.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, stored.UserID)
	assert.Equal(t, "hash1", stored.PasswordHash)
}

func TestGetUserByUsernameNotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := db.GetUserByUsername("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetForumByIDNotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := db.GetForumByID(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessagesOrderedByTimestamp(t *testing.T) {
	db := openTestDB(t)

	admin, err := db.GetUserByUsername(SeedAdminUsername)
	require.NoError(t, err)

	forums, err := db.GetAllForums()
	require.NoError(t, err)
	forumID := forums[0].ID

	// Insert out of chronological order
	stamps := []string{
		"2024-03-02T10:00:00.000000+00:00",
		"2024-03-01T09:00:00.000000+00:00",
		"2024-03-03T11:00:00.000000+00:00",
	}
	for i, ts := range stamps {
		msg := &models.Message{
			ForumID:   forumID,
			UserID:    admin.UserID,
			Body:      "message " + ts,
			Timestamp: ts,
		}
		require.NoError(t, db.InsertMessage(msg))
		assert.NotZero(t, msg.ID, "message %d should get an id", i)
	}

	messages, err := db.GetMessagesByForum(forumID)
	require.NoError(t, err)
	require.Len(t, messages, 3)

	for i := 1; i < len(messages); i++ {
		assert.LessOrEqual(t, messages[i-1].Timestamp, messages[i].Timestamp,
			"messages must be sorted non-decreasing by timestamp")
	}
	for _, m := range messages {
		assert.Equal(t, SeedAdminUsername, m.Username)
	}
}

func TestGetMessagesByForumEmpty(t *testing.T) {
	db := openTestDB(t)

	forums, err := db.GetAllForums()
	require.NoError(t, err)

	messages, err := db.GetMessagesByForum(forums[0].ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestDeleteUserByUsername(t *testing.T) {
	db := openTestDB(t)

	bob := &models.User{Username: "bob", PasswordHash: "h", Role: models.RoleGuest}
	require.NoError(t, db.InsertUser(bob))

	require.NoError(t, db.DeleteUserByUsername("bob"))
	_, err := db.GetUserByUsername("bob")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, db.DeleteUserByUsername("bob"), ErrNotFound)
}
