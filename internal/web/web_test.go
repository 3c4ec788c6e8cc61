package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-while/go-msgboard/internal/config"
	"github.com/go-while/go-msgboard/internal/database"
	"github.com/go-while/go-msgboard/internal/models"
	"github.com/go-while/go-msgboard/internal/session"
	"github.com/go-while/go-msgboard/internal/timeapi"
)

const testTimestamp = "2024-03-01T12:34:56.789012+00:00"

// newTestServer wires a WebServer against a fresh seeded database and a
// fake time service.
func newTestServer(t *testing.T, timeURL string) *WebServer {
	t.Helper()

	dbconfig := database.DefaultDBConfig()
	dbconfig.DataDir = t.TempDir()
	db, err := database.OpenDatabase(dbconfig)
	require.NoError(t, err)
	t.Cleanup(func() { db.Shutdown() })

	webconfig := &config.WebConfig{ListenPort: 3000}
	sessions := session.NewMemoryStore()
	clock := timeapi.NewClient(timeURL, 5*time.Second)

	return NewServer(db, webconfig, sessions, clock)
}

// fakeTimeServer returns an httptest server answering like the external
// clock service.
func fakeTimeServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"utc_datetime":"` + testTimestamp + `"}`))
	}))
	t.Cleanup(ts.Close)
	return ts
}

// loginAs creates a session for the given user and returns the cookie
// to attach to requests.
func loginAs(t *testing.T, s *WebServer, user *models.User) *http.Cookie {
	t.Helper()
	token, err := s.Sessions.Create(models.SessionUser{
		UserID:   user.UserID,
		Username: user.Username,
		Role:     user.Role,
	})
	require.NoError(t, err)
	return &http.Cookie{Name: sessionCookieName, Value: token}
}

func postForm(s *WebServer, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func get(s *WebServer, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func seededAdmin(t *testing.T, s *WebServer) *models.User {
	t.Helper()
	admin, err := s.DB.GetUserByUsername(database.SeedAdminUsername)
	require.NoError(t, err)
	return admin
}

func TestUnauthenticatedRequestsRedirectToLogin(t *testing.T) {
	s := newTestServer(t, fakeTimeServer(t).URL)

	for _, path := range []string{"/", "/index", "/forums/1", "/users"} {
		w := get(s, path)
		assert.Equal(t, http.StatusSeeOther, w.Code, "GET %s", path)
		assert.Equal(t, "/login", w.Header().Get("Location"), "GET %s", path)
	}
}

func TestRegisterPasswordMismatch(t *testing.T) {
	s := newTestServer(t, fakeTimeServer(t).URL)

	w := postForm(s, "/register", url.Values{
		"username":        {"alice"},
		"password":        {"pw"},
		"confirmPassword": {"other"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Passwords do not match.")

	// No row may be created
	_, err := s.DB.GetUserByUsername("alice")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t, fakeTimeServer(t).URL)

	w := postForm(s, "/register", url.Values{
		"username":        {"alice"},
		"password":        {"pw"},
		"confirmPassword": {"pw"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	alice, err := s.DB.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuest, alice.Role)
	assert.NotEqual(t, "pw", alice.PasswordHash, "password must not be stored in plaintext")

	w = postForm(s, "/login", url.Values{
		"username": {"alice"},
		"password": {"pw"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/index", w.Header().Get("Location"))

	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "login must set the session cookie")

	// The session holds exactly this user's identity
	stored, ok := s.Sessions.Get(sessionCookie.Value)
	require.True(t, ok)
	assert.Equal(t, "alice", stored.Username)
	assert.Equal(t, models.RoleGuest, stored.Role)
	assert.Equal(t, alice.UserID, stored.UserID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	s := newTestServer(t, fakeTimeServer(t).URL)

	form := url.Values{
		"username":        {"alice"},
		"password":        {"pw"},
		"confirmPassword": {"pw"},
	}
	w := postForm(s, "/register", form)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = postForm(s, "/register", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Username already exists.")

	users, err := s.DB.GetAllUsers()
	require.NoError(t, err)
	assert.Len(t, users, 2) // seeded admin + alice
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	s := newTestServer(t, fakeTimeServer(t).URL)

	wrongPassword := postForm(s, "/login", url.Values{
		"username": {database.SeedAdminUsername},
		"password": {"nope"},
	})
	unknownUser := postForm(s, "/login", url.Values{
		"username": {"ghost"},
		"password": {"nope"},
	})

	assert.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	assert.Equal(t, http.StatusBadRequest, unknownUser.Code)
	assert.Contains(t, wrongPassword.Body.String(), "Invalid username or password")
	assert.Contains(t, unknownUser.Body.String(), "Invalid username or password")

	for _, w := range []*httptest.ResponseRecorder{wrongPassword, unknownUser} {
		for _, c := range w.Result().Cookies() {
			assert.NotEqual(t, sessionCookieName, c.Name, "failed login must not establish a session")
		}
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	s := newTestServer(t, fakeTimeServer(t).URL)
	cookie := loginAs(t, s, seededAdmin(t, s))

	w := get(s, "/logout", cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	_, ok := s.Sessions.Get(cookie.Value)
	assert.False(t, ok)

	// The old cookie no longer grants access
	w = get(s, "/index", cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestIndexListsForums(t *testing.T) {
	s := newTestServer(t, fakeTimeServer(t).URL)
	cookie := loginAs(t, s, seededAdmin(t, s))

	w := get(s, "/index", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), database.SeedForumTitle)
	assert.Contains(t, w.Body.String(), database.SeedAdminUsername)
}

func TestForumPageNotFound(t *testing.T) {
	s := newTestServer(t, fakeTimeServer(t).URL)
	cookie := loginAs(t, s, seededAdmin(t, s))

	w := get(s, "/forums/9999", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Forum Not Found")
}

func TestPostMessageAndReadBack(t *testing.T) {
	s := newTestServer(t, fakeTimeServer(t).URL)
	admin := seededAdmin(t, s)
	cookie := loginAs(t, s, admin)

	forums, err := s.DB.GetAllForums()
	require.NoError(t, err)
	forumID := forums[0].ID

	w := postForm(s, "/forums/1/post", url.Values{"message": {"hello world"}}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/forums/1", w.Header().Get("Location"))

	messages, err := s.DB.GetMessagesByForum(forumID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hello world", messages[0].Body)
	assert.Equal(t, testTimestamp, messages[0].Timestamp)
	assert.Equal(t, admin.UserID, messages[0].UserID)

	w = get(s, "/forums/1", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hello world")
}

func TestPostMessageTimeServiceFailure(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(failing.Close)

	s := newTestServer(t, failing.URL)
	cookie := loginAs(t, s, seededAdmin(t, s))

	w := postForm(s, "/forums/1/post", url.Values{"message": {"doomed"}}, cookie)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// The operation must leave no partial write behind
	forums, err := s.DB.GetAllForums()
	require.NoError(t, err)
	messages, err := s.DB.GetMessagesByForum(forums[0].ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestPostMessageRequiresConcreteIdentity(t *testing.T) {
	s := newTestServer(t, fakeTimeServer(t).URL)

	// A session without a userid must not be able to post
	token, err := s.Sessions.Create(models.SessionUser{Username: "phantom", Role: models.RoleGuest})
	require.NoError(t, err)
	cookie := &http.Cookie{Name: sessionCookieName, Value: token}

	w := postForm(s, "/forums/1/post", url.Values{"message": {"nope"}}, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUsersListingAdminOnly(t *testing.T) {
	s := newTestServer(t, fakeTimeServer(t).URL)
	admin := seededAdmin(t, s)

	guest := &models.User{Username: "bob", PasswordHash: "h", Role: models.RoleGuest}
	require.NoError(t, s.DB.InsertUser(guest))

	// Guest gets a structured JSON error, never the listing
	w := get(s, "/users", loginAs(t, s, guest))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), "Permission denied. Admin privileges required.")
	assert.NotContains(t, w.Body.String(), "bob")

	// Admin sees every user
	w = get(s, "/users", loginAs(t, s, admin))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), database.SeedAdminUsername)
	assert.Contains(t, w.Body.String(), "bob")
}
