package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/go-while/go-msgboard/internal/models"
)

// sessionCookieName keys the client-held session token.
const sessionCookieName = "session_id"

// AuthRequired is the authentication gate applied to every protected
// route: resolve the session cookie, rebuild the SessionUser with its
// derived admin flag, or redirect to the login page.
func (s *WebServer) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := s.getWebSession(c)
		if !ok {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		// Store user in context for handlers
		c.Set("user", user)
		c.Next()
	}
}

// getWebSession resolves the session cookie against the session store.
// The returned value is rebuilt per request; the admin flag is derived
// from the stored role, never carried over from a previous request.
func (s *WebServer) getWebSession(c *gin.Context) (*models.SessionUser, bool) {
	token, err := c.Cookie(sessionCookieName)
	if err != nil {
		return nil, false
	}

	stored, ok := s.Sessions.Get(token)
	if !ok {
		return nil, false
	}

	user := models.SessionUser{
		UserID:   stored.UserID,
		Username: stored.Username,
		Role:     stored.Role,
		IsAdmin:  stored.Role == models.RoleAdmin,
	}
	return &user, true
}

// currentUser returns the SessionUser placed in the context by
// AuthRequired.
func currentUser(c *gin.Context) *models.SessionUser {
	if v, exists := c.Get("user"); exists {
		if user, ok := v.(*models.SessionUser); ok {
			return user
		}
	}
	return nil
}

// createWebSession stores the user in the session store and sets the
// session cookie.
func (s *WebServer) createWebSession(c *gin.Context, user *models.User) error {
	token, err := s.Sessions.Create(models.SessionUser{
		UserID:   user.UserID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return err
	}

	s.setSessionCookie(c, token)
	return nil
}

// hashPassword creates a bcrypt hash of the password
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// checkPassword checks if password matches hash
func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// setSessionCookie sets the session cookie on the response.
func (s *WebServer) setSessionCookie(c *gin.Context, token string) {
	// Detect HTTPS from the current request perspective only
	isHTTPS := c.Request != nil && (c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https"))

	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isHTTPS,
		SameSite: http.SameSiteLaxMode, // Works well with reverse proxies
	}

	http.SetCookie(c.Writer, cookie)
}

// clearSessionCookie removes the session cookie from the client.
func (s *WebServer) clearSessionCookie(c *gin.Context) {
	isHTTPS := c.Request != nil && (c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https"))

	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isHTTPS,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1, // Delete cookie
	}

	http.SetCookie(c.Writer, cookie)
}
