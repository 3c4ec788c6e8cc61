package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// LoginPageData represents data for login page
type LoginPageData struct {
	TemplateData
	Error string
}

// loginPage displays the login form
func (s *WebServer) loginPage(c *gin.Context) {
	// Check if user is already logged in
	if _, ok := s.getWebSession(c); ok {
		c.Redirect(http.StatusSeeOther, "/index")
		return
	}

	data := LoginPageData{
		TemplateData: s.getBaseTemplateData(c, "Login"),
	}
	s.renderTemplate(c, "login.html", data)
}

// loginSubmit processes login form submission. Lookup failures and
// password mismatches produce the same generic message so the response
// never reveals whether the username exists.
func (s *WebServer) loginSubmit(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	user, err := s.DB.GetUserByUsername(username)
	if err != nil {
		s.renderLoginError(c, "Invalid username or password")
		return
	}

	// Check password
	if !checkPassword(password, user.PasswordHash) {
		s.renderLoginError(c, "Invalid username or password")
		return
	}

	// Successful login - establish session
	if err := s.createWebSession(c, user); err != nil {
		s.renderLoginError(c, "Login error. Please try again.")
		return
	}

	c.Redirect(http.StatusSeeOther, "/index")
}

// logout destroys the current session unconditionally
func (s *WebServer) logout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookieName); err == nil {
		if err := s.Sessions.Destroy(token); err != nil {
			s.renderError(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
			return
		}
	}

	// Clear session cookie
	s.clearSessionCookie(c)

	c.Redirect(http.StatusSeeOther, "/login")
}

// renderLoginError renders login page with error
func (s *WebServer) renderLoginError(c *gin.Context, errorMsg string) {
	data := LoginPageData{
		TemplateData: s.getBaseTemplateData(c, "Login"),
		Error:        errorMsg,
	}

	tmpl := loadTemplate("login.html")
	c.Header("Content-Type", "text/html")
	c.Status(http.StatusBadRequest)
	if err := tmpl.ExecuteTemplate(c.Writer, "base.html", data); err != nil {
		s.renderError(c, http.StatusInternalServerError, "Template Error", err.Error())
	}
}
