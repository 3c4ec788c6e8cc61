package web

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/go-while/go-msgboard/internal/database"
	"github.com/go-while/go-msgboard/internal/models"
)

// RegisterPageData represents data for register page
type RegisterPageData struct {
	TemplateData
	Error    string
	Username string
}

// registerPage displays the registration form
func (s *WebServer) registerPage(c *gin.Context) {
	// Check if user is already logged in
	if _, ok := s.getWebSession(c); ok {
		c.Redirect(http.StatusSeeOther, "/index")
		return
	}

	data := RegisterPageData{
		TemplateData: s.getBaseTemplateData(c, "Register"),
	}
	s.renderTemplate(c, "register.html", data)
}

// registerSubmit processes registration form submission
func (s *WebServer) registerSubmit(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirmPassword")

	// Validate passwords match
	if password != confirmPassword {
		s.renderRegisterError(c, "Passwords do not match.", username)
		return
	}

	// Hash password
	passwordHash, err := hashPassword(password)
	if err != nil {
		s.renderRegisterError(c, "Registration failed. Please try again.", username)
		return
	}

	// Create user with the guest role; the store reports a duplicate
	// username as a typed error.
	user := &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         models.RoleGuest,
	}
	if err := s.DB.InsertUser(user); err != nil {
		if errors.Is(err, database.ErrUsernameTaken) {
			s.renderRegisterError(c, "Username already exists. Please choose a different one.", username)
			return
		}
		log.Printf("[ERROR] Failed to create user %s: %v", username, err)
		s.renderRegisterError(c, "Registration failed. Please try again.", username)
		return
	}

	// Redirect to the login page after successful registration
	c.Redirect(http.StatusSeeOther, "/login")
}

// renderRegisterError renders register page with error
func (s *WebServer) renderRegisterError(c *gin.Context, errorMsg, username string) {
	data := RegisterPageData{
		TemplateData: s.getBaseTemplateData(c, "Register"),
		Error:        errorMsg,
		Username:     username,
	}

	tmpl := loadTemplate("register.html")
	c.Header("Content-Type", "text/html")
	c.Status(http.StatusBadRequest)
	if err := tmpl.ExecuteTemplate(c.Writer, "base.html", data); err != nil {
		s.renderError(c, http.StatusInternalServerError, "Template Error", err.Error())
	}
}
