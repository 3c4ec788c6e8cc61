package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// usersPage lists every user for admins. Unlike the other protected
// pages this endpoint answers authorization failures with a structured
// JSON payload rather than a rendered page.
func (s *WebServer) usersPage(c *gin.Context) {
	user := currentUser(c)
	if user == nil || !user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied. Admin privileges required."})
		return
	}

	users, err := s.DB.GetAllUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	data := UsersPageData{
		TemplateData: s.getBaseTemplateData(c, "Users"),
		UserEntries:  users,
	}
	s.renderTemplate(c, "users.html", data)
}
