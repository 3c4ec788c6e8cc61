package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/go-while/go-msgboard/internal/database"
	"github.com/go-while/go-msgboard/internal/models"
)

// indexPage lists all forums for the logged-in user
func (s *WebServer) indexPage(c *gin.Context) {
	forums, err := s.DB.GetAllForums()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}

	data := IndexPageData{
		TemplateData: s.getBaseTemplateData(c, "Messaging Board"),
		Forums:       forums,
	}
	s.renderTemplate(c, "index.html", data)
}

// forumPage shows a forum with its messages, oldest first
func (s *WebServer) forumPage(c *gin.Context) {
	forumID, err := strconv.ParseInt(c.Param("forumId"), 10, 64)
	if err != nil {
		s.renderError(c, http.StatusNotFound, "Forum Not Found", "invalid forum id: "+c.Param("forumId"))
		return
	}

	forum, err := s.DB.GetForumByID(forumID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.renderError(c, http.StatusNotFound, "Forum Not Found", "Forum not found.")
			return
		}
		s.renderError(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}

	messages, err := s.DB.GetMessagesByForum(forumID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}

	data := ForumPageData{
		TemplateData: s.getBaseTemplateData(c, "Forum"),
		Forum:        forum,
		Messages:     messages,
	}
	s.renderTemplate(c, "forum.html", data)
}

// postMessage creates a message in a forum, stamped with the timestamp
// from the external time service. A failed time call aborts the whole
// operation: no fallback timestamp, no retry, no row written.
func (s *WebServer) postMessage(c *gin.Context) {
	forumID, err := strconv.ParseInt(c.Param("forumId"), 10, 64)
	if err != nil {
		s.renderError(c, http.StatusNotFound, "Forum Not Found", "invalid forum id: "+c.Param("forumId"))
		return
	}

	// The session must carry a concrete user identity; a partial
	// session cannot post.
	user := currentUser(c)
	if user == nil || user.UserID == 0 {
		c.String(http.StatusUnauthorized, "Unauthorized")
		return
	}

	body := c.PostForm("message")

	timestamp, err := s.Clock.UTCDatetime(c.Request.Context())
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Error fetching timestamp from time service", err.Error())
		return
	}

	msg := &models.Message{
		ForumID:   forumID,
		UserID:    user.UserID,
		Body:      body,
		Timestamp: timestamp,
	}
	if err := s.DB.InsertMessage(msg); err != nil {
		s.renderError(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}

	// Redirect back to the forum page after posting the message
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/forums/%d", forumID))
}
