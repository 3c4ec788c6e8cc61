// Package web provides the HTTP server and web interface for go-msgboard
package web

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"

	"github.com/go-while/go-msgboard/internal/config"
	"github.com/go-while/go-msgboard/internal/database"
	"github.com/go-while/go-msgboard/internal/models"
	"github.com/go-while/go-msgboard/internal/session"
	"github.com/go-while/go-msgboard/internal/timeapi"
)

// WebServer represents the web server
type WebServer struct {
	DB        *database.Database
	Router    *gin.Engine
	Config    *config.WebConfig
	Sessions  session.Store
	Clock     *timeapi.Client
	StartTime time.Time // Track server start time for uptime calculations
}

// TemplateData represents common template data
type TemplateData struct {
	Title       string
	CurrentTime string
	AppVersion  string
	User        *models.SessionUser
}

// IndexPageData represents data for the forum index page
type IndexPageData struct {
	TemplateData
	Forums []*models.Forum
}

// ForumPageData represents data for the forum detail page
type ForumPageData struct {
	TemplateData
	Forum    *models.Forum
	Messages []*models.ForumMessage
}

// UsersPageData represents data for the admin user listing page
type UsersPageData struct {
	TemplateData
	UserEntries []*models.User
}

// NewServer creates a new web server instance
func NewServer(db *database.Database, webconfig *config.WebConfig, sessions session.Store, clock *timeapi.Client) *WebServer {
	// Set Gin to release mode for production
	gin.SetMode(gin.ReleaseMode)

	router := gin.Default()

	// Configure Gin to trust reverse proxy headers
	router.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})

	// Configure security headers based on SSL setup
	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}

	// Only add SSL-specific headers if SSL is enabled on the application
	// itself (not when running behind a reverse proxy with SSL)
	if webconfig.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}

	// Apply security middleware
	router.Use(secure.New(secureConfig))

	server := &WebServer{
		DB:       db,
		Router:   router,
		Config:   webconfig,
		Sessions: sessions,
		Clock:    clock,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (s *WebServer) setupRoutes() {
	// Authentication routes (public)
	s.Router.GET("/login", s.loginPage)
	s.Router.POST("/login", s.loginSubmit)
	s.Router.GET("/register", s.registerPage)
	s.Router.POST("/register", s.registerSubmit)
	s.Router.GET("/logout", s.logout)

	// Everything else sits behind the authentication gate
	protected := s.Router.Group("/")
	protected.Use(s.AuthRequired())
	{
		protected.GET("/", s.indexPage)
		protected.GET("/index", s.indexPage)
		protected.GET("/forums/:forumId", s.forumPage)
		protected.POST("/forums/:forumId/post", s.postMessage)
		protected.GET("/users", s.usersPage)
	}
}

// Start starts the web server with SSL support if configured
func (s *WebServer) Start() error {
	addr := ":" + strconv.Itoa(s.Config.ListenPort)
	s.StartTime = time.Now() // Set the start time for uptime calculations
	if s.Config.SSL {
		if s.Config.CertFile == "" || s.Config.KeyFile == "" {
			return errors.New("SSL enabled but cert_file or key_file not specified in config")
		}
		log.Printf("Starting HTTPS server on %s", addr)
		return s.Router.RunTLS(addr, s.Config.CertFile, s.Config.KeyFile)
	} else {
		log.Printf("Starting HTTP server on %s", addr)
		return s.Router.Run(addr)
	}
}
