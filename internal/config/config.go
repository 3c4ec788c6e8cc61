// Package config provides configuration management for go-msgboard.
package config

import (
	"os"
	"strconv"
	"time"
)

var AppVersion = "-unset-" // will be set at build time

const (
	// DefaultListenPort is used when neither $PORT nor -webport is set.
	DefaultListenPort = 3000

	// DefaultTimeAPIURL is the external clock service queried when
	// posting messages. The response body must carry a utc_datetime
	// field.
	DefaultTimeAPIURL = "https://worldtimeapi.org/api/timezone/America/Toronto"

	// DefaultTimeAPITimeout bounds the outbound time-service call so an
	// unresponsive upstream cannot stall a posting request forever.
	DefaultTimeAPITimeout = 10 * time.Second
)

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenPort int    `json:"listen_port"`
	SSL        bool   `json:"ssl"`
	CertFile   string `json:"cert_file,omitempty"`
	KeyFile    string `json:"key_file,omitempty"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	DataDir string `json:"data_dir"` // Directory holding the sqlite file
}

// TimeAPIConfig holds external time service configuration
type TimeAPIConfig struct {
	URL     string        `json:"url"`
	Timeout time.Duration `json:"timeout"`
}

// MainConfig holds the main configuration for go-msgboard
type MainConfig struct {
	Web      WebConfig      `json:"web"`
	Database DatabaseConfig `json:"database"`
	TimeAPI  TimeAPIConfig  `json:"time_api"`

	AppVersion string `json:"app_version"` // set at build time
}

// NewDefaultConfig returns a configuration with sensible defaults.
// The listen port honors $PORT when set.
func NewDefaultConfig() *MainConfig {
	return &MainConfig{
		AppVersion: AppVersion,
		Web: WebConfig{
			ListenPort: portFromEnv(),
		},
		Database: DatabaseConfig{
			DataDir: "./data",
		},
		TimeAPI: TimeAPIConfig{
			URL:     DefaultTimeAPIURL,
			Timeout: DefaultTimeAPITimeout,
		},
	}
}

// portFromEnv reads $PORT, falling back to DefaultListenPort.
func portFromEnv() int {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			return port
		}
	}
	return DefaultListenPort
}
