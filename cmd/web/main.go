// Web server for go-msgboard
package main

import (
	"flag"
	"log"

	"github.com/go-while/go-msgboard/internal/config"
	"github.com/go-while/go-msgboard/internal/database"
	"github.com/go-while/go-msgboard/internal/session"
	"github.com/go-while/go-msgboard/internal/timeapi"
	"github.com/go-while/go-msgboard/internal/web"
)

var (
	// command-line flags
	webport     int
	webssl      bool
	webcertFile string
	webkeyFile  string
	datadir     string
	timeapiURL  string
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion

	flag.IntVar(&webport, "webport", 0, "Web server port (default: $PORT or 3000)")
	flag.BoolVar(&webssl, "webssl", false, "Enable SSL")
	flag.StringVar(&webcertFile, "websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
	flag.StringVar(&webkeyFile, "websslkey", "", "SSL key file (/path/to/privkey.pem)")
	flag.StringVar(&datadir, "datadir", "./data", "Directory for the sqlite database file")
	flag.StringVar(&timeapiURL, "timeapi", "", "Override URL of the external time service")
	flag.Parse()

	log.Printf("go-msgboard web server (version: %s)", config.AppVersion)

	mainConfig := config.NewDefaultConfig()
	if webport > 0 {
		mainConfig.Web.ListenPort = webport
	}
	mainConfig.Web.SSL = webssl
	mainConfig.Web.CertFile = webcertFile
	mainConfig.Web.KeyFile = webkeyFile
	if datadir != "" {
		mainConfig.Database.DataDir = datadir
	}
	if timeapiURL != "" {
		mainConfig.TimeAPI.URL = timeapiURL
	}

	dbconfig := database.DefaultDBConfig()
	dbconfig.DataDir = mainConfig.Database.DataDir
	db, err := database.OpenDatabase(dbconfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Shutdown()

	sessions := session.NewMemoryStore()
	clock := timeapi.NewClient(mainConfig.TimeAPI.URL, mainConfig.TimeAPI.Timeout)

	server := web.NewServer(db, &mainConfig.Web, sessions, clock)
	log.Printf("http://localhost:%d/index", server.GetPort())
	if err := server.Start(); err != nil {
		log.Fatalf("Web server failed: %v", err)
	}
}
