package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/campussync/campussync/internal/app"
	"github.com/campussync/campussync/pkg/feed"
)

func main() {
	configureLogging()
	log.Infof("CampusSync %s starting", feed.Version)

	application, err := app.NewApplication()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
}

// configureLogging reads CAMPUSSYNC_LOG_LEVEL before the config layer is
// up, so failures during initialization are logged at the requested level.
func configureLogging() {
	level := os.Getenv("CAMPUSSYNC_LOG_LEVEL")
	if level == "" {
		log.SetLevel(log.InfoLevel)
		return
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.Fatalf("invalid CAMPUSSYNC_LOG_LEVEL %q: %v", level, err)
	}
	log.SetLevel(parsed)
}
