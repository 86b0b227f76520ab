// Package logging builds the process logger the command-line tools share.
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewFromEnv creates a logger configured from the environment: LOG_LEVEL
// selects the level (default info) and LOG_FORMAT=json switches to JSON
// output for log collection.
func NewFromEnv() *logrus.Logger {
	log := logrus.New()

	levelName, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		levelName = "info"
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	log.SetOutput(os.Stderr)
	return log
}
