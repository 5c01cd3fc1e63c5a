// Package logging configures the process-wide structured logger.
package logging

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Init configures logrus for JSON output and returns an entry carrying
// the service name. The LOG_LEVEL environment variable overrides the
// default info level.
func Init(service string) *logrus.Entry {
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "ts",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	logrus.SetLevel(logrus.InfoLevel)
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			logrus.SetLevel(lvl)
		}
	}

	return logrus.WithField("service", service)
}
