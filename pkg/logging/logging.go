// Package logging configures the process logger. Services receive a
// *logrus.Entry from here; nothing in the module touches a package-level
// logger.
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds a logger writing text to stderr at the given level. Unknown
// levels fall back to info.
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// ForComponent tags a logger entry with the owning component name.
func ForComponent(log *logrus.Logger, component string) *logrus.Entry {
	return log.WithField("component", component)
}
