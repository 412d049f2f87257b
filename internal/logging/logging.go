// Package logging centralizes structured logging for the pipeline and CLI
// driver on top of logrus.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logrus logger with the text formatter and full timestamps,
// a plain, readable default for local/CLI output (JSON formatting is left
// to callers that need it, via SetFormatter on the returned logger).
func New(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
