// Package logging hands out component-tagged logrus entries so every
// subsystem logs with the same formatter and a "component" field;
// callers add further structured fields (such as job_id) per message.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

var base = newBaseLogger()

func newBaseLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// SetLevel adjusts the package-wide log level, e.g. from config.
func SetLevel(level logrus.Level) {
	base.SetLevel(level)
}

// For returns a component-tagged entry, e.g. logging.For("Scheduler").
func For(component string) *logrus.Entry {
	return base.WithField("component", component)
}
