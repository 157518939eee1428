package logging

import (
	"github.com/sirupsen/logrus"
)

// Setup configures the global logrus logger for CLI use.
// Verbose enables debug output; jsonOutput switches to the JSON
// formatter so log lines stay machine-readable alongside --json data.
func Setup(verbose, jsonOutput bool) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if jsonOutput {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	level := logrus.WarnLevel
	if verbose {
		level = logrus.DebugLevel
	}

	logrus.SetLevel(level)
}
