// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultLogger is the base logger all subsystems derive their scoped
// loggers from via WithField(logfields.LogSubsys, ...).
var DefaultLogger = initializeDefaultLogger()

func initializeDefaultLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
	logger.SetLevel(logrus.InfoLevel)
	return logger
}

// SetLogLevel updates the level of the default logger.
func SetLogLevel(level logrus.Level) {
	DefaultLogger.SetLevel(level)
}

// SetLogLevelToDebug sets the default logger to debug level.
func SetLogLevelToDebug() {
	DefaultLogger.SetLevel(logrus.DebugLevel)
}
