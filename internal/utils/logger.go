package utils

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// LogEvent prints standardized log line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string) {
	entry(requestID, module, action).Info(message)
}

// LogWarn is LogEvent at warning level, for failures that do not abort the operation.
func LogWarn(requestID, module, action, message string) {
	entry(requestID, module, action).Warn(message)
}

func entry(requestID, module, action string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"module":     strings.ToLower(module),
		"action":     action,
		"request_id": strings.TrimSpace(requestID),
	})
}

// SetupLogger configures the global logger for the given gin mode.
func SetupLogger(mode string) {
	if mode == "release" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		logrus.SetLevel(logrus.InfoLevel)
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetLevel(logrus.DebugLevel)
}
