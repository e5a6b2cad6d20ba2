package logger

import (
	"os"
	"strings"

	"github.com/gitrec/gitrec-companion/config"
	"github.com/sirupsen/logrus"
)

// Setup will configure the logrus standard logger from the LOGS section
func Setup(cfg config.Config) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if cfg.Logs.OutputLogsAsJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	logrus.SetLevel(StringToLogrusLogType(cfg.Logs.Level))
}

// StringToLogrusLogType will convert string to the right logrus level
// unknown values fall back to error so a typo never floods the output
func StringToLogrusLogType(logLevel string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(logLevel)) {
	case "error":
		return logrus.ErrorLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	case "trace":
		return logrus.TraceLevel
	default:
		return logrus.ErrorLevel
	}
}

// ForSession returns an entry tagged with the session the log line belongs to
func ForSession(sessionID string) *logrus.Entry {
	return logrus.WithField("session", sessionID)
}
