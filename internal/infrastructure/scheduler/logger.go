package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// cronLogger adapta logrus a la interfaz cron.Logger
type cronLogger struct {
	entry *logrus.Entry
}

var _ cron.Logger = (*cronLogger)(nil)

// NewCronLogger wraps a logrus logger for cron's internal events
func NewCronLogger(logger *logrus.Logger) cron.Logger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &cronLogger{entry: logger.WithField("domain", "scheduler")}
}

// Info se emite en debug: cron reporta cada wake/run y sería ruido en info
func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).Debug(msg)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).WithError(err).Error(msg)
}

func toFields(keysAndValues []interface{}) logrus.Fields {
	fields := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
