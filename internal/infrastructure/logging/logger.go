package logging

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// StructuredLogger implementa la interfaz Logger sobre logrus
type StructuredLogger struct {
	config *LoggerConfig
	logger *logrus.Logger
	base   logrus.Fields
}

// NewStructuredLogger crea un nuevo logger estructurado
func NewStructuredLogger(config *LoggerConfig) (*StructuredLogger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}

	l := logrus.New()
	l.SetOutput(config.Output)
	l.SetLevel(toLogrusLevel(config.Level))

	switch config.Format {
	case FormatText:
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	default:
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: FieldTimestamp,
				logrus.FieldKeyMsg:  FieldMessage,
			},
		})
	}

	base := logrus.Fields{FieldService: config.Service}
	if config.Version != "" {
		base[FieldVersion] = config.Version
	}
	if config.Environment != "" {
		base["environment"] = config.Environment
	}

	return &StructuredLogger{
		config: config,
		logger: l,
		base:   base,
	}, nil
}

func toLogrusLevel(level LogLevel) logrus.Level {
	switch level {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// entry arma la entrada logrus con los campos base, del contexto y del llamador
func (sl *StructuredLogger) entry(ctx context.Context, fields Fields) *logrus.Entry {
	data := make(logrus.Fields, len(sl.base)+len(fields)+2)
	for k, v := range sl.base {
		data[k] = v
	}
	for k, v := range fields {
		data[k] = v
	}

	if ctx != nil {
		if requestID := GetRequestID(ctx); requestID != "" {
			data[FieldRequestID] = requestID
		}
		if remoteIP := GetRemoteIP(ctx); remoteIP != "" {
			if _, ok := data[FieldClientIP]; !ok {
				data[FieldClientIP] = remoteIP
			}
		}
		if startTime := GetStartTime(ctx); !startTime.IsZero() {
			if _, ok := data[FieldDuration]; !ok {
				data[FieldDuration] = float64(time.Since(startTime).Nanoseconds()) / 1e6
			}
		}
	}

	if sl.config.AddSource {
		if source := getSource(); source != "" {
			data["source"] = source
		}
	}

	return sl.logger.WithFields(data)
}

// getSource obtiene la función que llamó al logger
func getSource() string {
	// Skip: getSource, entry, log method, public method
	const skip = 4
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}

	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}

	name := fn.Name()
	if idx := strings.LastIndex(name, "/"); idx != -1 {
		name = name[idx+1:]
	}
	return name
}

// Debug logs a debug message
func (sl *StructuredLogger) Debug(ctx context.Context, message string, fields Fields) {
	sl.entry(ctx, fields).Debug(message)
}

// Info logs an info message
func (sl *StructuredLogger) Info(ctx context.Context, message string, fields Fields) {
	sl.entry(ctx, fields).Info(message)
}

// Warn logs a warning message
func (sl *StructuredLogger) Warn(ctx context.Context, message string, fields Fields) {
	sl.entry(ctx, fields).Warn(message)
}

// Error logs an error message
func (sl *StructuredLogger) Error(ctx context.Context, message string, fields Fields) {
	sl.entry(ctx, fields).Error(message)
}

// InfoWithError logs an info message with error details
func (sl *StructuredLogger) InfoWithError(ctx context.Context, message string, err error, fields Fields) {
	sl.entry(ctx, enrichWithError(fields, err)).Info(message)
}

// WarnWithError logs a warning message with error details
func (sl *StructuredLogger) WarnWithError(ctx context.Context, message string, err error, fields Fields) {
	sl.entry(ctx, enrichWithError(fields, err)).Warn(message)
}

// ErrorWithError logs an error message with error details
func (sl *StructuredLogger) ErrorWithError(ctx context.Context, message string, err error, fields Fields) {
	sl.entry(ctx, enrichWithError(fields, err)).Error(message)
}

// enrichWithError enriquece los campos con información del error
func enrichWithError(fields Fields, err error) Fields {
	if err == nil {
		return fields
	}

	out := make(Fields, len(fields)+2)
	for k, v := range fields {
		out[k] = v
	}
	out[FieldError] = err.Error()
	out[FieldErrorType] = getErrorType(err)
	return out
}

// SetLevel establece el nivel de logging
func (sl *StructuredLogger) SetLevel(level LogLevel) {
	sl.config.Level = level
	sl.logger.SetLevel(toLogrusLevel(level))
}

// GetLevel retorna el nivel actual de logging
func (sl *StructuredLogger) GetLevel() LogLevel {
	return sl.config.Level
}

// Logrus expone el logger subyacente para integraciones (p.ej. cron)
func (sl *StructuredLogger) Logrus() *logrus.Logger {
	return sl.logger
}
