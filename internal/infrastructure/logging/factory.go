package logging

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// LoggerFactory facilita la creación de diferentes tipos de loggers
type LoggerFactory struct {
	baseLogger Logger
}

// NewLoggerFactory crea una nueva factory de loggers
func NewLoggerFactory(config *LoggerConfig) (*LoggerFactory, error) {
	if config == nil {
		config = DefaultConfig()
	}

	baseLogger, err := NewStructuredLogger(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create base logger: %w", err)
	}

	return &LoggerFactory{
		baseLogger: baseLogger,
	}, nil
}

// GetHTTPLogger retorna un logger especializado para HTTP
func (f *LoggerFactory) GetHTTPLogger() HTTPLogger {
	return NewHTTPLogger(f.baseLogger)
}

// GetExternalAPILogger retorna un logger especializado para APIs externas
func (f *LoggerFactory) GetExternalAPILogger() ExternalAPILogger {
	return NewExternalAPILogger(f.baseLogger)
}

// GetCacheLogger retorna un logger especializado para cache
func (f *LoggerFactory) GetCacheLogger() CacheLogger {
	return NewCacheLogger(f.baseLogger)
}

// GetBusinessLogger retorna un logger especializado para lógica de negocio
func (f *LoggerFactory) GetBusinessLogger() BusinessLogger {
	return NewBusinessLogger(f.baseLogger)
}

// GetSecurityLogger retorna un logger especializado para seguridad
func (f *LoggerFactory) GetSecurityLogger() SecurityLogger {
	return NewSecurityLogger(f.baseLogger)
}

// LoggerSet contiene todos los loggers especializados
type LoggerSet struct {
	Base        Logger
	HTTP        HTTPLogger
	ExternalAPI ExternalAPILogger
	Cache       CacheLogger
	Business    BusinessLogger
	Security    SecurityLogger
}

// GetLoggerSet retorna un set completo de loggers especializados
func (f *LoggerFactory) GetLoggerSet() *LoggerSet {
	return &LoggerSet{
		Base:        f.baseLogger,
		HTTP:        f.GetHTTPLogger(),
		ExternalAPI: f.GetExternalAPILogger(),
		Cache:       f.GetCacheLogger(),
		Business:    f.GetBusinessLogger(),
		Security:    f.GetSecurityLogger(),
	}
}

// globalLoggers lo inicializa InitializeGlobalLoggers al arrancar
var globalLoggers *LoggerSet

// InitializeGlobalLoggers inicializa los loggers globales
func InitializeGlobalLoggers(config *LoggerConfig) error {
	factory, err := NewLoggerFactory(config)
	if err != nil {
		return fmt.Errorf("failed to initialize global loggers: %w", err)
	}

	globalLoggers = factory.GetLoggerSet()
	return nil
}

// InitializeGlobalLoggersWithDefaults inicializa los loggers globales con configuración por defecto
func InitializeGlobalLoggersWithDefaults(service, version, environment string, level LogLevel) error {
	config := NewConfig(service, version, environment).WithLevel(level)
	return InitializeGlobalLoggers(config)
}

// GetGlobalLogger retorna el logger base global
func GetGlobalLogger() Logger {
	if globalLoggers == nil {
		// Fallback en caso de que no se hayan inicializado los loggers globales
		_ = InitializeGlobalLoggersWithDefaults("unknown-service", "1.0.0", "development", LevelInfo)
	}
	return globalLoggers.Base
}

// GetGlobalLoggers retorna todos los loggers globales
func GetGlobalLoggers() *LoggerSet {
	if globalLoggers == nil {
		// Fallback en caso de que no se hayan inicializado los loggers globales
		_ = InitializeGlobalLoggersWithDefaults("unknown-service", "1.0.0", "development", LevelInfo)
	}
	return globalLoggers
}

// GlobalLogrus devuelve el logger logrus global, para librerías que lo aceptan
func GlobalLogrus() *logrus.Logger {
	if sl, ok := GetGlobalLogger().(*StructuredLogger); ok {
		return sl.Logrus()
	}
	return logrus.StandardLogger()
}
