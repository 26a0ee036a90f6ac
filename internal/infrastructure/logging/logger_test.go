package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"crypto-quote-service/internal/domain/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T, level LogLevel) (*StructuredLogger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger, err := NewStructuredLogger(NewConfig("test-service", "test", "testing").WithLevel(level).WithOutput(buf))
	require.NoError(t, err)
	return logger, buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &out))
	return out
}

func TestStructuredLogger_JSONIncludesContextAndFields(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelInfo)
	ctx := WithRequestID(context.Background(), "req-123")

	logger.Info(ctx, "quote served", Fields{FieldSymbol: "BTC"})

	entry := decodeLine(t, buf)
	assert.Equal(t, "quote served", entry[FieldMessage])
	assert.Equal(t, "req-123", entry[FieldRequestID])
	assert.Equal(t, "BTC", entry[FieldSymbol])
	assert.Equal(t, "test-service", entry[FieldService])
	assert.Equal(t, "info", entry["level"])
}

func TestStructuredLogger_ClientIPFromContext(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelInfo)
	ctx := WithRemoteIP(WithRequestID(context.Background(), "req-ip"), "203.0.113.7")

	logger.Warn(ctx, "quota exceeded", nil)
	assert.Equal(t, "203.0.113.7", decodeLine(t, buf)[FieldClientIP])

	logger.Warn(ctx, "explicit", Fields{FieldClientIP: "198.51.100.1"})
	assert.Equal(t, "198.51.100.1", decodeLine(t, buf)[FieldClientIP])
}

func TestStructuredLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelWarn)

	logger.Info(context.Background(), "hidden", nil)
	assert.Empty(t, buf.String())

	logger.SetLevel(LevelDebug)
	logger.Debug(context.Background(), "visible", nil)
	assert.Contains(t, buf.String(), "visible")
	assert.Equal(t, LevelDebug, logger.GetLevel())
}

func TestStructuredLogger_ErrorTypeUsesAppErrorCode(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelInfo)

	logger.ErrorWithError(context.Background(), "failed", apperror.QuotaExceeded(10), nil)
	entry := decodeLine(t, buf)
	assert.Equal(t, string(apperror.CodeQuotaExceeded), entry[FieldErrorType])

	logger.WarnWithError(context.Background(), "plain", errors.New("boom"), Fields{"k": "v"})
	entry = decodeLine(t, buf)
	assert.Equal(t, "*errors.errorString", entry[FieldErrorType])
	assert.Equal(t, "boom", entry[FieldError])
}

func TestSecurityLogger_MasksAPIKey(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelDebug)
	security := NewSecurityLogger(logger)

	security.AuthenticationFailed(context.Background(), "ck_supersecretvalue", "unknown key")

	out := buf.String()
	assert.NotContains(t, out, "supersecretvalue")
	assert.Contains(t, out, "ck_supe***")
	assert.Contains(t, out, `"domain":"security"`)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "", MaskAPIKey(""))
	assert.Equal(t, "key_***", MaskAPIKey("abc"))
	assert.Equal(t, "ck_abcd***", MaskAPIKey("ck_abcdef"))
}

func TestLogLevelFromString(t *testing.T) {
	assert.Equal(t, LevelDebug, LogLevelFromString("debug"))
	assert.Equal(t, LevelWarn, LogLevelFromString("WARNING"))
	assert.Equal(t, LevelError, LogLevelFromString(" error "))
	assert.Equal(t, LevelInfo, LogLevelFromString("verbose"))
	assert.Equal(t, FormatText, LogFormatFromString("TEXT"))
	assert.Equal(t, FormatJSON, LogFormatFromString("yaml"))
}

func TestGenerateRequestID_Unique(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)

	prefixed := NewRequestIDGenerator("refresh").Generate()
	assert.True(t, strings.HasPrefix(prefixed, "refresh_"))
}

func TestLoggerConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Level = "TRACE"
	var cfgErr *ConfigError
	assert.ErrorAs(t, cfg.Validate(), &cfgErr)
	assert.Equal(t, "level", cfgErr.Field)
}
