package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"crypto-quote-service/internal/domain/apperror"
	"crypto-quote-service/internal/domain/entities"
	"crypto-quote-service/internal/domain/interfaces"
	"crypto-quote-service/internal/infrastructure/logging"
	"crypto-quote-service/internal/infrastructure/metrics"
	"crypto-quote-service/pkg/utils"
)

const (
	DefaultQuotaLimit      = 100
	DefaultQuotaWindow     = time.Minute
	DefaultQuotaCounterTTL = time.Hour

	// Mismo mensaje para clave ausente, desconocida o deshabilitada
	invalidAPIKeyMessage = "Invalid API key"
)

// QuotaConfig configures the fixed window quota
type QuotaConfig struct {
	Limit      int64
	Window     time.Duration
	CounterTTL time.Duration
}

// AuthRateLimiter valida credenciales y aplica la cuota de ventana fija por credencial
type AuthRateLimiter struct {
	credentials interfaces.CredentialRepository
	quotas      interfaces.QuotaRepository
	config      QuotaConfig
	security    logging.SecurityLogger
	now         func() time.Time
}

var _ interfaces.Authenticator = (*AuthRateLimiter)(nil)

// NewAuthRateLimiter creates the limiter; zero config values fall back to defaults
func NewAuthRateLimiter(credentials interfaces.CredentialRepository, quotas interfaces.QuotaRepository, config QuotaConfig) *AuthRateLimiter {
	if config.Limit <= 0 {
		config.Limit = DefaultQuotaLimit
	}
	if config.Window <= 0 {
		config.Window = DefaultQuotaWindow
	}
	if config.CounterTTL <= 0 {
		config.CounterTTL = DefaultQuotaCounterTTL
	}
	return &AuthRateLimiter{
		credentials: credentials,
		quotas:      quotas,
		config:      config,
		security:    logging.Security(),
		now:         time.Now,
	}
}

// WithClock replaces the clock, used by tests
func (a *AuthRateLimiter) WithClock(now func() time.Time) *AuthRateLimiter {
	a.now = now
	return a
}

// ValidateCredential resolves an API key to an enabled credential
func (a *AuthRateLimiter) ValidateCredential(ctx context.Context, apiKey string) (*entities.Credential, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, a.reject(ctx, apiKey, "missing")
	}

	credential, err := a.credentials.Get(ctx, apiKey)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, a.reject(ctx, apiKey, "unknown")
	}
	if err != nil {
		logging.ErrorWithError(ctx, "Credential lookup failed", err, logging.Fields{
			logging.FieldAPIKey: logging.MaskAPIKey(apiKey),
		})
		return nil, apperror.From(err)
	}
	if !credential.Enabled {
		return nil, a.reject(ctx, apiKey, "disabled")
	}
	return credential, nil
}

func (a *AuthRateLimiter) reject(ctx context.Context, apiKey, reason string) error {
	metrics.RecordAuthFailure()
	a.security.AuthenticationFailed(ctx, apiKey, reason)
	return apperror.Unauthenticated(invalidAPIKeyMessage)
}

// CheckAndConsumeQuota increments the counter of the current bucket and rejects
// once the post-increment count exceeds the limit.
func (a *AuthRateLimiter) CheckAndConsumeQuota(ctx context.Context, keyID string) (*entities.QuotaDecision, error) {
	now := a.now().UTC()
	window := a.config.Window
	bucket := utils.GetWindowKey(now, window)
	expiresAt := utils.TruncateToWindow(now, window).Add(a.config.CounterTTL)
	windowEnd := utils.WindowEnd(now, window)

	count, err := a.quotas.Increment(ctx, keyID, bucket, expiresAt)
	if err != nil {
		logging.ErrorWithError(ctx, "Quota counter increment failed", err, logging.Fields{
			logging.FieldAPIKey: logging.MaskAPIKey(keyID),
			"bucket":            bucket,
		})
		return nil, apperror.From(err)
	}

	decision := &entities.QuotaDecision{
		Allowed: count <= a.config.Limit,
		Count:   count,
		Limit:   a.config.Limit,
		ResetAt: windowEnd,
	}
	if remaining := a.config.Limit - count; remaining > 0 {
		decision.Remaining = remaining
	}
	metrics.RecordQuotaDecision(decision.Allowed)

	if !decision.Allowed {
		decision.RetryAfterSeconds = utils.SecondsUntil(now, windowEnd)
		a.security.QuotaExceeded(ctx, keyID, count, a.config.Limit, decision.RetryAfterSeconds)
		return decision, apperror.QuotaExceeded(decision.RetryAfterSeconds)
	}
	return decision, nil
}

// Usage reports the current bucket of a credential without consuming quota
func (a *AuthRateLimiter) Usage(ctx context.Context, keyID string) (*entities.QuotaCounter, error) {
	now := a.now().UTC()
	counter, err := a.quotas.Current(ctx, keyID, utils.GetWindowKey(now, a.config.Window))
	if err != nil {
		return nil, apperror.From(err)
	}
	counter.Limit = a.config.Limit
	counter.ResetAt = utils.WindowEnd(now, a.config.Window)
	return counter, nil
}

// Authenticate validates the key and then consumes one unit of quota
func (a *AuthRateLimiter) Authenticate(ctx context.Context, apiKey string) (*entities.Credential, *entities.QuotaDecision, error) {
	credential, err := a.ValidateCredential(ctx, apiKey)
	if err != nil {
		return nil, nil, err
	}
	decision, err := a.CheckAndConsumeQuota(ctx, credential.KeyID)
	if err != nil {
		return credential, decision, err
	}
	return credential, decision, nil
}
