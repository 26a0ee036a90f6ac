package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"crypto-quote-service/internal/domain/apperror"
	"crypto-quote-service/internal/domain/entities"
	"crypto-quote-service/internal/infrastructure/repositories/kvstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	*fixture
	credentials *kvstore.CredentialRepository
	limiter     *AuthRateLimiter
	key         string
}

func newAuthFixture(t *testing.T, limit int64) *authFixture {
	t.Helper()
	f := newFixture()
	credentials := kvstore.NewCredentialRepository(f.store)
	quotas := kvstore.NewQuotaRepository(f.store)

	key := "ck_test_credential_0001"
	require.NoError(t, credentials.Save(context.Background(), entities.NewCredential(key, "test", baseTime)))

	limiter := NewAuthRateLimiter(credentials, quotas, QuotaConfig{
		Limit:      limit,
		Window:     time.Minute,
		CounterTTL: time.Hour,
	}).WithClock(f.clock.Now)

	return &authFixture{fixture: f, credentials: credentials, limiter: limiter, key: key}
}

func TestAuthRateLimiter_ValidateCredential(t *testing.T) {
	af := newAuthFixture(t, 100)
	ctx := context.Background()

	disabled := entities.NewCredential("ck_disabled_key_0002", "off", baseTime)
	disabled.Enabled = false
	require.NoError(t, af.credentials.Save(ctx, disabled))

	credential, err := af.limiter.ValidateCredential(ctx, af.key)
	require.NoError(t, err)
	assert.Equal(t, af.key, credential.KeyID)

	for _, key := range []string{"", "   ", "ck_unknown", disabled.KeyID} {
		_, err := af.limiter.ValidateCredential(ctx, key)
		appErr, ok := apperror.As(err)
		require.True(t, ok, "key %q", key)
		assert.Equal(t, apperror.CodeUnauthenticated, appErr.Code)
		assert.Equal(t, "Invalid API key", appErr.Message)
	}
}

func TestAuthRateLimiter_StoreFailureIsNotUnauthenticated(t *testing.T) {
	af := newAuthFixture(t, 100)
	af.store.failReads = apperror.Store("get", errors.New("i/o timeout"), true)

	_, err := af.limiter.ValidateCredential(context.Background(), af.key)
	assert.True(t, apperror.IsCode(err, apperror.CodeStore))
}

func TestAuthRateLimiter_RejectsLimitPlusOne(t *testing.T) {
	af := newAuthFixture(t, 100)
	ctx := context.Background()
	af.clock.Set(baseTime.Add(15 * time.Second))

	for i := 1; i <= 100; i++ {
		decision, err := af.limiter.CheckAndConsumeQuota(ctx, af.key)
		require.NoError(t, err, "request %d", i)
		assert.Equal(t, int64(i), decision.Count)
		assert.Equal(t, int64(100-i), decision.Remaining)
	}

	decision, err := af.limiter.CheckAndConsumeQuota(ctx, af.key)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeQuotaExceeded, appErr.Code)
	assert.Equal(t, 45, appErr.RetryAfterSeconds)
	assert.False(t, decision.Allowed)
	assert.Equal(t, int64(101), decision.Count)
	assert.True(t, decision.ResetAt.Equal(baseTime.Add(time.Minute)))
}

func TestAuthRateLimiter_NewBucketResets(t *testing.T) {
	af := newAuthFixture(t, 2)
	ctx := context.Background()
	af.clock.Set(baseTime.Add(58 * time.Second))

	for i := 0; i < 2; i++ {
		_, err := af.limiter.CheckAndConsumeQuota(ctx, af.key)
		require.NoError(t, err)
	}
	_, err := af.limiter.CheckAndConsumeQuota(ctx, af.key)
	assert.True(t, apperror.IsCode(err, apperror.CodeQuotaExceeded))

	// Siguiente ventana: los conteos previos no cuentan
	af.clock.Set(baseTime.Add(61 * time.Second))
	decision, err := af.limiter.CheckAndConsumeQuota(ctx, af.key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), decision.Count)
}

func TestAuthRateLimiter_RetryAfterNeverBelowOne(t *testing.T) {
	af := newAuthFixture(t, 1)
	ctx := context.Background()
	af.clock.Set(baseTime.Add(59*time.Second + 900*time.Millisecond))

	_, err := af.limiter.CheckAndConsumeQuota(ctx, af.key)
	require.NoError(t, err)
	_, err = af.limiter.CheckAndConsumeQuota(ctx, af.key)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, 1, appErr.RetryAfterSeconds)
}

func TestAuthRateLimiter_ConcurrentRequestsNeverExceedLimit(t *testing.T) {
	af := newAuthFixture(t, 50)
	ctx := context.Background()

	var allowed int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := af.limiter.CheckAndConsumeQuota(ctx, af.key); err == nil {
				atomic.AddInt64(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), allowed)
}

func TestAuthRateLimiter_Authenticate(t *testing.T) {
	af := newAuthFixture(t, 1)
	ctx := context.Background()

	credential, decision, err := af.limiter.Authenticate(ctx, af.key)
	require.NoError(t, err)
	assert.Equal(t, af.key, credential.KeyID)
	assert.True(t, decision.Allowed)

	_, _, err = af.limiter.Authenticate(ctx, af.key)
	assert.True(t, apperror.IsCode(err, apperror.CodeQuotaExceeded))

	// Credencial deshabilitada: Unauthenticated sin importar la cuota
	credential.Enabled = false
	require.NoError(t, af.credentials.Save(ctx, credential))
	_, decision, err = af.limiter.Authenticate(ctx, af.key)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthenticated))
	assert.Nil(t, decision)
}

func TestAuthRateLimiter_UsageDoesNotConsume(t *testing.T) {
	af := newAuthFixture(t, 5)
	ctx := context.Background()
	af.clock.Set(baseTime.Add(20 * time.Second))

	usage, err := af.limiter.Usage(ctx, af.key)
	require.NoError(t, err)
	assert.Zero(t, usage.Count)
	assert.Equal(t, int64(5), usage.Limit)
	assert.Equal(t, "202503101200", usage.Bucket)
	assert.True(t, usage.ResetAt.Equal(baseTime.Add(time.Minute)))

	for i := 0; i < 3; i++ {
		_, err := af.limiter.CheckAndConsumeQuota(ctx, af.key)
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		usage, err = af.limiter.Usage(ctx, af.key)
		require.NoError(t, err)
		assert.Equal(t, int64(3), usage.Count)
	}

	af.clock.Set(baseTime.Add(time.Minute))
	usage, err = af.limiter.Usage(ctx, af.key)
	require.NoError(t, err)
	assert.Zero(t, usage.Count)
}

func TestAuthRateLimiter_UsageStoreFailure(t *testing.T) {
	af := newAuthFixture(t, 5)
	af.store.failReads = apperror.Store("get", errors.New("i/o timeout"), true)

	_, err := af.limiter.Usage(context.Background(), af.key)
	assert.True(t, apperror.IsCode(err, apperror.CodeStore))
}
