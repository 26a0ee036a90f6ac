package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"crypto-quote-service/internal/domain/apperror"
	"crypto-quote-service/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHealthService(f *fixture) *HealthService {
	return NewHealthService(f.cache, f.store, f.universe, 300*time.Second, 15*time.Minute).WithClock(f.clock.Now)
}

func TestHealthService_Check(t *testing.T) {
	tests := []struct {
		name       string
		seedAge    []time.Duration
		wantStatus entities.HealthStatus
		wantAge    int64
	}{
		{"sin datos", nil, entities.HealthDegraded, -1},
		{"datos recientes", []time.Duration{2 * time.Minute, 10 * time.Minute}, entities.HealthHealthy, 120},
		{"datos de 14 minutos", []time.Duration{14 * time.Minute}, entities.HealthHealthy, 840},
		{"datos de 20 minutos", []time.Duration{20 * time.Minute}, entities.HealthUnhealthy, 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			symbols := f.universe.Symbols()
			for i, age := range tt.seedAge {
				f.seed(snapshotAt(symbols[i], "1", baseTime.Add(-age)))
			}

			report := newHealthService(f).Check(context.Background())
			assert.Equal(t, tt.wantStatus, report.Status)
			assert.True(t, report.StoreOK)
			if tt.wantAge < 0 {
				assert.Nil(t, report.LastPriceUpdate)
				assert.Nil(t, report.CacheAgeSeconds)
				return
			}
			require.NotNil(t, report.CacheAgeSeconds)
			assert.Equal(t, tt.wantAge, *report.CacheAgeSeconds)
			assert.True(t, report.LastPriceUpdate.Equal(baseTime.Add(-time.Duration(tt.wantAge)*time.Second)))
		})
	}
}

func TestHealthService_StoreErrorIsUnhealthy(t *testing.T) {
	f := newFixture()
	f.store.failReads = apperror.Store("get_many", errors.New("connection refused"), true)

	report := newHealthService(f).Check(context.Background())
	assert.Equal(t, entities.HealthUnhealthy, report.Status)
	assert.False(t, report.StoreOK)
	assert.Contains(t, report.StoreError, "connection refused")
}

func TestHealthService_ReadyPingsStore(t *testing.T) {
	f := newFixture()
	f.seed(snapshotAt("BTC", "1", baseTime))
	svc := newHealthService(f)

	assert.Equal(t, entities.HealthHealthy, svc.Ready(context.Background()).Status)

	f.store.failPing = errors.New("dial tcp: connection refused")
	report := svc.Ready(context.Background())
	assert.Equal(t, entities.HealthUnhealthy, report.Status)
	assert.False(t, report.StoreOK)
}
