package interfaces

import (
	"context"
	"time"

	"crypto-quote-service/internal/domain/entities"
)

// PriceRepository persists price snapshots keyed by symbol
type PriceRepository interface {
	Get(ctx context.Context, symbol string) (*entities.PriceSnapshot, error)
	GetMany(ctx context.Context, symbols []string) (map[string]*entities.PriceSnapshot, error)
	Save(ctx context.Context, snapshot *entities.PriceSnapshot, ttl time.Duration) error
	SaveBatch(ctx context.Context, snapshots []*entities.PriceSnapshot, ttl time.Duration) error
}

// CredentialRepository persists API key records
type CredentialRepository interface {
	Get(ctx context.Context, keyID string) (*entities.Credential, error)
	Save(ctx context.Context, credential *entities.Credential) error
}

// QuotaRepository keeps per key, per window request counters
type QuotaRepository interface {
	Increment(ctx context.Context, keyID, bucket string, expiresAt time.Time) (int64, error)
	Current(ctx context.Context, keyID, bucket string) (*entities.QuotaCounter, error)
}
