package kvstore

import (
	"context"
	"errors"
	"strconv"
	"time"

	"crypto-quote-service/internal/domain/apperror"
	"crypto-quote-service/internal/domain/entities"
	"crypto-quote-service/internal/domain/interfaces"
)

// QuotaRepository mantiene contadores por credencial y ventana
type QuotaRepository struct {
	store interfaces.KeyValueStore
}

var _ interfaces.QuotaRepository = (*QuotaRepository)(nil)

func NewQuotaRepository(store interfaces.KeyValueStore) *QuotaRepository {
	return &QuotaRepository{store: store}
}

// Increment suma uno de forma atómica y devuelve el valor resultante
func (r *QuotaRepository) Increment(ctx context.Context, keyID, bucket string, expiresAt time.Time) (int64, error) {
	return r.store.Increment(ctx, QuotaKey(keyID, bucket), expiresAt)
}

// Current lee el contador sin consumir cuota; uno inexistente vale cero
func (r *QuotaRepository) Current(ctx context.Context, keyID, bucket string) (*entities.QuotaCounter, error) {
	counter := &entities.QuotaCounter{KeyID: keyID, Bucket: bucket}
	raw, err := r.store.Get(ctx, QuotaKey(keyID, bucket))
	if errors.Is(err, apperror.ErrNotFound) {
		return counter, nil
	}
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return nil, apperror.Store("count", errNotCounter, false)
	}
	counter.Count = n
	return counter, nil
}
