package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"crypto-quote-service/internal/domain/entities"
	"crypto-quote-service/internal/domain/interfaces"
	"crypto-quote-service/internal/infrastructure/logging"
)

// PriceRepository guarda snapshots de precios como JSON bajo PRICE#<SYMBOL>:METADATA
type PriceRepository struct {
	store interfaces.KeyValueStore
	now   func() time.Time
}

var _ interfaces.PriceRepository = (*PriceRepository)(nil)

func NewPriceRepository(store interfaces.KeyValueStore) *PriceRepository {
	return &PriceRepository{store: store, now: time.Now}
}

// WithClock replaces the clock, used by tests
func (r *PriceRepository) WithClock(now func() time.Time) *PriceRepository {
	r.now = now
	return r
}

// storeTTL hace que el almacén expire el registro en su ExpiresAt (lastUpdated + ttl)
// y no en now + ttl; nunca baja de un segundo
func (r *PriceRepository) storeTTL(snapshot *entities.PriceSnapshot) time.Duration {
	if snapshot.ExpiresAt.IsZero() {
		return 0
	}
	remaining := snapshot.ExpiresAt.Sub(r.now())
	if remaining < time.Second {
		return time.Second
	}
	return remaining
}

// Get devuelve el snapshot o un error que envuelve apperror.ErrNotFound
func (r *PriceRepository) Get(ctx context.Context, symbol string) (*entities.PriceSnapshot, error) {
	raw, err := r.store.Get(ctx, PriceKey(symbol))
	if err != nil {
		return nil, err
	}
	var snapshot entities.PriceSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", symbol, err)
	}
	return &snapshot, nil
}

// GetMany devuelve los snapshots presentes; los registros corruptos se tratan como ausentes
func (r *PriceRepository) GetMany(ctx context.Context, symbols []string) (map[string]*entities.PriceSnapshot, error) {
	keys := make([]string, len(symbols))
	for i, symbol := range symbols {
		keys[i] = PriceKey(symbol)
	}

	raw, err := r.store.GetMany(ctx, keys)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*entities.PriceSnapshot, len(raw))
	for i, symbol := range symbols {
		data, ok := raw[keys[i]]
		if !ok {
			continue
		}
		var snapshot entities.PriceSnapshot
		if err := json.Unmarshal(data, &snapshot); err != nil {
			logging.WarnWithError(ctx, "Discarding undecodable price snapshot", err, logging.Fields{
				logging.FieldSymbol: symbol,
			})
			continue
		}
		out[symbol] = &snapshot
	}
	return out, nil
}

// Save sobrescribe el snapshot de un símbolo; ttl es la expiración de higiene del almacén
func (r *PriceRepository) Save(ctx context.Context, snapshot *entities.PriceSnapshot, ttl time.Duration) error {
	stamped := snapshot.WithExpiry(ttl)
	data, err := json.Marshal(stamped)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", snapshot.Symbol, err)
	}
	return r.store.Put(ctx, PriceKey(snapshot.Symbol), data, r.storeTTL(stamped))
}

// SaveBatch sobrescribe varios snapshots en una sola escritura del almacén
func (r *PriceRepository) SaveBatch(ctx context.Context, snapshots []*entities.PriceSnapshot, ttl time.Duration) error {
	if len(snapshots) == 0 {
		return nil
	}
	items := make([]interfaces.StoreItem, 0, len(snapshots))
	for _, snapshot := range snapshots {
		stamped := snapshot.WithExpiry(ttl)
		data, err := json.Marshal(stamped)
		if err != nil {
			return fmt.Errorf("encode snapshot %s: %w", snapshot.Symbol, err)
		}
		items = append(items, interfaces.StoreItem{Key: PriceKey(snapshot.Symbol), Value: data, TTL: r.storeTTL(stamped)})
	}
	return r.store.PutBatch(ctx, items)
}
