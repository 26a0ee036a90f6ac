package interfaces

import (
	"context"
	"time"
)

// StoreItem es un par clave/valor con su expiración para escrituras en lote
type StoreItem struct {
	Key   string
	Value []byte
	TTL   time.Duration
}

// KeyValueStore abstrae el almacén persistente compartido entre instancias.
// Las implementaciones devuelven *apperror.Error con código DATABASE_ERROR
// y apperror.ErrNotFound envuelto cuando una clave no existe.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// GetMany omite las claves ausentes del mapa resultado
	GetMany(ctx context.Context, keys []string) (map[string][]byte, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// PutBatch aplica cada escritura o ninguna desde la vista del lector
	PutBatch(ctx context.Context, items []StoreItem) error
	// Increment suma uno de forma atómica y fija la expiración en la creación
	Increment(ctx context.Context, key string, expiresAt time.Time) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}
