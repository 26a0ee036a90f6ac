package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"crypto-quote-service/internal/domain/entities"
	"crypto-quote-service/internal/domain/interfaces"
)

// CredentialRepository guarda registros de API keys sin expiración
type CredentialRepository struct {
	store interfaces.KeyValueStore
}

var _ interfaces.CredentialRepository = (*CredentialRepository)(nil)

func NewCredentialRepository(store interfaces.KeyValueStore) *CredentialRepository {
	return &CredentialRepository{store: store}
}

func (r *CredentialRepository) Get(ctx context.Context, keyID string) (*entities.Credential, error) {
	raw, err := r.store.Get(ctx, CredentialKey(keyID))
	if err != nil {
		return nil, err
	}
	var credential entities.Credential
	if err := json.Unmarshal(raw, &credential); err != nil {
		return nil, fmt.Errorf("decode credential: %w", err)
	}
	return &credential, nil
}

func (r *CredentialRepository) Save(ctx context.Context, credential *entities.Credential) error {
	data, err := json.Marshal(credential)
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}
	return r.store.Put(ctx, CredentialKey(credential.KeyID), data, 0)
}
