package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"crypto-quote-service/internal/domain/apperror"
	"crypto-quote-service/internal/domain/entities"
	"crypto-quote-service/internal/domain/interfaces"
	"crypto-quote-service/internal/infrastructure/logging"
)

const (
	APIKeyPrefix   = "ck_"
	apiKeyRandSize = 32
)

// CredentialProvisioner crea y administra API keys; lo usa el CLI apikey
type CredentialProvisioner struct {
	credentials interfaces.CredentialRepository
	random      io.Reader
	now         func() time.Time
}

func NewCredentialProvisioner(credentials interfaces.CredentialRepository) *CredentialProvisioner {
	return &CredentialProvisioner{
		credentials: credentials,
		random:      rand.Reader,
		now:         time.Now,
	}
}

// WithRandom replaces the entropy source, used by tests
func (p *CredentialProvisioner) WithRandom(r io.Reader) *CredentialProvisioner {
	p.random = r
	return p
}

// GenerateAPIKey returns ck_ followed by 32 random bytes in URL-safe base64
func GenerateAPIKey(r io.Reader) (string, error) {
	buf := make([]byte, apiKeyRandSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return APIKeyPrefix + base64.RawURLEncoding.EncodeToString(buf), nil
}

// Create generates a new enabled credential
func (p *CredentialProvisioner) Create(ctx context.Context, label string) (*entities.Credential, error) {
	key, err := GenerateAPIKey(p.random)
	if err != nil {
		return nil, err
	}
	credential := entities.NewCredential(key, strings.TrimSpace(label), p.now().UTC())
	if err := p.credentials.Save(ctx, credential); err != nil {
		return nil, fmt.Errorf("save credential: %w", err)
	}
	logging.Info(ctx, "API key created", logging.Fields{
		logging.FieldAPIKey: logging.MaskAPIKey(key),
		"label":             credential.Label,
	})
	return credential, nil
}

// Show returns a stored credential
func (p *CredentialProvisioner) Show(ctx context.Context, keyID string) (*entities.Credential, error) {
	credential, err := p.credentials.Get(ctx, keyID)
	if err != nil {
		return nil, fmt.Errorf("credential %s: %w", entities.MaskKey(keyID), err)
	}
	return credential, nil
}

// Disable rejects the key from now on, exactly like an unknown key
func (p *CredentialProvisioner) Disable(ctx context.Context, keyID string) (*entities.Credential, error) {
	return p.setEnabled(ctx, keyID, false)
}

// Enable re-activates a disabled key
func (p *CredentialProvisioner) Enable(ctx context.Context, keyID string) (*entities.Credential, error) {
	return p.setEnabled(ctx, keyID, true)
}

func (p *CredentialProvisioner) setEnabled(ctx context.Context, keyID string, enabled bool) (*entities.Credential, error) {
	credential, err := p.Show(ctx, keyID)
	if err != nil {
		return nil, err
	}
	if credential.Enabled == enabled {
		return credential, nil
	}
	credential.Enabled = enabled
	if err := p.credentials.Save(ctx, credential); err != nil {
		return nil, fmt.Errorf("save credential: %w", err)
	}
	logging.Info(ctx, "API key updated", logging.Fields{
		logging.FieldAPIKey: logging.MaskAPIKey(keyID),
		"enabled":           enabled,
	})
	return credential, nil
}

// IsNotFound reports whether err means the credential does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}
