package entities

import "time"

// Credential is an API key record. The key itself is the record identity.
type Credential struct {
	KeyID      string     `json:"keyId"`
	Label      string     `json:"label"`
	CreatedAt  time.Time  `json:"createdAt"`
	Enabled    bool       `json:"enabled"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
}

func NewCredential(keyID, label string, createdAt time.Time) *Credential {
	return &Credential{
		KeyID:     keyID,
		Label:     label,
		CreatedAt: createdAt.UTC(),
		Enabled:   true,
	}
}

// MaskKey shortens a key for logs: first 7 characters then ***
func MaskKey(key string) string {
	if len(key) <= 7 {
		return "key_***"
	}
	return key[:7] + "***"
}
