package kvstore

import "fmt"

// Formato de claves: identidad compuesta + discriminador de registro
const (
	priceKeyFormat      = "PRICE#%s:METADATA"
	credentialKeyFormat = "APIKEY#%s:METADATA"
	quotaKeyFormat      = "APIKEY#%s:RATELIMIT#%s"
)

// PriceKey returns the store key of a symbol snapshot
func PriceKey(symbol string) string {
	return fmt.Sprintf(priceKeyFormat, symbol)
}

// CredentialKey returns the store key of an API key record
func CredentialKey(keyID string) string {
	return fmt.Sprintf(credentialKeyFormat, keyID)
}

// QuotaKey returns the store key of a quota counter
func QuotaKey(keyID, bucket string) string {
	return fmt.Sprintf(quotaKeyFormat, keyID, bucket)
}
