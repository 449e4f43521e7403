package ops

import (
	"strings"

	"github.com/hpungsan/strategist/internal/errors"
	"github.com/hpungsan/strategist/internal/storage"
)

// GetAPIKey returns the stored Gemini API key. ok is false when no key has
// been set.
func GetAPIKey(st storage.Store) (key string, ok bool, err error) {
	return st.Get(APIKeyKey)
}

// SetAPIKey stores the Gemini API key as a raw string, matching what the
// generation layer reads back. The key is deliberately not JSON-wrapped.
func SetAPIKey(st storage.Store, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.NewInvalidRequest("api key must not be empty")
	}
	return st.Set(APIKeyKey, key)
}

// ClearAPIKey removes the stored key.
func ClearAPIKey(st storage.Store) error {
	return st.Delete(APIKeyKey)
}
