package cache

import (
	"encoding/json"
	"strings"
)

// KeyGenerator builds cache keys with a consistent "prefix:part:part..."
// shape so every cache-aside caller names its keys the same way.
type KeyGenerator struct {
	prefix string
}

// NewKeyGenerator creates a new key generator.
func NewKeyGenerator(prefix string) *KeyGenerator {
	return &KeyGenerator{prefix: prefix}
}

// GenerateKey creates a cache key with the given parts.
func (kg *KeyGenerator) GenerateKey(parts ...string) string {
	if len(parts) == 0 {
		return kg.prefix
	}
	return kg.prefix + ":" + strings.Join(parts, ":")
}

// Serialize serializes data to JSON.
func Serialize(data interface{}) ([]byte, error) {
	return json.Marshal(data)
}

// Deserialize deserializes data from JSON.
func Deserialize(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// IsValidCacheKey reports whether key is safe to send to Redis: non-empty,
// free of whitespace, and within Redis's practical key-length comfort zone.
func IsValidCacheKey(key string) bool {
	if key == "" || len(key) > 250 {
		return false
	}
	invalidChars := []string{" ", "\n", "\r", "\t"}
	for _, char := range invalidChars {
		if strings.Contains(key, char) {
			return false
		}
	}
	return true
}

// ExtractKeyParts splits a generated key back into its colon-separated
// parts, the inverse of GenerateKey.
func ExtractKeyParts(key string) []string {
	if key == "" {
		return nil
	}
	return strings.Split(key, ":")
}
