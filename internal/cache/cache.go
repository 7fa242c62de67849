package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a namespaced cache key from a name such as a URL or probe id
func Key(name string) string {
	hash := sha256.Sum256([]byte(name))
	return "phishlens:v1:" + hex.EncodeToString(hash[:])
}
