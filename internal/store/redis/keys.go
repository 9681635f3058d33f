package redis

import (
	"crypto/sha256"
	"encoding/hex"
)

// KeyPrefixCache is the prefix for cached vendor responses
const KeyPrefixCache = "wapi:cache:"

// CacheKey returns the Redis key for a response cache key. Cache keys embed
// request params, so they are hashed to keep Redis keys short.
func CacheKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return KeyPrefixCache + "entry:" + hex.EncodeToString(sum[:])
}

// CachePattern matches every cached entry.
func CachePattern() string {
	return KeyPrefixCache + "entry:*"
}
