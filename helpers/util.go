package helpers

import (
	"crypto/sha256"
	"encoding/hex"
)

// TruncateRunes cuts s to at most max runes without splitting a UTF-8 sequence
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}

// CacheKey builds a memcache-safe key for a URL
func CacheKey(prefix, url string) string {
	sum := sha256.Sum256([]byte(url))
	return prefix + ":" + hex.EncodeToString(sum[:])
}
