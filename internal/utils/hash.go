package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// hasherPool holds HMAC-SHA256 hashers keyed by InitHasherPool.
var hasherPool sync.Pool

// InitHasherPool keys every pooled hasher with hashKey. It must run before
// Hash; the server adapter calls it once with the configured key.
func InitHasherPool(hashKey string) {
	key := []byte(hashKey)
	hasherPool = sync.Pool{
		New: func() any {
			return hmac.New(sha256.New, key)
		},
	}
}

// Hash returns the HMAC-SHA256 of data.
func Hash(data []byte) []byte {
	h := hasherPool.Get().(hash.Hash)
	defer hasherPool.Put(h)

	h.Reset()
	h.Write(data)
	return h.Sum(nil)
}

// HashHex is Hash in the lowercase hex form carried by the HashSHA256
// header.
func HashHex(data []byte) string {
	return hex.EncodeToString(Hash(data))
}

// VerifyHash reports whether signature is the hex HMAC of data. Malformed
// hex never matches. The digests are compared in constant time.
func VerifyHash(data []byte, signature string) bool {
	want, err := hex.DecodeString(signature)
	if err != nil || len(want) != sha256.Size {
		return false
	}
	return hmac.Equal(Hash(data), want)
}

// HashString signs data with hashKey without touching the pool.
func HashString(data, hashKey string) string {
	h := hmac.New(sha256.New, []byte(hashKey))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
