package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"viewtrap/domain/dto"

	"github.com/google/go-querystring/query"
)

const (
	keyPrefix    = "yt:"
	keyDigestLen = 24
)

// Key derives the storage key for params: the operation tag followed by a
// truncated digest of the parameters encoded in sorted key order.
func Key(params dto.CacheParams) string {
	return keyPrefix + params.CacheOperation() + ":" + digest(CanonicalParams(params))
}

// CanonicalParams renders params as a sorted query string.
func CanonicalParams(params dto.CacheParams) string {
	values, err := query.Values(params)
	if err != nil {
		// Only non-struct params fail here and every CacheParams is a struct.
		return ""
	}
	return values.Encode()
}

func digest(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])[:keyDigestLen]
}
