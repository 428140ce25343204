// Package cache maps a canonical search-parameter fingerprint to a
// previously computed response payload. Two backends implement the same
// contract: an in-process FIFO store with TTL expiry (the default) and an
// optional Redis store selected at startup when Redis is reachable.
package cache

import (
	"context"

	"github.com/advocate-directory/search-service/internal/search/params"
)

const keyPrefix = "search:"

// Store is the result-cache contract. Values are serialized response
// payloads; Get reports a miss for absent or expired keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Clear(ctx context.Context) error
	Stats() (hits, misses int64)
}

// Key builds the cache key for a validated parameter set. Semantically
// identical queries produce identical keys.
func Key(p *params.Params) string {
	return keyPrefix + p.Fingerprint()
}
