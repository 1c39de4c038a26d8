package cache

import "time"

// BytesCache stores opaque byte blobs with a TTL. The API handler keeps
// rendered chart PNGs behind it so repeated requests for the same run skip
// the backtest entirely.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
