package models

import "time"

// CacheEntry mirrors one row of the response cache.
type CacheEntry struct {
	CacheKey     string    `json:"cache_key"`
	Endpoint     string    `json:"endpoint"`
	ParamsHash   string    `json:"params_hash"`
	ResponseData []byte    `json:"response_data"`
	CreatedAt    time.Time `json:"created_at"`
	HitCount     int64     `json:"hit_count"`
	LastAccessed time.Time `json:"last_accessed"`
}

// Stale reports whether the entry is older than maxAge.
func (e CacheEntry) Stale(maxAge time.Duration) bool {
	return time.Since(e.CreatedAt) > maxAge
}

// CacheStats is an aggregate view over the cache store.
type CacheStats struct {
	TotalEntries int64            `json:"total_entries"`
	TotalHits    int64            `json:"total_hits"`
	ByEndpoint   map[string]int64 `json:"by_endpoint"`
}
