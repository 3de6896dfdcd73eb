package config

import "time"

// CacheConfig controls the Redis cache in front of the daily revenue
// download.  It is opt-in: nothing is cached unless CACHE_ENABLED is set
// and Redis is reachable.  Only GET requests are cached and the key covers
// the route and its query parameters, so every admin shares one entry per
// range.  Relative ranges ("last 7 days") may be served from the previous
// day for up to TTL after midnight.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	// MaxBodyBytes caps what is stored; larger downloads are served but
	// not cached.
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_ENABLED, CACHE_TTL, CACHE_PREFIX and
// CACHE_MAX_BODY_BYTES.  A non-positive TTL or size falls back to the
// default.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", false),
		TTL:          envDur("CACHE_TTL", 5*time.Minute),
		Prefix:       envStr("CACHE_PREFIX", "export"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 4<<20),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 4 << 20
	}
	return cfg
}
