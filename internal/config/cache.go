package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache middleware, which
// is applied to the mentor directory listing. When Enabled is false or
// no Redis client is available, caching is disabled. Methods lists the
// HTTP methods to cache; KeyStrategy determines which parts of the
// request contribute to the cache key (the directory varies by the
// skill and order_by query parameters, so the default includes the
// query string).
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig,
// falling back to defaults suited to the mentor directory: short TTL so
// newly edited profiles show up quickly, GET only.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 15*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "mentors"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(strings.ToUpper(p)); p != "" {
			m[p] = true
		}
	}
	return m
}
