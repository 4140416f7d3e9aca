package config

import (
    "strings"
    "time"
)

// CacheConfig defines settings for the explore response cache.  Explore
// answers depend on the current time, so the cache is off unless
// CACHE_ENABLED is set and the TTL should stay short.  KeyStrategy
// determines which parts of the request contribute to the cache key;
// requests carrying a bearer token are keyed per user when personalised
// ranking is active.
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool
    TTL          time.Duration
    KeyStrategy  string
    Prefix       string
    MaxBodyBytes int
}

// Cache TTL bounds.  A cached explore answer may list an event for up to
// one TTL after it starts, so the TTL is capped.
const (
    DefaultCacheTTL = 15 * time.Second
    MaxCacheTTL     = time.Minute
)

// LoadCacheConfig reads the CACHE_* environment variables.  All methods are
// upper-cased and CACHE_TTL is clamped to MaxCacheTTL.
func LoadCacheConfig() CacheConfig {
    ttl := envDur("CACHE_TTL", DefaultCacheTTL)
    if ttl <= 0 {
        ttl = DefaultCacheTTL
    }
    if ttl > MaxCacheTTL {
        ttl = MaxCacheTTL
    }
    return CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", false),
        Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
        TTL:          ttl,
        KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
        Prefix:       envStr("CACHE_PREFIX", "spott:cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
}

func parseMethods(s string) map[string]bool {
    m := map[string]bool{}
    for _, p := range strings.Split(s, ",") {
        p = strings.TrimSpace(strings.ToUpper(p))
        if p != "" {
            m[p] = true
        }
    }
    return m
}
