package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadExploreConfig_PolicyIsCaseInsensitive(t *testing.T) {
	cases := map[string]string{
		"":            PolicyPopularity,
		"interests":   PolicyInterests,
		"Interests":   PolicyInterests,
		" INTERESTS ": PolicyInterests,
		"Popularity":  PolicyPopularity,
		"trending":    PolicyPopularity,
	}
	for in, want := range cases {
		t.Setenv("EXPLORE_POLICY", in)
		assert.Equal(t, want, LoadExploreConfig().Policy, "EXPLORE_POLICY=%q", in)
	}
}

func TestLoadCacheConfig_OffByDefaultAndTTLCapped(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "")
	t.Setenv("CACHE_TTL", "")
	cfg := LoadCacheConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, DefaultCacheTTL, cfg.TTL)

	t.Setenv("CACHE_TTL", "10m")
	assert.Equal(t, MaxCacheTTL, LoadCacheConfig().TTL)

	t.Setenv("CACHE_TTL", "5s")
	assert.Equal(t, 5*time.Second, LoadCacheConfig().TTL)

	t.Setenv("CACHE_TTL", "-1s")
	assert.Equal(t, DefaultCacheTTL, LoadCacheConfig().TTL)
}
