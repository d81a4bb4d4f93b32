package config

import (
	"errors"
	"time"

	"github.com/andrew-solarstorm/go-packages/common"
)

type RouteConfig struct {
	// CacheTTL is how long a not-migrated route is served before re-verification.
	CacheTTL     time.Duration
	CacheMaxSize int

	PairCacheMaxSize int
	PairNegativeTTL  time.Duration

	MaxAttempts    int
	RetryBaseDelay time.Duration

	// WarmupTokens are resolved once at startup.
	WarmupTokens []string
}

func (c *RouteConfig) Key() string {
	return ROUTE_CONFIG_KEY
}

func (c *RouteConfig) Load() error {
	c.CacheTTL = time.Duration(common.GetEnvOrDefaultInt("ROUTE_CACHE_TTL_MS", 5000)) * time.Millisecond
	c.CacheMaxSize = common.GetEnvOrDefaultInt("ROUTE_CACHE_MAX_SIZE", 500)
	c.PairCacheMaxSize = common.GetEnvOrDefaultInt("PAIR_CACHE_MAX_SIZE", 1000)
	c.PairNegativeTTL = time.Duration(common.GetEnvOrDefaultInt("PAIR_NEGATIVE_TTL_MS", 10000)) * time.Millisecond
	c.MaxAttempts = common.GetEnvOrDefaultInt("QUERY_MAX_ATTEMPTS", 2)
	c.RetryBaseDelay = time.Duration(common.GetEnvOrDefaultInt("QUERY_RETRY_BASE_DELAY_MS", 200)) * time.Millisecond
	c.WarmupTokens = splitList(common.GetEnvOrDefault("WARMUP_TOKENS", ""))
	return nil
}

func (c *RouteConfig) Validate() error {
	if c.CacheTTL <= 0 || c.CacheMaxSize <= 0 || c.PairCacheMaxSize <= 0 {
		return errors.New("invalid route config: cache settings must be positive")
	}
	if c.MaxAttempts < 1 {
		return errors.New("invalid route config: QUERY_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}
