package config

import (
	"fmt"

	"github.com/andrew-solarstorm/go-packages/common"
)

const (
	StoreBackendNone  = "none"
	StoreBackendBolt  = "bolt"
	StoreBackendRedis = "redis"
)

// StoreConfig selects where discovered pancake pairs are persisted between restarts.
type StoreConfig struct {
	Backend string

	// bolt
	Path string

	// redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func (c *StoreConfig) Key() string {
	return STORE_CONFIG_KEY
}

func (c *StoreConfig) Load() error {
	c.Backend = common.GetEnvOrDefault("PAIR_STORE_BACKEND", StoreBackendNone)
	c.Path = common.GetEnvOrDefault("PAIR_STORE_PATH", "./data/pairs.db")
	c.RedisAddr = common.GetEnvOrDefault("REDIS_ADDR", "localhost:6379")
	c.RedisPassword = common.GetEnvOrDefault("REDIS_PASSWORD", "")
	c.RedisDB = common.GetEnvOrDefaultInt("REDIS_DB", 0)
	return nil
}

func (c *StoreConfig) Validate() error {
	switch c.Backend {
	case StoreBackendNone, StoreBackendBolt, StoreBackendRedis:
		return nil
	default:
		return fmt.Errorf("invalid store config: unknown PAIR_STORE_BACKEND %q", c.Backend)
	}
}
