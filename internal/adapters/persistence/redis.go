package persistence

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	"github.com/hxuan190/token-route-engine/internal/domain"
	"github.com/hxuan190/token-route-engine/internal/pancake"
)

// DefaultRedisKey is the hash holding one field per token.
const DefaultRedisKey = "route-engine:pancake-pairs"

var _ pancake.PairStore = (*RedisPairStore)(nil)

// RedisPairStore shares discovered pairs between engine instances through a redis hash.
type RedisPairStore struct {
	client redis.UniversalClient
	key    string
}

func NewRedisPairStore(addr, password string, db int) *RedisPairStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisPairStoreWithClient(client, DefaultRedisKey)
}

func NewRedisPairStoreWithClient(client redis.UniversalClient, key string) *RedisPairStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisPairStore{client: client, key: key}
}

func (s *RedisPairStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisPairStore) SavePair(ctx context.Context, token common.Address, info *domain.PancakePairInfo) error {
	data, err := encodePair(token, info)
	if err != nil {
		return err
	}
	if err := s.client.HSet(ctx, s.key, pairKey(token), data).Err(); err != nil {
		return fmt.Errorf("failed to save pair %s: %w", token.Hex(), err)
	}
	return nil
}

func (s *RedisPairStore) LoadPairs(ctx context.Context) (map[common.Address]*domain.PancakePairInfo, error) {
	records, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load pairs: %w", err)
	}
	return decodeAll(records), nil
}

func (s *RedisPairStore) Close() error {
	return s.client.Close()
}
