// Package persistence stores discovered pancake pairs so a restart does not rediscover them.
// Routes are never persisted: migration state is re-derived by every process.
package persistence

import (
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/token-route-engine/internal/domain"
)

type StoredPair struct {
	Token        string `json:"token"`
	PairAddress  string `json:"pairAddress"`
	QuoteToken   string `json:"quoteToken"`
	Version      string `json:"version"`
	DiscoveredAt int64  `json:"discoveredAt"` // unix millis
}

func pairKey(token common.Address) string {
	return strings.ToLower(token.Hex())
}

func encodePair(token common.Address, info *domain.PancakePairInfo) ([]byte, error) {
	stored := StoredPair{
		Token:        token.Hex(),
		PairAddress:  info.PairAddress.Hex(),
		QuoteToken:   info.QuoteToken.Hex(),
		Version:      string(info.Version),
		DiscoveredAt: info.Timestamp.UnixMilli(),
	}
	data, err := sonic.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pair %s: %w", token.Hex(), err)
	}
	return data, nil
}

func decodePair(data []byte) (common.Address, *domain.PancakePairInfo, error) {
	var stored StoredPair
	if err := sonic.Unmarshal(data, &stored); err != nil {
		return common.Address{}, nil, fmt.Errorf("failed to unmarshal pair: %w", err)
	}
	if !common.IsHexAddress(stored.Token) || !common.IsHexAddress(stored.PairAddress) || !common.IsHexAddress(stored.QuoteToken) {
		return common.Address{}, nil, fmt.Errorf("stored pair %q has an invalid address", stored.Token)
	}
	version := domain.PancakeVersion(stored.Version)
	if version != domain.PancakeV2 && version != domain.PancakeV3 {
		return common.Address{}, nil, fmt.Errorf("stored pair %q has unknown version %q", stored.Token, stored.Version)
	}
	return common.HexToAddress(stored.Token), &domain.PancakePairInfo{
		PairAddress: common.HexToAddress(stored.PairAddress),
		QuoteToken:  common.HexToAddress(stored.QuoteToken),
		Version:     version,
		Timestamp:   time.UnixMilli(stored.DiscoveredAt),
	}, nil
}

// decodeAll skips records that fail to decode.
func decodeAll[V string | []byte](records map[string]V) map[common.Address]*domain.PancakePairInfo {
	pairs := make(map[common.Address]*domain.PancakePairInfo, len(records))
	failed := 0
	for key, value := range records {
		token, info, err := decodePair([]byte(value))
		if err != nil {
			log.Error().Str("key", key).Err(err).Msg("[pairStore] failed to decode pair, skipping")
			failed++
			continue
		}
		pairs[token] = info
	}

	log.Info().
		Int("total_in_store", len(records)).
		Int("loaded", len(pairs)).
		Int("failed", failed).
		Msg("[pairStore] pair loading completed")
	return pairs
}
