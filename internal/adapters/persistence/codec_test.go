package persistence

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/token-route-engine/internal/chain"
	"github.com/hxuan190/token-route-engine/internal/domain"
)

func TestPairCodec(t *testing.T) {
	token := common.HexToAddress("0x1234567890abcdef1234567890abcdef1234ffff")
	info := &domain.PancakePairInfo{
		PairAddress: common.HexToAddress("0x00000000000000000000000000000000000000a2"),
		QuoteToken:  chain.WBNB,
		Version:     domain.PancakeV3,
		Timestamp:   time.UnixMilli(1_700_000_000_123),
	}

	data, err := encodePair(token, info)
	require.NoError(t, err)

	gotToken, got, err := decodePair(data)
	require.NoError(t, err)
	assert.Equal(t, token, gotToken)
	assert.Equal(t, info.PairAddress, got.PairAddress)
	assert.Equal(t, info.Version, got.Version)
	assert.True(t, info.Timestamp.Equal(got.Timestamp))
}

func TestDecodeAllSkipsBadRecords(t *testing.T) {
	token := common.HexToAddress("0x1234567890abcdef1234567890abcdef1234ffff")
	good, err := encodePair(token, &domain.PancakePairInfo{
		PairAddress: common.HexToAddress("0x00000000000000000000000000000000000000a2"),
		QuoteToken:  chain.USDT,
		Version:     domain.PancakeV2,
	})
	require.NoError(t, err)

	pairs := decodeAll(map[string]string{
		"good":    string(good),
		"garbage": "{not json",
		"version": `{"token":"0x1234567890abcdef1234567890abcdef1234ffff","pairAddress":"0x00000000000000000000000000000000000000a2","quoteToken":"0x55d398326f99059fF775485246999027B3197955","version":"v9"}`,
	})
	require.Len(t, pairs, 1)
	assert.Equal(t, chain.USDT, pairs[token].QuoteToken)
}
