package config

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/token-route-engine/internal/chain"
	"github.com/hxuan190/token-route-engine/internal/domain"
)

func TestParseTokenAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    *uint256.Int
		wantErr bool
	}{
		{"0.2", uint256.NewInt(2e17), false},
		{"100", new(uint256.Int).Mul(uint256.NewInt(100), uint256.NewInt(1e18)), false},
		{"0.0000000000000000001", uint256.NewInt(0), false},
		{"-1", nil, true},
		{"abc", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseTokenAmount(tt.raw, 18)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePairOverrides(t *testing.T) {
	token := "0x1234567890abcdef1234567890abcdef1234ffff"
	pair := "0x00000000000000000000000000000000000000a2"

	got, err := ParsePairOverrides(token + ":" + pair + ":v3:" + chain.USDT.Hex() + ", ")
	require.NoError(t, err)
	info := got[common.HexToAddress(token)]
	require.NotNil(t, info)
	assert.Equal(t, domain.PancakeV3, info.Version)
	assert.Equal(t, chain.USDT, info.QuoteToken)

	got, err = ParsePairOverrides(token + ":" + pair)
	require.NoError(t, err)
	assert.Equal(t, chain.WBNB, got[common.HexToAddress(token)].QuoteToken)

	_, err = ParsePairOverrides(token + ":" + pair + ":v4")
	assert.Error(t, err)
	_, err = ParsePairOverrides("bad")
	assert.Error(t, err)
}

func TestChainConfigLoad(t *testing.T) {
	t.Setenv("LUNA_LAUNCHPAD_ADDRESS", "0x00000000000000000000000000000000000011aa")
	t.Setenv("LIQUIDITY_MIN_WBNB", "0.5")
	t.Setenv("EXTRA_QUOTE_TOKENS", chain.USDC.Hex())

	var c ChainConfig
	require.NoError(t, c.Load())
	require.NoError(t, c.Validate())
	assert.Equal(t, chain.FourTokenManagerHelper, c.FourHelper)
	assert.Equal(t, uint256.NewInt(5e17), c.MinWBNB)
	assert.Equal(t, []common.Address{chain.USDC}, c.ExtraQuoteTokens)
	assert.False(t, chain.IsZero(c.LunaLaunchpad))

	t.Setenv("FLAP_PORTAL_ADDRESS", "nope")
	require.NoError(t, c.Load())
	assert.Error(t, c.Validate())
}

func TestStoreConfigValidate(t *testing.T) {
	t.Setenv("PAIR_STORE_BACKEND", "etcd")
	var c StoreConfig
	require.NoError(t, c.Load())
	assert.Error(t, c.Validate())
}
