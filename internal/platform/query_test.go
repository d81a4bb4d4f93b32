package platform

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/token-route-engine/internal/chain"
	"github.com/hxuan190/token-route-engine/internal/chain/chaintest"
	"github.com/hxuan190/token-route-engine/internal/domain"
	"github.com/hxuan190/token-route-engine/internal/pancake"
)

var (
	fourToken   = common.HexToAddress("0x1234567890abcdef1234567890abcdef1234ffff")
	flapToken   = common.HexToAddress("0x1234567890abcdef1234567890abcdef12347777")
	lunaToken   = common.HexToAddress("0x1234567890abcdef1234567890abcdef12340001")
	tokenMgr    = common.HexToAddress("0x5c952063c7fc8610FFDB798152D69F0B9550762b")
	fourPair    = common.HexToAddress("0x00000000000000000000000000000000000000f2")
	flapPool    = common.HexToAddress("0x00000000000000000000000000000000000000f3")
	launchpad   = common.HexToAddress("0x00000000000000000000000000000000000011aa")
	pairForLuna = common.HexToAddress("0x00000000000000000000000000000000000000c2")
)

func newQueries(r *chaintest.Reader) *Queries {
	finder := pancake.NewPairFinder(r, nil, pancake.DefaultFinderConfig())
	addrs := DefaultAddresses()
	addrs.LunaLaunchpad = launchpad
	return NewQueries(r, finder, addrs)
}

func n(v int64) *big.Int { return big.NewInt(v) }

func scriptFourInfo(r *chaintest.Reader, manager, quote common.Address, offers, maxOffers int64, liquidityAdded bool) {
	r.On(chain.FourTokenManagerHelper, "getTokenInfo",
		n(1), manager, quote, n(10), n(100), n(0), n(1_700_000_000),
		n(offers), n(maxOffers), n(0), n(0), liquidityAdded)
}

func scriptPancakeV2(r *chaintest.Reader, token, pair, quote common.Address) {
	r.OnArgs(chain.PancakeV2Factory, "getPair", []interface{}{token, quote}, pair)
	r.On(pair, "token0", quote)
	r.On(pair, "token1", token)
	r.On(pair, "getReserves", new(big.Int).Mul(n(1000), n(1e18)), n(1e18), uint32(0))
}

func pancakeCalls(r *chaintest.Reader) int {
	return r.CallsTo("getPair") + r.CallsTo("getPool") + r.CallsTo("getReserves") + r.CallsTo("liquidity")
}

func TestFourPreMigration(t *testing.T) {
	r := chaintest.NewReader()
	scriptFourInfo(r, tokenMgr, chain.WBNB, 5000, 10000, false)
	r.On(fourToken, "symbol", "MEME")

	route, err := newQueries(r).Query(context.Background(), domain.PlatformFour, fourToken)
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformFour, route.Platform)
	assert.Equal(t, domain.ChannelFour, route.PreferredChannel)
	assert.False(t, route.ReadyForPancake)
	assert.Equal(t, 0.5, route.Progress)
	assert.False(t, route.Migrating)
	assert.Equal(t, chain.WBNB, *route.QuoteToken)
	assert.Equal(t, "MEME", route.Metadata.Symbol)
	assert.Zero(t, pancakeCalls(r), "no pancake reads before migration")
}

func TestFourNearlyFullIsMigrating(t *testing.T) {
	r := chaintest.NewReader()
	scriptFourInfo(r, tokenMgr, chain.ZeroAddress, 9950, 10000, false)

	route, err := newQueries(r).Query(context.Background(), domain.PlatformXMode, fourToken)
	require.NoError(t, err)
	assert.Equal(t, domain.ChannelXMode, route.PreferredChannel)
	assert.True(t, route.Migrating)
	assert.Equal(t, chain.WBNB, *route.QuoteToken, "native quote maps to WBNB")
}

func TestFourMigratedUsesHelperPair(t *testing.T) {
	r := chaintest.NewReader()
	scriptFourInfo(r, tokenMgr, chain.WBNB, 10000, 10000, true)
	r.On(chain.FourTokenManagerHelper, "getPancakePair", fourPair)

	route, err := newQueries(r).Query(context.Background(), domain.PlatformFour, fourToken)
	require.NoError(t, err)
	assert.Equal(t, domain.ChannelPancake, route.PreferredChannel)
	assert.True(t, route.ReadyForPancake)
	assert.Equal(t, 1.0, route.Progress)
	assert.Equal(t, fourPair, route.Metadata.PancakePairAddress)
	assert.Zero(t, r.CallsTo("getPair"), "helper pair is authoritative")
}

func TestFourMigratedFallsBackToFactory(t *testing.T) {
	r := chaintest.NewReader()
	scriptFourInfo(r, tokenMgr, chain.WBNB, 10000, 10000, true)
	r.On(chain.FourTokenManagerHelper, "getPancakePair", chain.ZeroAddress)
	scriptPancakeV2(r, fourToken, fourPair, chain.WBNB)

	route, err := newQueries(r).Query(context.Background(), domain.PlatformFour, fourToken)
	require.NoError(t, err)
	assert.True(t, route.ReadyForPancake)
	assert.Equal(t, domain.PancakeV2, route.Metadata.PancakeVersion)
	assert.Equal(t, fourPair, route.Metadata.PancakePairAddress)
}

func TestFourEmptyState(t *testing.T) {
	t.Run("not migrated signals missing state", func(t *testing.T) {
		r := chaintest.NewReader()
		r.On(chain.FourTokenManagerHelper, "getTokenInfo",
			n(0), chain.ZeroAddress, chain.ZeroAddress, n(0), n(0), n(0), n(0), n(0), n(0), n(0), n(0), false)

		_, err := newQueries(r).Query(context.Background(), domain.PlatformFour, fourToken)
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindNoPlatformState))
		assert.Zero(t, pancakeCalls(r))
	})

	t.Run("liquidity flag trusted over empty payload", func(t *testing.T) {
		r := chaintest.NewReader()
		r.On(chain.FourTokenManagerHelper, "getTokenInfo",
			n(0), chain.ZeroAddress, chain.ZeroAddress, n(0), n(0), n(0), n(0), n(0), n(0), n(0), n(0), true)
		scriptPancakeV2(r, fourToken, fourPair, chain.WBNB)

		route, err := newQueries(r).Query(context.Background(), domain.PlatformFour, fourToken)
		require.NoError(t, err)
		assert.True(t, route.ReadyForPancake)
		assert.Equal(t, chain.WBNB, *route.QuoteToken)
	})
}

func TestFourTransientErrorPropagates(t *testing.T) {
	r := chaintest.NewReader()
	r.Fail(chain.FourTokenManagerHelper, "getTokenInfo", context.DeadlineExceeded)

	_, err := newQueries(r).Query(context.Background(), domain.PlatformFour, fourToken)
	require.Error(t, err)
	assert.True(t, domain.IsRetryable(domain.KindOf(err)))

	var re *domain.RouteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, domain.PlatformFour, re.Platform)
}

type flapV6State struct {
	Status                   uint8
	Reserve                  *big.Int
	CirculatingSupply        *big.Int
	DexSupplyThresh          *big.Int
	QuoteTokenAddress        common.Address
	NativeToQuoteSwapEnabled bool
	Pool                     common.Address
}

func TestFlapProbesDownToFirstWorkingReader(t *testing.T) {
	r := chaintest.NewReader()
	r.Fail(chain.FlapPortal, "getTokenV7", errors.New("execution reverted"))
	r.On(chain.FlapPortal, "getTokenV6", flapV6State{
		Status:          1,
		Reserve:         n(3),
		DexSupplyThresh: n(4),
	})

	route, err := newQueries(r).Query(context.Background(), domain.PlatformFlap, flapToken)
	require.NoError(t, err)
	assert.Equal(t, domain.ChannelFlap, route.PreferredChannel)
	assert.Equal(t, 0.75, route.Progress)
	assert.Equal(t, "getTokenV6", route.Metadata.FlapStateReader)
	assert.Equal(t, chain.WBNB, *route.QuoteToken)
	assert.Zero(t, pancakeCalls(r))
}

func TestFlapPoolTrustedDirectly(t *testing.T) {
	r := chaintest.NewReader()
	r.On(chain.FlapPortal, "getTokenV7", flapV6State{
		Status:            flapStatusDEX,
		Reserve:           n(4),
		DexSupplyThresh:   n(4),
		QuoteTokenAddress: chain.USD1,
		Pool:              flapPool,
	})

	route, err := newQueries(r).Query(context.Background(), domain.PlatformFlap, flapToken)
	require.NoError(t, err)
	assert.True(t, route.ReadyForPancake)
	assert.Equal(t, flapPool, route.Metadata.PancakePairAddress)
	assert.Equal(t, chain.USD1, *route.QuoteToken)
	assert.Zero(t, pancakeCalls(r), "portal pool needs no factory lookup")
}

func TestFlapNoStateIsPlatformError(t *testing.T) {
	r := chaintest.NewReader()
	_, err := newQueries(r).Query(context.Background(), domain.PlatformFlap, flapToken)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindPlatform))
	assert.Equal(t, len(chain.FlapStateReaders), r.CallsTo("getTokenV2")+r.CallsTo("getTokenV3")+
		r.CallsTo("getTokenV4")+r.CallsTo("getTokenV5")+r.CallsTo("getTokenV6")+r.CallsTo("getTokenV7"))
}

func TestFlapTransientErrorStopsProbe(t *testing.T) {
	r := chaintest.NewReader()
	r.Fail(chain.FlapPortal, "getTokenV7", context.DeadlineExceeded)
	_, err := newQueries(r).Query(context.Background(), domain.PlatformFlap, flapToken)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindTimeout))
	assert.Zero(t, r.CallsTo("getTokenV6"))
}

type lunaInfo struct {
	Creator          common.Address
	Token            common.Address
	Pair             common.Address
	Name             string
	Ticker           string
	Supply           *big.Int
	Liquidity        *big.Int
	LaunchTime       *big.Int
	TradingOnUniswap bool
}

func TestLunaBondingCurve(t *testing.T) {
	r := chaintest.NewReader()
	r.On(launchpad, "tokenInfo", lunaInfo{
		Creator: tokenMgr, Token: lunaToken, Name: "Luna Cat", Ticker: "LCAT",
		Supply: n(1e9), Liquidity: n(25), LaunchTime: n(1_700_000_000),
	})
	r.On(launchpad, "gradThreshold", n(100))

	route, err := newQueries(r).Query(context.Background(), domain.PlatformLuna, lunaToken)
	require.NoError(t, err)
	assert.Equal(t, 0.25, route.Progress)
	assert.False(t, route.ReadyForPancake)
	assert.Equal(t, "LCAT", route.Metadata.Symbol)
	assert.Zero(t, pancakeCalls(r))
}

func TestLunaRejectsForeignSlot(t *testing.T) {
	r := chaintest.NewReader()
	r.On(launchpad, "tokenInfo", lunaInfo{Creator: tokenMgr, Token: fourToken})

	_, err := newQueries(r).Query(context.Background(), domain.PlatformLuna, lunaToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, errLunaMismatch)
}

func TestLunaGraduated(t *testing.T) {
	r := chaintest.NewReader()
	r.On(launchpad, "tokenInfo", lunaInfo{
		Creator: tokenMgr, Token: lunaToken, Pair: pairForLuna, TradingOnUniswap: true,
	})
	scriptPancakeV2(r, lunaToken, pairForLuna, chain.WBNB)

	route, err := newQueries(r).Query(context.Background(), domain.PlatformLuna, lunaToken)
	require.NoError(t, err)
	assert.True(t, route.ReadyForPancake)
	assert.Equal(t, pairForLuna, route.Metadata.PancakePairAddress)
}

func TestLunaDisabledWithoutLaunchpad(t *testing.T) {
	r := chaintest.NewReader()
	q := NewQueries(r, pancake.NewPairFinder(r, nil, pancake.DefaultFinderConfig()), DefaultAddresses())
	_, err := q.Query(context.Background(), domain.PlatformLuna, lunaToken)
	assert.ErrorIs(t, err, domain.ErrPlatformDisabled)
	assert.Zero(t, r.Calls())
}

func TestDefaultQuery(t *testing.T) {
	r := chaintest.NewReader()
	q := newQueries(r)

	route, err := q.Query(context.Background(), domain.PlatformUnknown, lunaToken)
	require.NoError(t, err)
	assert.False(t, route.ReadyForPancake)
	assert.True(t, route.NeedsFallback())

	other := common.HexToAddress("0x00000000000000000000000000000000000c0ffe")
	scriptPancakeV2(r, other, pairForLuna, chain.USDT)
	route, err = q.Query(context.Background(), domain.PlatformUnknown, other)
	require.NoError(t, err)
	assert.True(t, route.ReadyForPancake)
	assert.Equal(t, chain.USDT, *route.QuoteToken)
	assert.Equal(t, domain.StatusMigrated, route.MigrationStatus())
}

func TestQueriesRejectsUnknownPlatform(t *testing.T) {
	_, err := newQueries(chaintest.NewReader()).For(domain.TokenPlatform("pump"))
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}
