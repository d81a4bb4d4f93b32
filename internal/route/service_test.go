package route

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/token-route-engine/internal/chain"
	"github.com/hxuan190/token-route-engine/internal/chain/chaintest"
	"github.com/hxuan190/token-route-engine/internal/config"
	"github.com/hxuan190/token-route-engine/internal/domain"
	"github.com/hxuan190/token-route-engine/internal/executor"
)

const fourToken = "0x1234567890abcdef1234567890abcdef1234ffff"

var (
	fourAddr = common.HexToAddress(fourToken)
	tokenMgr = common.HexToAddress("0x5c952063c7fc8610FFDB798152D69F0B9550762b")
	pairAddr = common.HexToAddress("0x00000000000000000000000000000000000000f2")
)

func n(v int64) *big.Int { return big.NewInt(v) }

func scriptFour(r *chaintest.Reader, offers int64, liquidityAdded bool) {
	r.On(chain.FourTokenManagerHelper, "getTokenInfo",
		n(1), tokenMgr, chain.WBNB, n(10), n(100), n(0), n(1_700_000_000),
		n(offers), n(10000), n(0), n(0), liquidityAdded)
}

func newService(r *chaintest.Reader) *RouteQueryService {
	opts := DefaultOptions()
	opts.Executor = executor.Config{MaxAttempts: 2, RetryBaseDelay: time.Millisecond}
	return NewRouteQueryService(r, opts)
}

func TestQueryRouteRejectsMalformedAddress(t *testing.T) {
	r := chaintest.NewReader()
	_, err := newService(r).QueryRoute(context.Background(), "0xnot-an-address")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	assert.Zero(t, r.Calls())
}

func TestMigratedRouteServedFromCacheWithoutRPC(t *testing.T) {
	r := chaintest.NewReader()
	scriptFour(r, 10000, true)
	r.On(chain.FourTokenManagerHelper, "getPancakePair", pairAddr)
	svc := newService(r)

	route, err := svc.QueryRoute(context.Background(), fourToken)
	require.NoError(t, err)
	require.True(t, route.ReadyForPancake)
	assert.Equal(t, domain.ChannelPancake, route.PreferredChannel)
	assert.Equal(t, 1.0, route.Progress)

	r.Reset()
	for i := 0; i < 3; i++ {
		again, err := svc.QueryRoute(context.Background(), "0x1234567890ABCDEF1234567890ABCDEF1234FFFF")
		require.NoError(t, err)
		assert.Same(t, route, again)
	}
	assert.Zero(t, r.Calls(), "migrated routes never re-read the chain")
	assert.Equal(t, 1, svc.Stats().Routes.Migrated)
}

func TestNotMigratedRouteIsReverifiedAfterTTL(t *testing.T) {
	r := chaintest.NewReader()
	scriptFour(r, 5000, false)
	opts := DefaultOptions()
	opts.Cache.TTL = 20 * time.Millisecond
	svc := NewRouteQueryService(r, opts)

	route, err := svc.QueryRoute(context.Background(), fourToken)
	require.NoError(t, err)
	assert.Equal(t, 0.5, route.Progress)
	assert.Equal(t, domain.ChannelFour, route.PreferredChannel)

	r.Reset()
	_, err = svc.QueryRoute(context.Background(), fourToken)
	require.NoError(t, err)
	assert.Zero(t, r.Calls(), "fresh entry served from cache")

	time.Sleep(30 * time.Millisecond)
	scriptFour(r, 8000, false)
	route, err = svc.QueryRoute(context.Background(), fourToken)
	require.NoError(t, err)
	assert.NotZero(t, r.Calls())
	assert.Equal(t, 0.8, route.Progress)
}

func TestPlatformOverride(t *testing.T) {
	r := chaintest.NewReader()
	svc := newService(r)
	plain := "0x00000000000000000000000000000000000c0ffe"

	_, _ = svc.QueryRoute(context.Background(), plain, WithPlatform(domain.PlatformFlap))
	assert.NotZero(t, r.CallsTo("getTokenV7"), "override probes flap first")

	r.Reset()
	svc.ClearAll()
	_, _ = svc.QueryRoute(context.Background(), plain)
	assert.Zero(t, r.CallsTo("getTokenV7"), "unknown tokens only probe pancake")
}

func TestSandboxEverywhereStillReturnsRoute(t *testing.T) {
	r := chaintest.NewReader()
	r.FailAll = errors.New("import() is disallowed on ServiceWorkerGlobalScope")

	route, err := newService(r).QueryRoute(context.Background(), fourToken)
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformUnknown, route.Platform)
	assert.Equal(t, domain.ChannelPancake, route.PreferredChannel)
}

func TestWarmupAndClear(t *testing.T) {
	r := chaintest.NewReader()
	scriptFour(r, 1000, false)
	svc := newService(r)

	report := svc.Warmup(context.Background(), []string{fourToken, "bogus"})
	assert.Equal(t, 1, report.Resolved)
	assert.Contains(t, report.Failed, "bogus")
	assert.Equal(t, 1, svc.Stats().Routes.Size)

	assert.True(t, svc.ClearRoute(fourToken))
	assert.Zero(t, svc.Stats().Routes.Size)
	assert.True(t, svc.ClearRoute(""))
}

func TestFindPair(t *testing.T) {
	r := chaintest.NewReader()
	r.OnArgs(chain.PancakeV2Factory, "getPair", []interface{}{fourAddr, chain.WBNB}, pairAddr)
	r.On(pairAddr, "token0", chain.WBNB)
	r.On(pairAddr, "token1", fourAddr)
	r.On(pairAddr, "getReserves", new(big.Int).Mul(n(5), n(1e18)), n(1e18), uint32(0))
	svc := newService(r)

	res, err := svc.FindPair(context.Background(), fourToken, chain.WBNB.Hex())
	require.NoError(t, err)
	require.True(t, res.HasLiquidity)
	assert.Equal(t, pairAddr, *res.PairAddress)

	_, err = svc.FindPair(context.Background(), fourToken, "0x12")
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	svc.ClearPairs()
	_, ok := svc.CachedPair(fourAddr)
	assert.False(t, ok)
}

func TestOptionsFromConfig(t *testing.T) {
	chainConf := &config.ChainConfig{}
	require.NoError(t, chainConf.Load())
	routeConf := &config.RouteConfig{}
	require.NoError(t, routeConf.Load())

	opts := OptionsFromConfig(chainConf, routeConf)
	assert.Equal(t, chain.FlapPortal, opts.Addresses.FlapPortal)
	assert.Equal(t, 2, opts.Executor.MaxAttempts)
	assert.Equal(t, 5*time.Second, opts.Cache.TTL)

	store, err := OpenPairStore(&config.StoreConfig{Backend: config.StoreBackendNone})
	require.NoError(t, err)
	assert.Nil(t, store)
}
