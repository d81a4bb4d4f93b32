package pancake

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hxuan190/token-route-engine/internal/chain"
)

// LiquidityChecker decides whether a pool holds enough quote-side liquidity to trade against.
// Every read failure counts as insufficient liquidity.
type LiquidityChecker struct {
	reader     chain.ContractReader
	thresholds *Thresholds
	minV3      *uint256.Int
}

func NewLiquidityChecker(reader chain.ContractReader, thresholds *Thresholds) *LiquidityChecker {
	if thresholds == nil {
		thresholds = DefaultThresholds()
	}
	return &LiquidityChecker{
		reader:     reader,
		thresholds: thresholds,
		minV3:      MinV3Liquidity,
	}
}

func (l *LiquidityChecker) Thresholds() *Thresholds {
	return l.thresholds
}

// CheckV2PairLiquidity reports whether the quote token's reserve in pair clears its threshold.
func (l *LiquidityChecker) CheckV2PairLiquidity(ctx context.Context, pair, quote common.Address) bool {
	_, ok := l.v2Depth(ctx, pair, quote)
	return ok
}

// CheckV3PoolLiquidity reports whether pool's in-range liquidity clears the fixed V3 minimum.
func (l *LiquidityChecker) CheckV3PoolLiquidity(ctx context.Context, pool common.Address) bool {
	_, ok := l.v3Liquidity(ctx, pool)
	return ok
}

// v2Depth returns the quote-side reserve and whether it clears the threshold.
func (l *LiquidityChecker) v2Depth(ctx context.Context, pair, quote common.Address) (*uint256.Int, bool) {
	var (
		reserves       []interface{}
		token0, token1 common.Address
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := l.reader.ReadContract(gctx, chain.Call{Address: pair, ABI: chain.PancakeV2PairABI, Method: "getReserves"})
		reserves = out
		return err
	})
	g.Go(func() error {
		out, err := l.reader.ReadContract(gctx, chain.Call{Address: pair, ABI: chain.PancakeV2PairABI, Method: "token0"})
		if err != nil {
			return err
		}
		token0, err = chain.Address(out, 0)
		return err
	})
	g.Go(func() error {
		out, err := l.reader.ReadContract(gctx, chain.Call{Address: pair, ABI: chain.PancakeV2PairABI, Method: "token1"})
		if err != nil {
			return err
		}
		token1, err = chain.Address(out, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Debug().Err(err).Str("pair", pair.Hex()).Msg("[LiquidityChecker] v2 read failed")
		return nil, false
	}

	var idx int
	switch quote {
	case token0:
		idx = 0
	case token1:
		idx = 1
	default:
		log.Debug().Str("pair", pair.Hex()).Str("quote", quote.Hex()).Msg("[LiquidityChecker] quote token not in pair")
		return nil, false
	}

	reserve, err := chain.Uint256(reserves, idx)
	if err != nil {
		return nil, false
	}
	return reserve, reserve.Cmp(l.thresholds.For(quote)) >= 0
}

func (l *LiquidityChecker) v3Liquidity(ctx context.Context, pool common.Address) (*uint256.Int, bool) {
	out, err := l.reader.ReadContract(ctx, chain.Call{Address: pool, ABI: chain.PancakeV3PoolABI, Method: "liquidity"})
	if err != nil {
		log.Debug().Err(err).Str("pool", pool.Hex()).Msg("[LiquidityChecker] v3 liquidity read failed")
		return nil, false
	}
	liq, err := chain.Uint256(out, 0)
	if err != nil {
		return nil, false
	}
	return liq, liq.Cmp(l.minV3) >= 0
}

// quoteBalance is the quote token held by a V3 pool, used only to rank V3 pools against V2 pairs.
func (l *LiquidityChecker) quoteBalance(ctx context.Context, pool, quote common.Address) *uint256.Int {
	out, err := l.reader.ReadContract(ctx, chain.Call{Address: quote, ABI: chain.ERC20ABI, Method: "balanceOf", Args: []interface{}{pool}})
	if err != nil {
		return new(uint256.Int)
	}
	bal, err := chain.Uint256(out, 0)
	if err != nil {
		return new(uint256.Int)
	}
	return bal
}
