package platform

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hxuan190/token-route-engine/internal/chain"
	"github.com/hxuan190/token-route-engine/internal/domain"
	"github.com/hxuan190/token-route-engine/internal/pancake"
)

var errFourNoState = errors.New("token manager helper returned an empty token info")

// fourTokenInfo mirrors the helper's getTokenInfo outputs.
type fourTokenInfo struct {
	Version        *uint256.Int
	TokenManager   common.Address
	Quote          common.Address
	LastPrice      *uint256.Int
	LaunchTime     *uint256.Int
	Offers         *uint256.Int
	MaxOffers      *uint256.Int
	Funds          *uint256.Int
	MaxFunds       *uint256.Int
	LiquidityAdded bool
}

// empty reports a zeroed slot: the helper returns one for tokens it never launched.
func (i *fourTokenInfo) empty() bool {
	return chain.IsZero(i.TokenManager) &&
		i.Version.IsZero() &&
		i.LaunchTime.IsZero() &&
		i.Offers.IsZero() && i.MaxOffers.IsZero() &&
		i.Funds.IsZero() && i.MaxFunds.IsZero()
}

func decodeFourTokenInfo(out []interface{}) (*fourTokenInfo, error) {
	var (
		info fourTokenInfo
		err  error
	)
	uints := []struct {
		idx int
		dst **uint256.Int
	}{
		{0, &info.Version}, {3, &info.LastPrice}, {6, &info.LaunchTime},
		{7, &info.Offers}, {8, &info.MaxOffers}, {9, &info.Funds}, {10, &info.MaxFunds},
	}
	for _, u := range uints {
		if *u.dst, err = chain.Uint256(out, u.idx); err != nil {
			return nil, err
		}
	}
	if info.TokenManager, err = chain.Address(out, 1); err != nil {
		return nil, err
	}
	if info.Quote, err = chain.Address(out, 2); err != nil {
		return nil, err
	}
	if info.LiquidityAdded, err = chain.Bool(out, 11); err != nil {
		return nil, err
	}
	return &info, nil
}

// FourQuery reads the four.meme token manager helper. XMode tokens live on the same helper and
// differ only in the channel they trade on.
type FourQuery struct {
	platform domain.TokenPlatform
	reader   chain.ContractReader
	finder   PairFinder
	helper   common.Address
}

func NewFourQuery(platform domain.TokenPlatform, reader chain.ContractReader, finder PairFinder, helper common.Address) *FourQuery {
	return &FourQuery{platform: platform, reader: reader, finder: finder, helper: helper}
}

func (q *FourQuery) Platform() domain.TokenPlatform {
	return q.platform
}

func (q *FourQuery) QueryRoute(ctx context.Context, token common.Address) (*domain.RouteFetchResult, error) {
	if chain.IsZero(q.helper) {
		return nil, domain.NewRouteError(domain.KindPlatform, domain.ErrPlatformDisabled)
	}

	var (
		raw    []interface{}
		symbol string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := q.reader.ReadContract(gctx, chain.Call{
			Address: q.helper,
			ABI:     chain.FourHelperABI,
			Method:  "getTokenInfo",
			Args:    []interface{}{token},
		})
		raw = out
		return err
	})
	g.Go(func() error {
		symbol = readSymbol(gctx, q.reader, token)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	info, err := decodeFourTokenInfo(raw)
	if err != nil {
		return nil, err
	}
	meta := &domain.RouteMetadata{Symbol: symbol}

	if info.empty() {
		if !info.LiquidityAdded {
			return nil, domain.NewRouteError(domain.KindNoPlatformState, errFourNoState)
		}
		// The flag outlives the payload once liquidity moved out; trust it.
		pair := q.finder.FindBestPair(ctx, token, pancake.WithBridgeTokens(chain.FourBridgeTokens...))
		if !pair.HasLiquidity {
			return pendingPoolRoute(q.platform, nil, meta, "migrated but no pancake pool with liquidity found"), nil
		}
		return migratedRoute(q.platform, pair, meta), nil
	}

	quote := quoteOrWBNB(info.Quote)
	meta.LaunchTime = info.LaunchTime.Uint64()

	if info.LiquidityAdded {
		return q.migrated(ctx, token, quote, meta), nil
	}

	progress := CurveProgress(info.Funds, info.MaxFunds, info.Offers, info.MaxOffers)
	return &domain.RouteFetchResult{
		Platform:         q.platform,
		PreferredChannel: domain.LaunchChannel(q.platform),
		ReadyForPancake:  false,
		Progress:         progress,
		Migrating:        progress >= MigratingThreshold,
		QuoteToken:       addrPtr(quote),
		Metadata:         meta,
	}, nil
}

// migrated resolves the pool through the helper's own pair getter, then through the factories.
func (q *FourQuery) migrated(ctx context.Context, token, quote common.Address, meta *domain.RouteMetadata) *domain.RouteFetchResult {
	out, err := q.reader.ReadContract(ctx, chain.Call{
		Address: q.helper,
		ABI:     chain.FourHelperABI,
		Method:  "getPancakePair",
		Args:    []interface{}{token},
	})
	if err == nil {
		if pair, derr := chain.Address(out, 0); derr == nil && !chain.IsZero(pair) {
			return migratedRoute(q.platform, &domain.PairResult{
				HasLiquidity: true,
				QuoteToken:   addrPtr(quote),
				PairAddress:  addrPtr(pair),
				Version:      domain.PancakeV2,
			}, meta)
		}
	} else {
		log.Debug().Err(err).Str("token", token.Hex()).Msg("[FourQuery] getPancakePair failed, using factory discovery")
	}

	pair := q.finder.FindBestPair(ctx, token, pancake.WithQuoteToken(quote))
	if !pair.HasLiquidity {
		return pendingPoolRoute(q.platform, addrPtr(quote), meta, "liquidity added but no pancake pool with liquidity found")
	}
	return migratedRoute(q.platform, pair, meta)
}

// readSymbol is best effort; a token without symbol() still routes.
func readSymbol(ctx context.Context, reader chain.ContractReader, token common.Address) string {
	out, err := reader.ReadContract(ctx, chain.Call{Address: token, ABI: chain.ERC20ABI, Method: "symbol"})
	if err != nil {
		return ""
	}
	s, _ := chain.String(out, 0)
	return s
}
