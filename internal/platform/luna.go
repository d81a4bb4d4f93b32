package platform

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"golang.org/x/sync/errgroup"

	"github.com/hxuan190/token-route-engine/internal/chain"
	"github.com/hxuan190/token-route-engine/internal/domain"
)

var (
	errLunaEmpty    = errors.New("launchpad returned an empty token info")
	errLunaMismatch = errors.New("launchpad token info belongs to a different token")
)

// LunaQuery reads the Luna launchpad. Luna has no vanity address pattern and no launch channel
// of its own, so it is only reached by fallback or explicit override.
type LunaQuery struct {
	reader    chain.ContractReader
	finder    PairFinder
	launchpad common.Address
}

func NewLunaQuery(reader chain.ContractReader, finder PairFinder, launchpad common.Address) *LunaQuery {
	return &LunaQuery{reader: reader, finder: finder, launchpad: launchpad}
}

func (q *LunaQuery) Platform() domain.TokenPlatform {
	return domain.PlatformLuna
}

func (q *LunaQuery) QueryRoute(ctx context.Context, token common.Address) (*domain.RouteFetchResult, error) {
	if chain.IsZero(q.launchpad) {
		return nil, domain.NewRouteError(domain.KindPlatform, domain.ErrPlatformDisabled)
	}

	var (
		raw       []interface{}
		threshold = new(uint256.Int)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := q.reader.ReadContract(gctx, chain.Call{
			Address: q.launchpad,
			ABI:     chain.LunaLaunchpadABI,
			Method:  "tokenInfo",
			Args:    []interface{}{token},
		})
		raw = out
		return err
	})
	g.Go(func() error {
		out, err := q.reader.ReadContract(gctx, chain.Call{Address: q.launchpad, ABI: chain.LunaLaunchpadABI, Method: "gradThreshold"})
		if err != nil {
			return nil
		}
		if v, derr := chain.Uint256(out, 0); derr == nil {
			threshold = v
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	info, err := chain.TupleAt(raw, 0)
	if err != nil {
		return nil, err
	}
	infoToken := info.Address("Token")
	if chain.IsZero(infoToken) && chain.IsZero(info.Address("Creator")) {
		return nil, domain.NewRouteError(domain.KindNoPlatformState, errLunaEmpty)
	}
	if infoToken != token {
		return nil, domain.NewRouteError(domain.KindPlatform, errLunaMismatch).With("got", infoToken.Hex())
	}

	meta := &domain.RouteMetadata{
		Symbol:     info.String("Ticker"),
		Name:       info.String("Name"),
		LaunchTime: info.Uint("LaunchTime").Uint64(),
	}
	lunaPair := info.Address("Pair")

	if !chain.IsZero(lunaPair) && info.Bool("TradingOnUniswap") {
		pair := q.finder.FindBestPair(ctx, token)
		if !pair.HasLiquidity {
			meta.PancakePairAddress = lunaPair
			return pendingPoolRoute(domain.PlatformLuna, nil, meta, "graduated but no pancake pool with liquidity found"), nil
		}
		return migratedRoute(domain.PlatformLuna, pair, meta), nil
	}

	progress := Ratio(info.Uint("Liquidity"), threshold)
	return &domain.RouteFetchResult{
		Platform:         domain.PlatformLuna,
		PreferredChannel: domain.LaunchChannel(domain.PlatformLuna),
		ReadyForPancake:  false,
		Progress:         progress,
		Migrating:        progress >= MigratingThreshold,
		Metadata:         meta,
		Notes:            "bonding curve active, no launch channel available",
	}, nil
}
