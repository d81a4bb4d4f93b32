package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/token-route-engine/internal/chain"
	"github.com/hxuan190/token-route-engine/internal/domain"
	"github.com/hxuan190/token-route-engine/internal/pancake"
)

// flapStatusDEX is the portal status of a token whose liquidity moved to the DEX.
const flapStatusDEX = 4

var errFlapNoState = errors.New("no flap state reader returned a token state")

type flapState struct {
	Reader                   string
	Status                   uint64
	Reserve                  *uint256.Int
	DexSupplyThresh          *uint256.Int
	QuoteToken               common.Address
	NativeToQuoteSwapEnabled bool
	Pool                     common.Address
}

func (s *flapState) empty() bool {
	return s.Status == 0 && s.Reserve.IsZero()
}

func decodeFlapState(reader string, out []interface{}) (*flapState, error) {
	t, err := chain.TupleAt(out, 0)
	if err != nil {
		return nil, err
	}
	return &flapState{
		Reader:                   reader,
		Status:                   t.Uint("Status").Uint64(),
		Reserve:                  t.Uint("Reserve"),
		DexSupplyThresh:          t.Uint("DexSupplyThresh"),
		QuoteToken:               t.Address("QuoteTokenAddress"),
		NativeToQuoteSwapEnabled: t.Bool("NativeToQuoteSwapEnabled"),
		Pool:                     t.Address("Pool"),
	}, nil
}

// FlapQuery reads the Flap portal. The portal's state getter gained fields with every upgrade,
// so readers are probed from the newest version down.
type FlapQuery struct {
	reader  chain.ContractReader
	finder  PairFinder
	portal  common.Address
	readers []string
}

func NewFlapQuery(reader chain.ContractReader, finder PairFinder, portal common.Address) *FlapQuery {
	return &FlapQuery{reader: reader, finder: finder, portal: portal, readers: chain.FlapStateReaders}
}

func (q *FlapQuery) Platform() domain.TokenPlatform {
	return domain.PlatformFlap
}

func (q *FlapQuery) QueryRoute(ctx context.Context, token common.Address) (*domain.RouteFetchResult, error) {
	if chain.IsZero(q.portal) {
		return nil, domain.NewRouteError(domain.KindPlatform, domain.ErrPlatformDisabled)
	}

	state, err := q.readState(ctx, token)
	if err != nil {
		return nil, err
	}

	quote := quoteOrWBNB(state.QuoteToken)
	meta := &domain.RouteMetadata{
		NativeToQuoteSwapEnabled: state.NativeToQuoteSwapEnabled,
		FlapStateReader:          state.Reader,
	}

	if !chain.IsZero(state.Pool) {
		// The portal names the pool; no factory lookup needed.
		return migratedRoute(domain.PlatformFlap, &domain.PairResult{
			HasLiquidity: true,
			QuoteToken:   addrPtr(quote),
			PairAddress:  addrPtr(state.Pool),
		}, meta), nil
	}

	if state.Status == flapStatusDEX {
		pair := q.finder.FindBestPair(ctx, token, pancake.WithQuoteToken(quote))
		if !pair.HasLiquidity {
			return pendingPoolRoute(domain.PlatformFlap, addrPtr(quote), meta, "listed on dex but no pancake pool with liquidity found"), nil
		}
		return migratedRoute(domain.PlatformFlap, pair, meta), nil
	}

	progress := Ratio(state.Reserve, state.DexSupplyThresh)
	return &domain.RouteFetchResult{
		Platform:         domain.PlatformFlap,
		PreferredChannel: domain.ChannelFlap,
		ReadyForPancake:  false,
		Progress:         progress,
		Migrating:        progress >= MigratingThreshold,
		QuoteToken:       addrPtr(quote),
		Metadata:         meta,
	}, nil
}

// readState returns the first non-empty state. Selector mismatches and reverts from older or
// newer portal versions are skipped; transient RPC failures abort the probe.
func (q *FlapQuery) readState(ctx context.Context, token common.Address) (*flapState, error) {
	var lastErr error
	for _, method := range q.readers {
		out, err := q.reader.ReadContract(ctx, chain.Call{
			Address: q.portal,
			ABI:     chain.FlapPortalABI,
			Method:  method,
			Args:    []interface{}{token},
		})
		if err != nil {
			kind := domain.KindOf(err)
			if domain.IsRetryable(kind) || kind == domain.KindSandbox {
				return nil, err
			}
			log.Debug().Err(err).Str("reader", method).Str("token", token.Hex()).Msg("[FlapQuery] state reader skipped")
			lastErr = err
			continue
		}

		state, err := decodeFlapState(method, out)
		if err != nil {
			lastErr = err
			continue
		}
		if state.empty() {
			continue
		}
		return state, nil
	}

	if lastErr != nil {
		return nil, domain.NewRouteError(domain.KindPlatform, fmt.Errorf("%w: %w", errFlapNoState, lastErr))
	}
	return nil, domain.NewRouteError(domain.KindPlatform, errFlapNoState)
}
