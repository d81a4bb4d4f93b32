package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hxuan190/token-route-engine/internal/chain"
	"github.com/hxuan190/token-route-engine/internal/domain"
	"github.com/hxuan190/token-route-engine/internal/pancake"
)

// Query resolves a route by reading one platform's contracts.
type Query interface {
	Platform() domain.TokenPlatform
	QueryRoute(ctx context.Context, token common.Address) (*domain.RouteFetchResult, error)
}

// PairFinder is the subset of pancake.PairFinder the queries use.
type PairFinder interface {
	FindBestPair(ctx context.Context, token common.Address, opts ...pancake.FindOption) *domain.PairResult
}

type Addresses struct {
	FourHelper    common.Address
	FlapPortal    common.Address
	LunaLaunchpad common.Address
}

func DefaultAddresses() Addresses {
	return Addresses{
		FourHelper: chain.FourTokenManagerHelper,
		FlapPortal: chain.FlapPortal,
	}
}

// Queries holds one query per platform.
type Queries struct {
	four  *FourQuery
	xmode *FourQuery
	flap  *FlapQuery
	luna  *LunaQuery
	def   *DefaultQuery
}

func NewQueries(reader chain.ContractReader, finder PairFinder, addrs Addresses) *Queries {
	return &Queries{
		four:  NewFourQuery(domain.PlatformFour, reader, finder, addrs.FourHelper),
		xmode: NewFourQuery(domain.PlatformXMode, reader, finder, addrs.FourHelper),
		flap:  NewFlapQuery(reader, finder, addrs.FlapPortal),
		luna:  NewLunaQuery(reader, finder, addrs.LunaLaunchpad),
		def:   NewDefaultQuery(finder),
	}
}

func (q *Queries) For(p domain.TokenPlatform) (Query, error) {
	switch p {
	case domain.PlatformFour:
		return q.four, nil
	case domain.PlatformXMode:
		return q.xmode, nil
	case domain.PlatformFlap:
		return q.flap, nil
	case domain.PlatformLuna:
		return q.luna, nil
	case domain.PlatformUnknown:
		return q.def, nil
	default:
		return nil, domain.NewRouteError(domain.KindValidation, fmt.Errorf("unsupported platform %q", p))
	}
}

// Query runs the query registered for platform p.
func (q *Queries) Query(ctx context.Context, p domain.TokenPlatform, token common.Address) (*domain.RouteFetchResult, error) {
	query, err := q.For(p)
	if err != nil {
		return nil, err
	}
	route, err := query.QueryRoute(ctx, token)
	if err != nil {
		var re *domain.RouteError
		if !errors.As(err, &re) {
			re = domain.NewRouteError(domain.KindPlatform, err)
		}
		return nil, re.WithPlatform(p).WithToken(token.Hex())
	}
	return route, nil
}

// migratedRoute builds the route for a token that trades on Pancake.
func migratedRoute(p domain.TokenPlatform, pair *domain.PairResult, meta *domain.RouteMetadata) *domain.RouteFetchResult {
	if meta == nil {
		meta = &domain.RouteMetadata{}
	}
	if pair.PairAddress != nil {
		meta.PancakePairAddress = *pair.PairAddress
	}
	meta.PancakeVersion = pair.Version
	meta.PancakePreferredMode = pair.Version
	return &domain.RouteFetchResult{
		Platform:         p,
		PreferredChannel: domain.ChannelPancake,
		ReadyForPancake:  true,
		Progress:         1,
		QuoteToken:       pair.QuoteToken,
		Metadata:         meta,
	}
}

// pendingPoolRoute is a confirmed migration whose pool could not be found or fails liquidity.
func pendingPoolRoute(p domain.TokenPlatform, quote *common.Address, meta *domain.RouteMetadata, notes string) *domain.RouteFetchResult {
	return &domain.RouteFetchResult{
		Platform:         p,
		PreferredChannel: domain.ChannelPancake,
		ReadyForPancake:  false,
		Progress:         1,
		Migrating:        true,
		QuoteToken:       quote,
		Metadata:         meta,
		Notes:            notes,
	}
}

func addrPtr(a common.Address) *common.Address {
	return &a
}

// quoteOrWBNB maps the zero address, which launch platforms use for native BNB, to WBNB.
func quoteOrWBNB(a common.Address) common.Address {
	if chain.IsZero(a) {
		return chain.WBNB
	}
	return a
}
