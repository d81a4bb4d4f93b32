package platform

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hxuan190/token-route-engine/internal/domain"
)

// DefaultQuery handles tokens with no launch platform state: the only venue is a Pancake pool,
// found by searching every candidate quote token.
type DefaultQuery struct {
	finder PairFinder
}

func NewDefaultQuery(finder PairFinder) *DefaultQuery {
	return &DefaultQuery{finder: finder}
}

func (q *DefaultQuery) Platform() domain.TokenPlatform {
	return domain.PlatformUnknown
}

func (q *DefaultQuery) QueryRoute(ctx context.Context, token common.Address) (*domain.RouteFetchResult, error) {
	pair := q.finder.FindBestPair(ctx, token)
	if pair.HasLiquidity {
		return migratedRoute(domain.PlatformUnknown, pair, nil), nil
	}
	return &domain.RouteFetchResult{
		Platform:         domain.PlatformUnknown,
		PreferredChannel: domain.ChannelPancake,
		ReadyForPancake:  false,
		Progress:         0,
		Notes:            "no pancake pool with liquidity found",
	}, nil
}
