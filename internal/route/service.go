// Package route is the single entry point for resolving a token's trading route.
package route

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/token-route-engine/internal/chain"
	"github.com/hxuan190/token-route-engine/internal/domain"
	"github.com/hxuan190/token-route-engine/internal/executor"
	"github.com/hxuan190/token-route-engine/internal/pancake"
	"github.com/hxuan190/token-route-engine/internal/platform"
	"github.com/hxuan190/token-route-engine/internal/routecache"
)

type Options struct {
	Addresses  platform.Addresses
	Finder     pancake.FinderConfig
	Thresholds *pancake.Thresholds
	Cache      routecache.Config
	Executor   executor.Config
}

func DefaultOptions() Options {
	return Options{
		Addresses:  platform.DefaultAddresses(),
		Finder:     pancake.DefaultFinderConfig(),
		Thresholds: pancake.DefaultThresholds(),
		Cache:      routecache.DefaultConfig(),
		Executor:   executor.DefaultConfig(),
	}
}

// RouteQueryService answers route queries from the cache, resolving and caching misses.
// Concurrent queries for the same uncached token each resolve independently.
type RouteQueryService struct {
	finder   *pancake.PairFinder
	cache    *routecache.Manager
	executor *executor.QueryExecutor
}

func NewRouteQueryService(reader chain.ContractReader, opts Options) *RouteQueryService {
	if opts.Thresholds == nil {
		opts.Thresholds = pancake.DefaultThresholds()
	}
	checker := pancake.NewLiquidityChecker(reader, opts.Thresholds)
	finder := pancake.NewPairFinder(reader, checker, opts.Finder)
	queries := platform.NewQueries(reader, finder, opts.Addresses)

	return &RouteQueryService{
		finder:   finder,
		cache:    routecache.New(opts.Cache),
		executor: executor.New(queries, opts.Executor),
	}
}

type queryOptions struct {
	platform domain.TokenPlatform
}

type QueryOption func(*queryOptions)

// WithPlatform overrides the detected platform as the first one probed.
func WithPlatform(p domain.TokenPlatform) QueryOption {
	return func(o *queryOptions) {
		if p.Valid() {
			o.platform = p
		}
	}
}

// QueryRoute resolves the trading route for token. A fresh cached route is returned without
// any RPC reads.
func (s *RouteQueryService) QueryRoute(ctx context.Context, token string, opts ...QueryOption) (*domain.RouteFetchResult, error) {
	addr, err := platform.ParseAddress(token)
	if err != nil {
		return nil, err
	}
	key := routecache.Key(token)

	if cached, ok := s.cache.Lookup(key); ok {
		log.Debug().Str("token", key).Msg("[RouteQueryService] cache hit")
		return cached, nil
	}

	var o queryOptions
	for _, opt := range opts {
		opt(&o)
	}
	initial := o.platform
	if initial == "" {
		initial = platform.Detect(key)
	}

	route, err := s.executor.ExecuteWithFallback(ctx, addr, initial)
	if err != nil {
		return nil, err
	}

	if s.cache.Store(key, route) {
		log.Debug().
			Str("token", key).
			Str("platform", route.Platform.String()).
			Str("status", string(route.MigrationStatus())).
			Msg("[RouteQueryService] cached route")
	}
	return route, nil
}

func (s *RouteQueryService) DetectPlatform(token string) domain.TokenPlatform {
	return platform.Detect(token)
}

// FindPair looks up the best pancake pool for token, optionally against one quote token.
func (s *RouteQueryService) FindPair(ctx context.Context, token string, quote string) (*domain.PairResult, error) {
	addr, err := platform.ParseAddress(token)
	if err != nil {
		return nil, err
	}
	var opts []pancake.FindOption
	if strings.TrimSpace(quote) != "" {
		q, err := platform.ParseAddress(quote)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pancake.WithQuoteToken(q))
	}
	return s.finder.FindBestPair(ctx, addr, opts...), nil
}

type WarmupReport struct {
	Resolved int               `json:"resolved"`
	Failed   map[string]string `json:"failed,omitempty"`
}

// Warmup resolves tokens one after another so their routes are cached.
func (s *RouteQueryService) Warmup(ctx context.Context, tokens []string) WarmupReport {
	report := WarmupReport{Failed: make(map[string]string)}
	for _, token := range tokens {
		if ctx.Err() != nil {
			report.Failed[token] = ctx.Err().Error()
			continue
		}
		if _, err := s.QueryRoute(ctx, token); err != nil {
			report.Failed[token] = err.Error()
			continue
		}
		report.Resolved++
	}
	return report
}

// WarmPairs loads persisted pancake pairs into the pair cache.
func (s *RouteQueryService) WarmPairs(ctx context.Context, store pancake.PairStore) (int, error) {
	s.finder.SetStore(store)
	return s.finder.Warm(ctx)
}

// ClearRoute drops one cached route, or all of them when token is empty.
func (s *RouteQueryService) ClearRoute(token string) bool {
	if strings.TrimSpace(token) == "" {
		s.cache.ClearAll()
		return true
	}
	return s.cache.ClearRoute(token)
}

func (s *RouteQueryService) ClearAll() {
	s.cache.ClearAll()
}

func (s *RouteQueryService) ClearPairs() {
	s.finder.Clear()
}

type Stats struct {
	Routes routecache.Stats       `json:"routes"`
	Pairs  pancake.PairCacheStats `json:"pairs"`
}

func (s *RouteQueryService) Stats() Stats {
	return Stats{
		Routes: s.cache.Stats(),
		Pairs:  s.finder.Stats(),
	}
}

// CachedPair exposes the pair cache for diagnostics.
func (s *RouteQueryService) CachedPair(token common.Address) (*domain.PancakePairInfo, bool) {
	return s.finder.Cached(token)
}
