// Package executor resolves a route by probing launch platforms in fallback order.
package executor

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/token-route-engine/internal/domain"
	"github.com/hxuan190/token-route-engine/internal/metrics"
)

const (
	DefaultMaxAttempts    = 2
	DefaultRetryBaseDelay = 200 * time.Millisecond
)

// PlatformQuerier runs one platform's query.
type PlatformQuerier interface {
	Query(ctx context.Context, p domain.TokenPlatform, token common.Address) (*domain.RouteFetchResult, error)
}

type Config struct {
	MaxAttempts    int
	RetryBaseDelay time.Duration
}

func DefaultConfig() Config {
	return Config{MaxAttempts: DefaultMaxAttempts, RetryBaseDelay: DefaultRetryBaseDelay}
}

// QueryExecutor walks the probe order, retrying transient failures, until a platform yields a
// route that needs no further fallback.
type QueryExecutor struct {
	queries PlatformQuerier
	cfg     Config

	sleep func(ctx context.Context, d time.Duration) error
}

func New(queries PlatformQuerier, cfg Config) *QueryExecutor {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &QueryExecutor{queries: queries, cfg: cfg, sleep: sleepCtx}
}

// ProbeOrder returns the platforms tried for a token whose initial guess is initial. It always
// ends with PlatformUnknown.
func ProbeOrder(initial domain.TokenPlatform) []domain.TokenPlatform {
	if initial == domain.PlatformUnknown || !initial.Valid() {
		return []domain.TokenPlatform{domain.PlatformUnknown}
	}
	order := make([]domain.TokenPlatform, 0, len(domain.AllPlatforms)+1)
	seen := make(map[domain.TokenPlatform]struct{}, len(domain.AllPlatforms))
	for _, p := range append([]domain.TokenPlatform{initial}, domain.AllPlatforms...) {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		order = append(order, p)
	}
	return order
}

// ExecuteWithFallback returns the first route that needs no fallback. If none does, it returns the
// last successful route, else the last error, else a synthesized default.
func (e *QueryExecutor) ExecuteWithFallback(ctx context.Context, token common.Address, initial domain.TokenPlatform) (*domain.RouteFetchResult, error) {
	start := time.Now()
	defer func() {
		metrics.ResolveDuration.Observe(time.Since(start).Seconds())
	}()

	var (
		lastValid *domain.RouteFetchResult
		lastErr   error
	)

	order := ProbeOrder(initial)
	for i := 0; i < len(order); i++ {
		p := order[i]
		route, err := e.queryWithRetry(ctx, p, token)
		if err != nil {
			lastErr = err
			kind := domain.KindOf(err)
			log.Debug().Err(err).Str("platform", p.String()).Str("token", token.Hex()).Msg("[QueryExecutor] platform query failed")

			if ctx.Err() != nil {
				break
			}
			if (kind == domain.KindSandbox || kind == domain.KindNoPlatformState) && p != domain.PlatformUnknown {
				log.Warn().Str("kind", kind.String()).Str("token", token.Hex()).Msg("[QueryExecutor] launch platforms unavailable, querying unknown directly")
				order = []domain.TokenPlatform{domain.PlatformUnknown}
				i = -1
			}
			continue
		}

		lastValid = route
		if !route.NeedsFallback() {
			metrics.FallbackOutcomes.WithLabelValues("resolved").Inc()
			return route, nil
		}
	}

	switch {
	case lastValid != nil:
		metrics.FallbackOutcomes.WithLabelValues("last_valid").Inc()
		return lastValid, nil
	case lastErr != nil:
		metrics.FallbackOutcomes.WithLabelValues("error").Inc()
		log.Error().Err(lastErr).Str("token", token.Hex()).Msg("[QueryExecutor] every platform failed")
		return nil, lastErr
	default:
		metrics.FallbackOutcomes.WithLabelValues("default").Inc()
		return domain.DefaultRoute(), nil
	}
}

func (e *QueryExecutor) queryWithRetry(ctx context.Context, p domain.TokenPlatform, token common.Address) (*domain.RouteFetchResult, error) {
	start := time.Now()
	defer func() {
		metrics.PlatformQueryDuration.WithLabelValues(p.String()).Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	for attempt := 0; attempt < e.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := e.cfg.RetryBaseDelay << (attempt - 1)
			if err := e.sleep(ctx, delay); err != nil {
				break
			}
		}

		route, err := e.queries.Query(ctx, p, token)
		if err == nil {
			metrics.PlatformQueries.WithLabelValues(p.String(), "ok").Inc()
			return route, nil
		}
		lastErr = err

		kind := domain.KindOf(err)
		if !domain.IsRetryable(kind) {
			metrics.PlatformQueries.WithLabelValues(p.String(), kind.String()).Inc()
			return nil, err
		}
		log.Debug().Err(err).Str("platform", p.String()).Int("attempt", attempt+1).Msg("[QueryExecutor] retryable failure")
	}

	metrics.PlatformQueries.WithLabelValues(p.String(), "retries_exhausted").Inc()
	if lastErr == nil {
		lastErr = domain.NewRouteError(domain.KindNetwork, ctx.Err())
	}
	return nil, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
