package route

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/token-route-engine/internal/adapters/persistence"
	"github.com/hxuan190/token-route-engine/internal/chain"
	"github.com/hxuan190/token-route-engine/internal/config"
	"github.com/hxuan190/token-route-engine/internal/executor"
	"github.com/hxuan190/token-route-engine/internal/pancake"
	"github.com/hxuan190/token-route-engine/internal/platform"
	"github.com/hxuan190/token-route-engine/internal/routecache"
	"github.com/hxuan190/token-route-engine/internal/services"
)

const ROUTE_SERVICE = "route-service"

const warmupTimeout = 2 * time.Minute

// Service runs a RouteQueryService inside the DI container.
type Service struct {
	container.BaseDIInstance
	*RouteQueryService

	logger *services.ServiceLogger
	client *ethclient.Client

	routeConf *config.RouteConfig
	storeConf *config.StoreConfig

	store  pancake.PairStore
	cancel context.CancelFunc
}

func (svc *Service) ID() string {
	return ROUTE_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	svc.logger = services.NewServiceLogger(svc)

	rpcConf := c.GetConfig(config.RPC_CONFIG_KEY).(*config.RPCConfig)
	chainConf := c.GetConfig(config.CHAIN_CONFIG_KEY).(*config.ChainConfig)
	svc.routeConf = c.GetConfig(config.ROUTE_CONFIG_KEY).(*config.RouteConfig)
	svc.storeConf = c.GetConfig(config.STORE_CONFIG_KEY).(*config.StoreConfig)
	if rpcConf == nil || chainConf == nil || svc.routeConf == nil || svc.storeConf == nil {
		return errors.New("invalid route service config")
	}

	reader, client, err := chain.Dial(context.Background(), rpcConf.RPCUrl, rpcConf.Timeout)
	if err != nil {
		return err
	}
	svc.client = client

	svc.RouteQueryService = NewRouteQueryService(reader, OptionsFromConfig(chainConf, svc.routeConf))

	store, err := OpenPairStore(svc.storeConf)
	if err != nil {
		return err
	}
	svc.store = store

	if pinger, ok := store.(interface{ Ping(context.Context) error }); ok {
		pctx, pcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pcancel()
		if err := pinger.Ping(pctx); err != nil {
			svc.logger.Warn().Err(err).Str("backend", svc.storeConf.Backend).Msg("[RouteService] pair store unreachable, pairs will be rediscovered")
		}
	}
	return nil
}

func (svc *Service) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	svc.cancel = cancel

	if svc.store != nil {
		n, err := svc.WarmPairs(ctx, svc.store)
		if err != nil {
			svc.logger.Warn().Err(err).Str("backend", svc.storeConf.Backend).Msg("[RouteService] failed to load persisted pairs")
		} else {
			svc.logger.Info().Int("pairs", n).Str("backend", svc.storeConf.Backend).Msg("[RouteService] loaded persisted pairs")
		}
	}

	if len(svc.routeConf.WarmupTokens) > 0 {
		go func() {
			wctx, wcancel := context.WithTimeout(ctx, warmupTimeout)
			defer wcancel()
			report := svc.Warmup(wctx, svc.routeConf.WarmupTokens)
			for token, reason := range report.Failed {
				svc.logger.ForToken(token).Warn().Str("reason", reason).Msg("[RouteService] warmup failed")
			}
			svc.logger.Info().
				Int("resolved", report.Resolved).
				Int("failed", len(report.Failed)).
				Msg("[RouteService] warmup complete")
		}()
	}

	svc.logger.Info().Msg("[RouteService] started")
	return nil
}

func (svc *Service) Stop() error {
	if svc.cancel != nil {
		svc.cancel()
	}
	if closer, ok := svc.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			svc.logger.Error().Err(err).Msg("[RouteService] failed to close pair store")
		}
	}
	if svc.client != nil {
		svc.client.Close()
	}
	return nil
}

// OptionsFromConfig maps env configuration onto engine options.
func OptionsFromConfig(chainConf *config.ChainConfig, routeConf *config.RouteConfig) Options {
	opts := DefaultOptions()

	opts.Addresses = platform.Addresses{
		FourHelper:    chainConf.FourHelper,
		FlapPortal:    chainConf.FlapPortal,
		LunaLaunchpad: chainConf.LunaLaunchpad,
	}
	opts.Finder.V2Factory = chainConf.PancakeV2Factory
	opts.Finder.V3Factory = chainConf.PancakeV3Factory
	opts.Finder.ExtraQuotes = chainConf.ExtraQuoteTokens
	opts.Finder.Overrides = chainConf.PairOverrides
	opts.Thresholds = pancake.NewThresholds(chainConf.MinStable, chainConf.MinWBNB, chainConf.MinDefault)

	if routeConf != nil {
		opts.Finder.CacheSize = routeConf.PairCacheMaxSize
		opts.Finder.NegativeTTL = routeConf.PairNegativeTTL
		opts.Cache = routecache.Config{TTL: routeConf.CacheTTL, MaxSize: routeConf.CacheMaxSize}
		opts.Executor = executor.Config{MaxAttempts: routeConf.MaxAttempts, RetryBaseDelay: routeConf.RetryBaseDelay}
	}
	return opts
}

// OpenPairStore returns nil when persistence is disabled.
func OpenPairStore(conf *config.StoreConfig) (pancake.PairStore, error) {
	switch conf.Backend {
	case config.StoreBackendBolt:
		store, err := persistence.NewBoltPairStore(conf.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StoreBackendRedis:
		return persistence.NewRedisPairStore(conf.RedisAddr, conf.RedisPassword, conf.RedisDB), nil
	case config.StoreBackendNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown pair store backend %q", conf.Backend)
	}
}
