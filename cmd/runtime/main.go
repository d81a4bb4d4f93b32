package main

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/token-route-engine/internal/common"
	"github.com/hxuan190/token-route-engine/internal/config"
	"github.com/hxuan190/token-route-engine/internal/http"
	"github.com/hxuan190/token-route-engine/internal/route"
)

// @title Token Route Engine API
// @version 1.0
// @description Resolves where a BSC token currently trades: on its launch platform bonding curve or on PancakeSwap.
// @description
// @description ## - Features
// @description - **Platform Detection**: Four.meme, XMode and Flap tokens are recognised from their vanity address
// @description - **Migration Tracking**: Bonding curve progress and migration state read directly from launch contracts
// @description - **Pancake Pair Discovery**: V2 pairs and V3 pools across WBNB, USDT, BUSD, USDC and configured quote tokens
// @description - **Liquidity Gating**: Pairs below the per-quote reserve minimum are never returned
// @description - **Route Caching**: Migrated routes are cached permanently, everything else for a short TTL
// @description
// @description ## - API Status
// @description - **Network**: BNB Smart Chain
// @description - **Rate Limit**: 10 requests/second (burst: 20)
// @description
// @BasePath /
// @schemes https http
// @tag.name route
// @tag.description Resolve the trading channel for a token
// @tag.name pair
// @tag.description Find the best PancakeSwap pair for a token
// @tag.name cache
// @tag.description Inspect and clear route and pair caches

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded, using process environment")
	}

	general := &config.GeneralConfig{}
	if err := general.Load(); err != nil {
		log.Error().Err(err).Msg("failed to load general config")
		return
	}
	setLogLevel(general.LogLevel)

	common.InitRuntime()

	// di container config
	conf := container.NewConf(
		general,
		&config.RPCConfig{},
		&config.RouteConfig{},
		&config.ChainConfig{},
		&config.StoreConfig{},
	)

	// di container
	dic, err := container.New(
		// config
		conf,

		// services
		&route.Service{},
		&http.HTTPService{},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create di container")
		return
	}

	// Run blocks until SIGINT/SIGTERM
	if err := dic.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run di container")
		return
	}

	log.Info().Msg("Shutting down services...")
	if err := dic.Stop(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("Shutdown complete")
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
