// Command routectl resolves token routes from the command line against a live RPC endpoint.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hxuan190/token-route-engine/internal/chain"
	"github.com/hxuan190/token-route-engine/internal/config"
	"github.com/hxuan190/token-route-engine/internal/domain"
	"github.com/hxuan190/token-route-engine/internal/platform"
	"github.com/hxuan190/token-route-engine/internal/route"
)

var (
	rpcURL  string
	timeout time.Duration
	verbose bool
)

func main() {
	_ = godotenv.Load()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	root := &cobra.Command{
		Use:           "routectl",
		Short:         "Resolve BSC token trading routes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	root.PersistentFlags().StringVar(&rpcURL, "rpc", os.Getenv("RPC_URL"), "BSC JSON-RPC endpoint (default $RPC_URL)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "overall command timeout")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(detectCmd(), routeCmd(), pairCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func detectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <token>...",
		Short: "Classify tokens by address pattern, without any RPC call",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := make(map[string]domain.TokenPlatform, len(args))
			for _, token := range args {
				if _, err := platform.ParseAddress(token); err != nil {
					return err
				}
				out[token] = platform.Detect(token)
			}
			return printJSON(out)
		},
	}
}

func routeCmd() *cobra.Command {
	var forced string
	cmd := &cobra.Command{
		Use:   "route <token>...",
		Short: "Resolve the trading route for one or more tokens",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []route.QueryOption
			if forced != "" {
				p := domain.TokenPlatform(forced)
				if !p.Valid() {
					return fmt.Errorf("unknown platform %q", forced)
				}
				opts = append(opts, route.WithPlatform(p))
			}

			svc, closeFn, err := newService()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			out := make(map[string]any, len(args))
			for _, token := range args {
				res, err := svc.QueryRoute(ctx, token, opts...)
				if err != nil {
					out[token] = map[string]string{"error": err.Error()}
					continue
				}
				out[token] = res
			}
			return printJSON(out)
		},
	}
	cmd.Flags().StringVar(&forced, "platform", "", "skip detection and query this platform first")
	return cmd
}

func pairCmd() *cobra.Command {
	var quote string
	cmd := &cobra.Command{
		Use:   "pair <token>",
		Short: "Find the best liquid PancakeSwap pair for a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newService()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			res, err := svc.FindPair(ctx, args[0], quote)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	cmd.Flags().StringVar(&quote, "quote", "", "only consider pairs against this quote token")
	return cmd
}

func newService() (*route.RouteQueryService, func(), error) {
	if rpcURL == "" {
		return nil, nil, fmt.Errorf("--rpc or RPC_URL is required")
	}

	rpcConf := &config.RPCConfig{}
	chainConf := &config.ChainConfig{}
	routeConf := &config.RouteConfig{}
	for _, c := range []interface{ Load() error }{rpcConf, chainConf, routeConf} {
		if err := c.Load(); err != nil {
			return nil, nil, err
		}
	}
	if err := chainConf.Validate(); err != nil {
		return nil, nil, err
	}
	if err := routeConf.Validate(); err != nil {
		return nil, nil, err
	}

	reader, client, err := chain.Dial(context.Background(), rpcURL, rpcConf.Timeout)
	if err != nil {
		return nil, nil, err
	}
	svc := route.NewRouteQueryService(reader, route.OptionsFromConfig(chainConf, routeConf))
	return svc, client.Close, nil
}

func printJSON(v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
