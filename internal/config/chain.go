package config

import (
	"fmt"
	"strings"

	"github.com/andrew-solarstorm/go-packages/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/token-route-engine/internal/chain"
	"github.com/hxuan190/token-route-engine/internal/domain"
)

type ChainConfig struct {
	FourHelper       ethcommon.Address
	FlapPortal       ethcommon.Address
	LunaLaunchpad    ethcommon.Address
	PancakeV2Factory ethcommon.Address
	PancakeV3Factory ethcommon.Address

	// ExtraQuoteTokens are probed after the built-in quote candidates.
	ExtraQuoteTokens []ethcommon.Address
	// PairOverrides is the static special-case pair table, "token:pair:version" entries.
	PairOverrides map[ethcommon.Address]*domain.PancakePairInfo

	// Liquidity minimums in 18-decimal base units.
	MinStable  *uint256.Int
	MinWBNB    *uint256.Int
	MinDefault *uint256.Int

	errs []error
}

func (c *ChainConfig) Key() string {
	return CHAIN_CONFIG_KEY
}

func (c *ChainConfig) Load() error {
	c.errs = nil
	c.FourHelper = c.address("FOUR_HELPER_ADDRESS", chain.FourTokenManagerHelper.Hex())
	c.FlapPortal = c.address("FLAP_PORTAL_ADDRESS", chain.FlapPortal.Hex())
	c.LunaLaunchpad = c.address("LUNA_LAUNCHPAD_ADDRESS", "")
	c.PancakeV2Factory = c.address("PANCAKE_V2_FACTORY", chain.PancakeV2Factory.Hex())
	c.PancakeV3Factory = c.address("PANCAKE_V3_FACTORY", chain.PancakeV3Factory.Hex())

	c.ExtraQuoteTokens = nil
	for _, raw := range splitList(common.GetEnvOrDefault("EXTRA_QUOTE_TOKENS", "")) {
		if !ethcommon.IsHexAddress(raw) {
			c.errs = append(c.errs, fmt.Errorf("EXTRA_QUOTE_TOKENS: invalid address %q", raw))
			continue
		}
		c.ExtraQuoteTokens = append(c.ExtraQuoteTokens, ethcommon.HexToAddress(raw))
	}

	overrides, err := ParsePairOverrides(common.GetEnvOrDefault("PANCAKE_PAIR_OVERRIDES", ""))
	if err != nil {
		c.errs = append(c.errs, err)
	}
	c.PairOverrides = overrides

	c.MinStable = c.amount("LIQUIDITY_MIN_STABLE", "100")
	c.MinWBNB = c.amount("LIQUIDITY_MIN_WBNB", "0.2")
	c.MinDefault = c.amount("LIQUIDITY_MIN_DEFAULT", "100")
	return nil
}

func (c *ChainConfig) Validate() error {
	if len(c.errs) > 0 {
		return fmt.Errorf("invalid chain config: %v", c.errs)
	}
	if chain.IsZero(c.PancakeV2Factory) || chain.IsZero(c.PancakeV3Factory) {
		return fmt.Errorf("invalid chain config: pancake factories are required")
	}
	return nil
}

func (c *ChainConfig) address(env, def string) ethcommon.Address {
	raw := strings.TrimSpace(common.GetEnvOrDefault(env, def))
	if raw == "" {
		return ethcommon.Address{}
	}
	if !ethcommon.IsHexAddress(raw) {
		c.errs = append(c.errs, fmt.Errorf("%s: invalid address %q", env, raw))
		return ethcommon.Address{}
	}
	return ethcommon.HexToAddress(raw)
}

func (c *ChainConfig) amount(env, def string) *uint256.Int {
	v, err := ParseTokenAmount(common.GetEnvOrDefault(env, def), 18)
	if err != nil {
		c.errs = append(c.errs, fmt.Errorf("%s: %w", env, err))
		return new(uint256.Int)
	}
	return v
}

// ParseTokenAmount converts a human amount such as "0.2" into base units.
func ParseTokenAmount(raw string, decimals int32) (*uint256.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("amount %s is negative", raw)
	}
	units := d.Shift(decimals).Truncate(0)
	v, overflow := uint256.FromBig(units.BigInt())
	if overflow {
		return nil, fmt.Errorf("amount %s overflows uint256", raw)
	}
	return v, nil
}

// ParsePairOverrides reads comma separated "token:pair:version" entries.
func ParsePairOverrides(raw string) (map[ethcommon.Address]*domain.PancakePairInfo, error) {
	out := make(map[ethcommon.Address]*domain.PancakePairInfo)
	for _, entry := range splitList(raw) {
		parts := strings.Split(entry, ":")
		if len(parts) < 2 || len(parts) > 4 {
			return nil, fmt.Errorf("PANCAKE_PAIR_OVERRIDES: malformed entry %q", entry)
		}
		if !ethcommon.IsHexAddress(parts[0]) || !ethcommon.IsHexAddress(parts[1]) {
			return nil, fmt.Errorf("PANCAKE_PAIR_OVERRIDES: invalid address in %q", entry)
		}
		info := &domain.PancakePairInfo{
			PairAddress: ethcommon.HexToAddress(parts[1]),
			QuoteToken:  chain.WBNB,
			Version:     domain.PancakeV2,
		}
		if len(parts) >= 3 && parts[2] != "" {
			switch v := domain.PancakeVersion(strings.ToLower(parts[2])); v {
			case domain.PancakeV2, domain.PancakeV3:
				info.Version = v
			default:
				return nil, fmt.Errorf("PANCAKE_PAIR_OVERRIDES: unknown version in %q", entry)
			}
		}
		if len(parts) == 4 {
			if !ethcommon.IsHexAddress(parts[3]) {
				return nil, fmt.Errorf("PANCAKE_PAIR_OVERRIDES: invalid quote token in %q", entry)
			}
			info.QuoteToken = ethcommon.HexToAddress(parts[3])
		}
		out[ethcommon.HexToAddress(parts[0])] = info
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
