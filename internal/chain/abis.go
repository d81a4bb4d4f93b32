package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Minimal ABI fragments for the contracts the route engine reads.
const (
	pancakeV2FactoryABIJSON = `[
		{"inputs":[{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"}],
		 "name":"getPair","outputs":[{"name":"pair","type":"address"}],"stateMutability":"view","type":"function"}
	]`

	pancakeV2PairABIJSON = `[
		{"inputs":[],"name":"getReserves","outputs":[
			{"name":"reserve0","type":"uint112"},
			{"name":"reserve1","type":"uint112"},
			{"name":"blockTimestampLast","type":"uint32"}],"stateMutability":"view","type":"function"},
		{"inputs":[],"name":"token0","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
		{"inputs":[],"name":"token1","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"}
	]`

	pancakeV3FactoryABIJSON = `[
		{"inputs":[{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"},{"name":"fee","type":"uint24"}],
		 "name":"getPool","outputs":[{"name":"pool","type":"address"}],"stateMutability":"view","type":"function"}
	]`

	pancakeV3PoolABIJSON = `[
		{"inputs":[],"name":"liquidity","outputs":[{"name":"","type":"uint128"}],"stateMutability":"view","type":"function"}
	]`

	erc20ABIJSON = `[
		{"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
		{"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
		{"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"}
	]`

	fourHelperABIJSON = `[
		{"inputs":[{"name":"token","type":"address"}],"name":"getTokenInfo","outputs":[
			{"name":"version","type":"uint256"},
			{"name":"tokenManager","type":"address"},
			{"name":"quote","type":"address"},
			{"name":"lastPrice","type":"uint256"},
			{"name":"tradingFeeRate","type":"uint256"},
			{"name":"minTradingFee","type":"uint256"},
			{"name":"launchTime","type":"uint256"},
			{"name":"offers","type":"uint256"},
			{"name":"maxOffers","type":"uint256"},
			{"name":"funds","type":"uint256"},
			{"name":"maxFunds","type":"uint256"},
			{"name":"liquidityAdded","type":"bool"}],"stateMutability":"view","type":"function"},
		{"inputs":[{"name":"token","type":"address"}],"name":"getPancakePair","outputs":[{"name":"pair","type":"address"}],"stateMutability":"view","type":"function"}
	]`

	lunaLaunchpadABIJSON = `[
		{"inputs":[{"name":"token","type":"address"}],"name":"tokenInfo","outputs":[
			{"components":[
				{"name":"creator","type":"address"},
				{"name":"token","type":"address"},
				{"name":"pair","type":"address"},
				{"name":"name","type":"string"},
				{"name":"ticker","type":"string"},
				{"name":"supply","type":"uint256"},
				{"name":"liquidity","type":"uint256"},
				{"name":"launchTime","type":"uint256"},
				{"name":"tradingOnUniswap","type":"bool"}],
			 "name":"info","type":"tuple"}],"stateMutability":"view","type":"function"},
		{"inputs":[],"name":"gradThreshold","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
	]`
)

// Flap state components grow with every portal upgrade; each version appends to the previous one.
const (
	flapV2Components = `{"name":"status","type":"uint8"},
		{"name":"reserve","type":"uint256"},
		{"name":"circulatingSupply","type":"uint256"},
		{"name":"price","type":"uint256"},
		{"name":"tokenVersion","type":"uint8"},
		{"name":"r","type":"uint256"},
		{"name":"dexSupplyThresh","type":"uint256"}`
	flapV3Components = flapV2Components + `,
		{"name":"quoteTokenAddress","type":"address"},
		{"name":"nativeToQuoteSwapEnabled","type":"bool"}`
	flapV4Components = flapV3Components + `,
		{"name":"extensionID","type":"bytes32"}`
	flapV5Components = flapV4Components + `,
		{"name":"taxRate","type":"uint256"},
		{"name":"pool","type":"address"},
		{"name":"progress","type":"uint256"}`
	flapV6Components = flapV5Components + `,
		{"name":"lpFeeProfile","type":"uint8"}`
	flapV7Components = flapV6Components + `,
		{"name":"dexId","type":"uint8"}`
)

func flapMethod(name, components string) string {
	return `{"inputs":[{"name":"token","type":"address"}],"name":"` + name + `","outputs":[
		{"components":[` + components + `],"name":"state","type":"tuple"}],"stateMutability":"view","type":"function"}`
}

// FlapStateReaders lists the portal getters from newest to oldest.
var FlapStateReaders = []string{"getTokenV7", "getTokenV6", "getTokenV5", "getTokenV4", "getTokenV3", "getTokenV2"}

var flapPortalABIJSON = "[" + strings.Join([]string{
	flapMethod("getTokenV7", flapV7Components),
	flapMethod("getTokenV6", flapV6Components),
	flapMethod("getTokenV5", flapV5Components),
	flapMethod("getTokenV4", flapV4Components),
	flapMethod("getTokenV3", flapV3Components),
	flapMethod("getTokenV2", flapV2Components),
}, ",") + "]"

var (
	PancakeV2FactoryABI = mustParseABI(pancakeV2FactoryABIJSON)
	PancakeV2PairABI    = mustParseABI(pancakeV2PairABIJSON)
	PancakeV3FactoryABI = mustParseABI(pancakeV3FactoryABIJSON)
	PancakeV3PoolABI    = mustParseABI(pancakeV3PoolABIJSON)
	ERC20ABI            = mustParseABI(erc20ABIJSON)
	FourHelperABI       = mustParseABI(fourHelperABIJSON)
	FlapPortalABI       = mustParseABI(flapPortalABIJSON)
	LunaLaunchpadABI    = mustParseABI(lunaLaunchpadABIJSON)
)

func mustParseABI(raw string) *abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return &parsed
}
