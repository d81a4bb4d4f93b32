package chain

import "github.com/ethereum/go-ethereum/common"

// BSC mainnet contracts and quote tokens.
var (
	WBNB  = common.HexToAddress("0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c")
	BUSD  = common.HexToAddress("0xe9e7CEA3DedcA5984780Bafc599bD69ADd087D56")
	USDT  = common.HexToAddress("0x55d398326f99059fF775485246999027B3197955")
	USDC  = common.HexToAddress("0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d")
	USD1  = common.HexToAddress("0x8d0D000Ee44948FC98c9B98A4FA4921476f08B0d")
	ASTER = common.HexToAddress("0x000Ae314E2A2172a039B26378814C252734f556A")

	PancakeV2Factory = common.HexToAddress("0xcA143Ce32Fe78f1f7019d7d551a6402fC5350c73")
	PancakeV3Factory = common.HexToAddress("0x0BFbCF9fa4f9C56B0F40a671Ad40E0805A091865")

	FourTokenManagerHelper = common.HexToAddress("0xF251F83e40a78868FcfA3FA4599Dad6494E46034")
	FlapPortal             = common.HexToAddress("0xe2cE6ab80874Fa9Fa2aAE65D277Dd6B8e65C9De0")

	ZeroAddress = common.Address{}
)

// PancakeV3FeeTiers are the fee tiers probed for every V3 pool lookup.
var PancakeV3FeeTiers = []uint32{100, 250, 500, 2500, 10000}

// Stablecoins are the quote tokens that use the stablecoin liquidity threshold.
var Stablecoins = []common.Address{BUSD, USDT, USDC, USD1}

// FourBridgeTokens are the non-WBNB quotes four.meme launches against. They are probed first when
// a migrated four token's quote is unknown.
var FourBridgeTokens = []common.Address{USD1, ASTER}

// DefaultQuoteCandidates is the global candidate list used when no quote token is known.
var DefaultQuoteCandidates = []common.Address{WBNB, BUSD, USDT, ASTER, USD1}

func IsZero(addr common.Address) bool {
	return addr == ZeroAddress
}
