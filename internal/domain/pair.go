package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type PancakeVersion string

const (
	PancakeV2 PancakeVersion = "v2"
	PancakeV3 PancakeVersion = "v3"
)

// PancakePairInfo is a discovered pool. Once found it is cached for the life of the process.
type PancakePairInfo struct {
	PairAddress common.Address `json:"pairAddress"`
	QuoteToken  common.Address `json:"quoteToken"`
	Version     PancakeVersion `json:"version"`
	Timestamp   time.Time      `json:"timestamp"`
}

// PairResult is the outcome of a pool discovery.
type PairResult struct {
	HasLiquidity bool            `json:"hasLiquidity"`
	QuoteToken   *common.Address `json:"quoteToken,omitempty"`
	PairAddress  *common.Address `json:"pairAddress,omitempty"`
	Version      PancakeVersion  `json:"version,omitempty"`
}

// NoLiquidity is the swallowed form of every discovery failure.
func NoLiquidity() *PairResult {
	return &PairResult{HasLiquidity: false}
}

// PairResultFromInfo converts a cached pair into a discovery result.
func PairResultFromInfo(info *PancakePairInfo) *PairResult {
	pair, quote := info.PairAddress, info.QuoteToken
	return &PairResult{
		HasLiquidity: true,
		QuoteToken:   &quote,
		PairAddress:  &pair,
		Version:      info.Version,
	}
}

// PoolCandidate is a probed pool before selection. Depth is the quote-side reserve
// (V2 reserve, V3 quote balance) used to rank candidates across quote tokens.
type PoolCandidate struct {
	Pair       common.Address
	QuoteToken common.Address
	Version    PancakeVersion
	Fee        uint32
	Depth      *uint256.Int
	Liquidity  *uint256.Int
}
