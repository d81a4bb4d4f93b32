package pancake

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/hxuan190/token-route-engine/internal/chain"
)

var (
	// 18-decimal base units
	DefaultStableMin  = new(uint256.Int).Mul(uint256.NewInt(100), uint256.NewInt(1e18))
	DefaultWBNBMin    = uint256.NewInt(2e17)
	DefaultGenericMin = new(uint256.Int).Mul(uint256.NewInt(100), uint256.NewInt(1e18))

	// MinV3Liquidity is the pool liquidity() floor, roughly two $100 reserves in sqrt space.
	MinV3Liquidity = uint256.NewInt(1e10)
)

// Thresholds maps quote tokens to the minimum quote-side reserve a pool must hold.
type Thresholds struct {
	mu       sync.RWMutex
	byToken  map[common.Address]*uint256.Int
	fallback *uint256.Int
}

func NewThresholds(stableMin, wbnbMin, defaultMin *uint256.Int) *Thresholds {
	t := &Thresholds{
		byToken:  make(map[common.Address]*uint256.Int, len(chain.Stablecoins)+1),
		fallback: defaultMin.Clone(),
	}
	for _, stable := range chain.Stablecoins {
		t.byToken[stable] = stableMin.Clone()
	}
	t.byToken[chain.WBNB] = wbnbMin.Clone()
	return t
}

func DefaultThresholds() *Thresholds {
	return NewThresholds(DefaultStableMin, DefaultWBNBMin, DefaultGenericMin)
}

// Set overrides the minimum for one quote token.
func (t *Thresholds) Set(quote common.Address, min *uint256.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byToken[quote] = min.Clone()
}

// For returns the minimum reserve for quote. The returned value must not be mutated.
func (t *Thresholds) For(quote common.Address) *uint256.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if min, ok := t.byToken[quote]; ok {
		return min
	}
	return t.fallback
}

// Score scales a reserve by its quote token's threshold so depths in different quote tokens
// compare on one axis: 1e18 means exactly at the threshold.
func (t *Thresholds) Score(quote common.Address, depth *uint256.Int) *uint256.Int {
	if depth == nil {
		return new(uint256.Int)
	}
	min := t.For(quote)
	if min.IsZero() {
		return depth.Clone()
	}
	score, overflow := new(uint256.Int).MulDivOverflow(depth, uint256.NewInt(1e18), min)
	if overflow {
		return new(uint256.Int).SetAllOne()
	}
	return score
}
