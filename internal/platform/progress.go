package platform

import "github.com/holiman/uint256"

// MigratingThreshold is the bonding curve fill at which a token is reported as migrating.
const MigratingThreshold = 0.99

var progressScale = uint256.NewInt(1e18)

// Ratio returns num/den clamped to [0, 1]. The division is done in 1e18 fixed point so a full
// curve yields exactly 1. A zero denominator yields 0.
func Ratio(num, den *uint256.Int) float64 {
	if num == nil || den == nil || den.IsZero() {
		return 0
	}
	if num.Cmp(den) >= 0 {
		return 1
	}
	scaled, overflow := new(uint256.Int).MulDivOverflow(num, progressScale, den)
	if overflow {
		return 1
	}
	return float64(scaled.Uint64()) / 1e18
}

// CurveProgress prefers the funds cap and falls back to the offers cap.
func CurveProgress(funds, maxFunds, offers, maxOffers *uint256.Int) float64 {
	if maxFunds != nil && !maxFunds.IsZero() {
		return Ratio(funds, maxFunds)
	}
	if maxOffers != nil && !maxOffers.IsZero() {
		return Ratio(offers, maxOffers)
	}
	return 0
}
