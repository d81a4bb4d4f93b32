// Package platform classifies tokens by launch platform and reads each platform's on-chain state.
package platform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hxuan190/token-route-engine/internal/domain"
)

var addressPattern = regexp.MustCompile(`^0x[a-f0-9]{40}$`)

// Detect guesses a token's launch platform from vanity address patterns. The guess is advisory;
// the platform query confirms it on-chain. Malformed input yields PlatformUnknown.
func Detect(address string) domain.TokenPlatform {
	addr := strings.ToLower(strings.TrimSpace(address))
	if !addressPattern.MatchString(addr) {
		return domain.PlatformUnknown
	}

	switch {
	case strings.HasSuffix(addr, "ffff"), strings.HasSuffix(addr, "4444"):
		return domain.PlatformFour
	case strings.HasPrefix(addr, "0x4444"):
		return domain.PlatformXMode
	case strings.HasSuffix(addr, "7777"), strings.HasSuffix(addr, "8888"):
		return domain.PlatformFlap
	default:
		return domain.PlatformUnknown
	}
}

func IsValidAddress(address string) bool {
	return addressPattern.MatchString(strings.ToLower(strings.TrimSpace(address)))
}

// ParseAddress validates a hex token address.
func ParseAddress(address string) (common.Address, error) {
	if !IsValidAddress(address) {
		return common.Address{}, domain.NewRouteError(domain.KindValidation,
			fmt.Errorf("%w: %q", domain.ErrInvalidAddress, address))
	}
	return common.HexToAddress(strings.TrimSpace(address)), nil
}
