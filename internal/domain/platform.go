package domain

// TokenPlatform is the launch contract that governs a token before migration.
type TokenPlatform string

const (
	PlatformFour    TokenPlatform = "four"
	PlatformXMode   TokenPlatform = "xmode"
	PlatformFlap    TokenPlatform = "flap"
	PlatformLuna    TokenPlatform = "luna"
	PlatformUnknown TokenPlatform = "unknown"
)

// AllPlatforms lists every platform in fallback probe order.
var AllPlatforms = []TokenPlatform{PlatformFour, PlatformXMode, PlatformFlap, PlatformLuna, PlatformUnknown}

func (p TokenPlatform) String() string {
	return string(p)
}

func (p TokenPlatform) Valid() bool {
	switch p {
	case PlatformFour, PlatformXMode, PlatformFlap, PlatformLuna, PlatformUnknown:
		return true
	default:
		return false
	}
}

// ParsePlatform maps a user supplied tag to a platform. Unrecognised tags are reported with ok=false.
func ParsePlatform(s string) (TokenPlatform, bool) {
	p := TokenPlatform(s)
	return p, p.Valid()
}

// TradingChannel is the venue a trade should be sent to right now.
type TradingChannel string

const (
	ChannelPancake TradingChannel = "pancake"
	ChannelFour    TradingChannel = "four"
	ChannelXMode   TradingChannel = "xmode"
	ChannelFlap    TradingChannel = "flap"
)

func (c TradingChannel) String() string {
	return string(c)
}

// LaunchChannel returns the launch-contract channel used for a platform before it migrates.
// Luna and unknown tokens have no dedicated launch channel and trade on Pancake.
func LaunchChannel(p TokenPlatform) TradingChannel {
	switch p {
	case PlatformFour:
		return ChannelFour
	case PlatformXMode:
		return ChannelXMode
	case PlatformFlap:
		return ChannelFlap
	default:
		return ChannelPancake
	}
}
