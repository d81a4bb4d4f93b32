package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// MigrationStatus drives the route cache policy.
type MigrationStatus string

const (
	StatusMigrated    MigrationStatus = "migrated"
	StatusNotMigrated MigrationStatus = "not_migrated"
)

// RouteMetadata carries optional platform and pool details alongside a route.
type RouteMetadata struct {
	Symbol                   string         `json:"symbol,omitempty"`
	Name                     string         `json:"name,omitempty"`
	PancakePairAddress       common.Address `json:"pancakePairAddress,omitempty"`
	PancakeVersion           PancakeVersion `json:"pancakeVersion,omitempty"`
	PancakePreferredMode     PancakeVersion `json:"pancakePreferredMode,omitempty"`
	NativeToQuoteSwapEnabled bool           `json:"nativeToQuoteSwapEnabled,omitempty"`
	FlapStateReader          string         `json:"flapStateReader,omitempty"`
	LaunchTime               uint64         `json:"launchTime,omitempty"`
}

// RouteFetchResult is the routing decision for one token.
//
// PreferredChannel == pancake with ReadyForPancake == false is only produced as a best-effort
// default after every launch-platform probe failed; it is not a confirmed migration.
type RouteFetchResult struct {
	Platform         TokenPlatform   `json:"platform"`
	PreferredChannel TradingChannel  `json:"preferredChannel"`
	ReadyForPancake  bool            `json:"readyForPancake"`
	Progress         float64         `json:"progress"`
	Migrating        bool            `json:"migrating"`
	QuoteToken       *common.Address `json:"quoteToken,omitempty"`
	Metadata         *RouteMetadata  `json:"metadata,omitempty"`
	Notes            string          `json:"notes,omitempty"`

	// Synthesized marks the last-resort default built without any successful read.
	Synthesized bool `json:"synthesized,omitempty"`
}

// NeedsFallback reports whether the executor should keep probing other platforms.
func (r *RouteFetchResult) NeedsFallback() bool {
	return r.PreferredChannel == ChannelPancake && !r.ReadyForPancake
}

// MigrationStatus classifies the route for caching. Synthesized defaults never count as migrated.
func (r *RouteFetchResult) MigrationStatus() MigrationStatus {
	if r.ReadyForPancake && r.PreferredChannel == ChannelPancake && !r.Synthesized {
		return StatusMigrated
	}
	return StatusNotMigrated
}

// DefaultRoute is the last-resort answer when nothing could be read.
func DefaultRoute() *RouteFetchResult {
	return &RouteFetchResult{
		Platform:         PlatformUnknown,
		PreferredChannel: ChannelPancake,
		ReadyForPancake:  true,
		Progress:         1,
		Notes:            "no platform could be resolved, defaulting to pancake",
		Synthesized:      true,
	}
}

// RouteCacheEntry is one cached resolution.
type RouteCacheEntry struct {
	Route           *RouteFetchResult `json:"route"`
	Timestamp       time.Time         `json:"timestamp"`
	MigrationStatus MigrationStatus   `json:"migrationStatus"`
}
