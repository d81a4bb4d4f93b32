package platform

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/token-route-engine/internal/domain"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    domain.TokenPlatform
	}{
		{"four ffff suffix", "0x1234567890abcdef1234567890abcdef1234ffff", domain.PlatformFour},
		{"four 4444 suffix", "0x1234567890abcdef1234567890abcdef12344444", domain.PlatformFour},
		{"four wins over xmode prefix", "0x4444567890abcdef1234567890abcdef12344444", domain.PlatformFour},
		{"xmode prefix", "0x4444567890abcdef1234567890abcdef12340000", domain.PlatformXMode},
		{"flap 7777", "0x1234567890abcdef1234567890abcdef12347777", domain.PlatformFlap},
		{"flap 8888", "0x1234567890abcdef1234567890abcdef12348888", domain.PlatformFlap},
		{"upper case hex", "0x1234567890ABCDEF1234567890ABCDEF1234FFFF", domain.PlatformFour},
		{"plain token", "0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c", domain.PlatformUnknown},
		{"empty", "", domain.PlatformUnknown},
		{"too short", "0x1234ffff", domain.PlatformUnknown},
		{"missing prefix", "1234567890abcdef1234567890abcdef1234ffffff", domain.PlatformUnknown},
		{"non hex", "0x1234567890abcdef1234567890abcdef1234fffg", domain.PlatformUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.address)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Detect(tt.address), "detection is deterministic")
		})
	}
}

func TestParseAddress(t *testing.T) {
	_, err := ParseAddress("0xnothex")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)

	addr, err := ParseAddress(" 0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c ")
	require.NoError(t, err)
	assert.Equal(t, "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c", addr.Hex())
}

func TestRatioBounds(t *testing.T) {
	u := uint256.NewInt
	tests := []struct {
		name     string
		num, den *uint256.Int
		want     float64
	}{
		{"zero denominator", u(5), u(0), 0},
		{"half", u(5000), u(10000), 0.5},
		{"full is exactly one", u(10000), u(10000), 1},
		{"over cap clamps", u(20000), u(10000), 1},
		{"nil", nil, u(1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Ratio(tt.num, tt.den))
		})
	}

	near := Ratio(u(999_999), u(1_000_000))
	assert.Less(t, near, 1.0)
	assert.GreaterOrEqual(t, near, MigratingThreshold)
}

func TestCurveProgressPrefersFunds(t *testing.T) {
	u := uint256.NewInt
	assert.Equal(t, 0.25, CurveProgress(u(1), u(4), u(1), u(2)))
	assert.Equal(t, 0.5, CurveProgress(u(0), u(0), u(1), u(2)))
	assert.Equal(t, 0.0, CurveProgress(u(0), u(0), u(0), u(0)))
}
