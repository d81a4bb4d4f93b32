package chain

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/token-route-engine/internal/domain"
)

type stubCaller struct {
	ret  []byte
	err  error
	last ethereum.CallMsg
}

func (s *stubCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	s.last = msg
	return s.ret, s.err
}

type flapStateV2 struct {
	Status            uint8
	Reserve           *big.Int
	CirculatingSupply *big.Int
	Price             *big.Int
	TokenVersion      uint8
	R                 *big.Int
	DexSupplyThresh   *big.Int
}

func TestEthReaderDecodesReserves(t *testing.T) {
	ret, err := PancakeV2PairABI.Methods["getReserves"].Outputs.Pack(big.NewInt(1000), big.NewInt(2000), uint32(7))
	require.NoError(t, err)

	caller := &stubCaller{ret: ret}
	reader := NewEthReader(caller, 0)
	pair := common.HexToAddress("0x1111111111111111111111111111111111111111")

	out, err := reader.ReadContract(context.Background(), Call{Address: pair, ABI: PancakeV2PairABI, Method: "getReserves"})
	require.NoError(t, err)

	r0, err := Uint256(out, 0)
	require.NoError(t, err)
	r1, err := Uint256(out, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), r0.Uint64())
	assert.Equal(t, uint64(2000), r1.Uint64())
	assert.Equal(t, pair, *caller.last.To)
}

func TestEthReaderDecodesFlapTuple(t *testing.T) {
	state := flapStateV2{
		Status:            1,
		Reserve:           big.NewInt(5),
		CirculatingSupply: big.NewInt(6),
		Price:             big.NewInt(7),
		TokenVersion:      2,
		R:                 big.NewInt(8),
		DexSupplyThresh:   big.NewInt(10),
	}
	ret, err := FlapPortalABI.Methods["getTokenV2"].Outputs.Pack(state)
	require.NoError(t, err)

	reader := NewEthReader(&stubCaller{ret: ret}, 0)
	out, err := reader.ReadContract(context.Background(), Call{
		Address: FlapPortal,
		ABI:     FlapPortalABI,
		Method:  "getTokenV2",
		Args:    []interface{}{common.HexToAddress("0x2222222222222222222222222222222222227777")},
	})
	require.NoError(t, err)

	tuple, err := TupleAt(out, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), tuple.Uint("Reserve").Uint64())
	assert.Equal(t, uint64(10), tuple.Uint("DexSupplyThresh").Uint64())
	assert.False(t, tuple.Has("Pool"))
	assert.True(t, tuple.Uint("TaxRate").IsZero())
}

func TestEthReaderEmptyReturnIsABIMismatch(t *testing.T) {
	reader := NewEthReader(&stubCaller{ret: nil}, 0)
	_, err := reader.ReadContract(context.Background(), Call{
		Address: FlapPortal,
		ABI:     FlapPortalABI,
		Method:  "getTokenV7",
		Args:    []interface{}{common.Address{}},
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindABIMismatch, domain.KindOf(err))
}

func TestEthReaderClassifiesTransportErrors(t *testing.T) {
	reader := NewEthReader(&stubCaller{err: context.DeadlineExceeded}, 0)
	_, err := reader.ReadContract(context.Background(), Call{Address: WBNB, ABI: ERC20ABI, Method: "symbol"})
	require.Error(t, err)
	assert.True(t, domain.IsRetryable(domain.KindOf(err)))
}
