package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/hxuan190/token-route-engine/internal/domain"
	"github.com/hxuan190/token-route-engine/internal/metrics"
)

var ErrEmptyReturn = errors.New("contract call returned no data")

// Call describes one read-only contract call.
type Call struct {
	Address common.Address
	ABI     *abi.ABI
	Method  string
	Args    []interface{}
}

// ContractReader is the RPC read client consumed by the route engine.
// Errors returned by implementations must be classified (see Classify).
type ContractReader interface {
	ReadContract(ctx context.Context, call Call) ([]interface{}, error)
}

// EthReader reads contracts over eth_call.
type EthReader struct {
	caller  ethereum.ContractCaller
	timeout time.Duration
}

func NewEthReader(caller ethereum.ContractCaller, timeout time.Duration) *EthReader {
	return &EthReader{caller: caller, timeout: timeout}
}

// Dial connects to a JSON-RPC endpoint.
func Dial(ctx context.Context, url string, timeout time.Duration) (*EthReader, *ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rpc %s: %w", url, err)
	}
	return NewEthReader(client, timeout), client, nil
}

func (r *EthReader) ReadContract(ctx context.Context, call Call) ([]interface{}, error) {
	out, err := r.read(ctx, call)
	if err != nil {
		kind := domain.KindOf(err)
		metrics.RPCErrors.WithLabelValues(call.Method, kind.String()).Inc()
		return nil, err
	}
	return out, nil
}

func (r *EthReader) read(ctx context.Context, call Call) ([]interface{}, error) {
	metrics.RPCCalls.WithLabelValues(call.Method).Inc()

	data, err := call.ABI.Pack(call.Method, call.Args...)
	if err != nil {
		return nil, domain.NewRouteError(domain.KindABIMismatch, err).With("method", call.Method)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	to := call.Address
	raw, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, Classify(err)
	}
	// A missing selector on a contract without fallback returns empty data rather than reverting.
	if len(raw) == 0 {
		return nil, domain.NewRouteError(domain.KindABIMismatch, ErrEmptyReturn).
			With("method", call.Method).
			With("address", call.Address.Hex())
	}

	out, err := call.ABI.Unpack(call.Method, raw)
	if err != nil {
		return nil, domain.NewRouteError(domain.KindABIMismatch, err).With("method", call.Method)
	}
	return out, nil
}
