// Package chaintest provides a scripted ContractReader for tests.
package chaintest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hxuan190/token-route-engine/internal/chain"
	"github.com/hxuan190/token-route-engine/internal/domain"
)

// ErrUnscripted is returned (as a revert) for calls with no scripted response.
var ErrUnscripted = errors.New("execution reverted: unscripted call")

type response struct {
	out []interface{}
	err error
}

// Reader answers ReadContract from responses registered per (address, method[, args]).
// Argument-specific responses win over method-wide ones.
type Reader struct {
	mu        sync.Mutex
	responses map[string]response
	calls     []chain.Call

	// FailAll, when set, is returned for every call.
	FailAll error
}

func NewReader() *Reader {
	return &Reader{responses: make(map[string]response)}
}

func methodKey(addr common.Address, method string) string {
	return strings.ToLower(addr.Hex()) + "." + method
}

func argsKey(addr common.Address, method string, args []interface{}) string {
	return methodKey(addr, method) + fmt.Sprint(args)
}

// On scripts every call to method on addr.
func (r *Reader) On(addr common.Address, method string, out ...interface{}) *Reader {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[methodKey(addr, method)] = response{out: out}
	return r
}

// OnArgs scripts calls to method on addr made with exactly args.
func (r *Reader) OnArgs(addr common.Address, method string, args []interface{}, out ...interface{}) *Reader {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[argsKey(addr, method, args)] = response{out: out}
	return r
}

// Fail scripts an error for every call to method on addr. Raw errors are classified like the real reader.
func (r *Reader) Fail(addr common.Address, method string, err error) *Reader {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[methodKey(addr, method)] = response{err: err}
	return r
}

func (r *Reader) ReadContract(ctx context.Context, call chain.Call) ([]interface{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)

	if err := ctx.Err(); err != nil {
		return nil, chain.Classify(err)
	}
	if r.FailAll != nil {
		return nil, chain.Classify(r.FailAll)
	}
	resp, ok := r.responses[argsKey(call.Address, call.Method, call.Args)]
	if !ok {
		resp, ok = r.responses[methodKey(call.Address, call.Method)]
	}
	if !ok {
		return nil, domain.NewRouteError(domain.KindRevert, ErrUnscripted).With("method", call.Method)
	}
	if resp.err != nil {
		return nil, chain.Classify(resp.err)
	}
	return resp.out, nil
}

// Calls returns the number of calls made so far.
func (r *Reader) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// CallsTo counts calls to method on any address.
func (r *Reader) CallsTo(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls, keeping scripted responses.
func (r *Reader) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
