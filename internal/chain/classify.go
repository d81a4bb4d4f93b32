package chain

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/hxuan190/token-route-engine/internal/domain"
)

// JSON-RPC codes returned by geth-compatible nodes.
const (
	rpcCodeExecutionReverted = 3
	rpcCodeServerError       = -32000
	rpcCodeLimitExceeded     = -32005
)

// messageKinds is the substring compatibility shim for RPC clients that only surface free-form text.
// Evaluated in order; the first match wins.
var messageKinds = []struct {
	needle string
	kind   domain.ErrorKind
}{
	{"import() is disallowed", domain.KindSandbox},
	{"dynamic import", domain.KindSandbox},
	{"function selector", domain.KindABIMismatch},
	{"selector was not recognized", domain.KindABIMismatch},
	{"abi: ", domain.KindABIMismatch},
	{"execution reverted", domain.KindRevert},
	{"revert", domain.KindRevert},
	{"rate limit", domain.KindRateLimit},
	{"too many requests", domain.KindRateLimit},
	{"429", domain.KindRateLimit},
	{"timeout", domain.KindTimeout},
	{"timed out", domain.KindTimeout},
	{"deadline exceeded", domain.KindTimeout},
	{"connection refused", domain.KindNetwork},
	{"connection reset", domain.KindNetwork},
	{"no such host", domain.KindNetwork},
	{"fetch failed", domain.KindNetwork},
	{"network", domain.KindNetwork},
	{"eof", domain.KindNetwork},
}

// Classify converts a raw RPC client error into a *domain.RouteError. Errors that already carry
// a kind are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var re *domain.RouteError
	if errors.As(err, &re) {
		return err
	}
	return domain.NewRouteError(classifyKind(err), err)
}

func classifyKind(err error) domain.ErrorKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.KindTimeout
	case errors.Is(err, context.Canceled):
		return domain.KindNetwork
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return domain.KindTimeout
		}
		return domain.KindNetwork
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == http.StatusTooManyRequests:
			return domain.KindRateLimit
		case httpErr.StatusCode == http.StatusGatewayTimeout || httpErr.StatusCode == http.StatusRequestTimeout:
			return domain.KindTimeout
		case httpErr.StatusCode >= http.StatusInternalServerError:
			return domain.KindNetwork
		}
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.ErrorCode() {
		case rpcCodeExecutionReverted:
			return domain.KindRevert
		case rpcCodeLimitExceeded:
			return domain.KindRateLimit
		case rpcCodeServerError:
			if strings.Contains(strings.ToLower(rpcErr.Error()), "revert") {
				return domain.KindRevert
			}
		}
	}

	msg := strings.ToLower(err.Error())
	for _, mk := range messageKinds {
		if strings.Contains(msg, mk.needle) {
			return mk.kind
		}
	}
	return domain.KindPlatform
}
