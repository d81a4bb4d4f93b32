package chain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"

	"github.com/hxuan190/token-route-engine/internal/domain"
)

type codedError struct {
	code int
	msg  string
}

func (e codedError) Error() string  { return e.msg }
func (e codedError) ErrorCode() int { return e.code }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.ErrorKind
	}{
		{"context deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), domain.KindTimeout},
		{"http 429", rpc.HTTPError{StatusCode: 429, Status: "429 Too Many Requests"}, domain.KindRateLimit},
		{"http 502", rpc.HTTPError{StatusCode: 502, Status: "502 Bad Gateway"}, domain.KindNetwork},
		{"revert code", codedError{code: 3, msg: "execution reverted: not launched"}, domain.KindRevert},
		{"limit exceeded code", codedError{code: -32005, msg: "limit exceeded"}, domain.KindRateLimit},
		{"sandbox", errors.New("TypeError: import() is disallowed on ServiceWorkerGlobalScope"), domain.KindSandbox},
		{"selector", errors.New("function selector was not recognized and there's no fallback function"), domain.KindABIMismatch},
		{"plain revert text", errors.New("execution reverted"), domain.KindRevert},
		{"rate limit text", errors.New("rate limit reached, retry later"), domain.KindRateLimit},
		{"timeout text", errors.New("request timeout after 10000ms"), domain.KindTimeout},
		{"network text", errors.New("dial tcp 1.2.3.4:443: connect: connection refused"), domain.KindNetwork},
		{"unknown", errors.New("something odd"), domain.KindPlatform},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.KindOf(Classify(tt.err)))
		})
	}
}

func TestClassifyKeepsExistingKind(t *testing.T) {
	orig := domain.NewRouteError(domain.KindSandbox, errors.New("timeout inside sandbox"))
	assert.Same(t, orig, Classify(orig))
	assert.Nil(t, Classify(nil))
}
