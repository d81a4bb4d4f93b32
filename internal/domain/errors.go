package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorKind classifies a routing failure. Behaviour keys off the kind, never the message.
type ErrorKind uint8

const (
	KindPlatform ErrorKind = iota
	KindSandbox
	KindInsufficientLiquidity
	KindNetwork
	KindTimeout
	KindRateLimit
	KindRevert
	KindABIMismatch
	KindNoPlatformState
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindPlatform:
		return "platform"
	case KindSandbox:
		return "sandbox"
	case KindInsufficientLiquidity:
		return "insufficient_liquidity"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindRateLimit:
		return "rate_limit"
	case KindRevert:
		return "revert"
	case KindABIMismatch:
		return "abi_mismatch"
	case KindNoPlatformState:
		return "no_platform_state"
	case KindValidation:
		return "validation"
	default:
		return "UNKNOWN"
	}
}

// IsRetryable is the single retry predicate: only transport-shaped failures are retried.
func IsRetryable(kind ErrorKind) bool {
	switch kind {
	case KindNetwork, KindTimeout, KindRateLimit:
		return true
	default:
		return false
	}
}

var (
	ErrInvalidAddress   = errors.New("invalid token address")
	ErrNoRouteResolved  = errors.New("no route could be resolved")
	ErrPlatformDisabled = errors.New("platform contract not configured")
)

// RouteError is the one error type used across the engine.
type RouteError struct {
	Kind     ErrorKind
	Platform TokenPlatform
	Token    string
	Context  map[string]any
	Err      error
}

func NewRouteError(kind ErrorKind, err error) *RouteError {
	return &RouteError{Kind: kind, Err: err}
}

func (e *RouteError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Platform != "" {
		b.WriteString(" [")
		b.WriteString(string(e.Platform))
		b.WriteString("]")
	}
	if e.Token != "" {
		b.WriteString(" token=")
		b.WriteString(e.Token)
	}
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, e.Context[k])
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *RouteError) Unwrap() error {
	return e.Err
}

func (e *RouteError) WithPlatform(p TokenPlatform) *RouteError {
	e.Platform = p
	return e
}

func (e *RouteError) WithToken(token string) *RouteError {
	e.Token = token
	return e
}

func (e *RouteError) With(key string, value any) *RouteError {
	if e.Context == nil {
		e.Context = make(map[string]any, 2)
	}
	e.Context[key] = value
	return e
}

// KindOf extracts the kind of err. Errors that never passed through the classifier are platform errors.
func KindOf(err error) ErrorKind {
	var re *RouteError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindPlatform
}

// IsKind reports whether err carries kind.
func IsKind(err error, kind ErrorKind) bool {
	var re *RouteError
	return errors.As(err, &re) && re.Kind == kind
}
