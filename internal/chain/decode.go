package chain

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/hxuan190/token-route-engine/internal/domain"
)

func decodeErr(format string, args ...any) error {
	return domain.NewRouteError(domain.KindABIMismatch, fmt.Errorf(format, args...))
}

func value(out []interface{}, i int) (interface{}, error) {
	if i >= len(out) {
		return nil, decodeErr("output %d missing, got %d values", i, len(out))
	}
	return out[i], nil
}

func Address(out []interface{}, i int) (common.Address, error) {
	v, err := value(out, i)
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := v.(common.Address)
	if !ok {
		return common.Address{}, decodeErr("output %d: want address, got %T", i, v)
	}
	return addr, nil
}

func BigInt(out []interface{}, i int) (*big.Int, error) {
	v, err := value(out, i)
	if err != nil {
		return nil, err
	}
	return toBig(v, i)
}

// Uint256 decodes an unsigned integer output of any width.
func Uint256(out []interface{}, i int) (*uint256.Int, error) {
	b, err := BigInt(out, i)
	if err != nil {
		return nil, err
	}
	u, overflow := uint256.FromBig(b)
	if overflow || b.Sign() < 0 {
		return nil, decodeErr("output %d: %s does not fit uint256", i, b)
	}
	return u, nil
}

func Bool(out []interface{}, i int) (bool, error) {
	v, err := value(out, i)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, decodeErr("output %d: want bool, got %T", i, v)
	}
	return b, nil
}

func String(out []interface{}, i int) (string, error) {
	v, err := value(out, i)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", decodeErr("output %d: want string, got %T", i, v)
	}
	return s, nil
}

func toBig(v interface{}, i int) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return new(big.Int), nil
		}
		return n, nil
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	default:
		return nil, decodeErr("output %d: want integer, got %T", i, v)
	}
}

// Tuple gives named access to a decoded ABI tuple. go-ethereum decodes tuples into anonymous
// structs whose field names are the CamelCased component names.
type Tuple struct {
	v reflect.Value
}

func TupleAt(out []interface{}, i int) (Tuple, error) {
	v, err := value(out, i)
	if err != nil {
		return Tuple{}, err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return Tuple{}, decodeErr("output %d: want tuple, got %T", i, v)
	}
	return Tuple{v: rv}, nil
}

func (t Tuple) field(name string) (interface{}, bool) {
	f := t.v.FieldByName(name)
	if !f.IsValid() || !f.CanInterface() {
		return nil, false
	}
	return f.Interface(), true
}

// Has reports whether the tuple carries a component; older ABI versions lack newer fields.
func (t Tuple) Has(name string) bool {
	_, ok := t.field(name)
	return ok
}

// Uint returns a numeric component, zero when the component is absent.
func (t Tuple) Uint(name string) *uint256.Int {
	v, ok := t.field(name)
	if !ok {
		return new(uint256.Int)
	}
	b, err := toBig(v, 0)
	if err != nil || b.Sign() < 0 {
		return new(uint256.Int)
	}
	u, overflow := uint256.FromBig(b)
	if overflow {
		return new(uint256.Int).SetAllOne()
	}
	return u
}

func (t Tuple) Address(name string) common.Address {
	v, ok := t.field(name)
	if !ok {
		return common.Address{}
	}
	addr, _ := v.(common.Address)
	return addr
}

func (t Tuple) Bool(name string) bool {
	v, ok := t.field(name)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func (t Tuple) String(name string) string {
	v, ok := t.field(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
