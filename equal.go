package jsondelta

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
)

// numberEpsilon is the absolute tolerance applied when comparing numbers that
// are not both integers. It absorbs binary rounding of one decimal value, so
// 0.1+0.2 equals 0.3; integers are always compared exactly.
const numberEpsilon = 1e-9

// bigPrecision is the mantissa size used when a comparison has to leave
// float64, e.g. for json.Number literals.
const bigPrecision = 256

var bigEpsilon = big.NewFloat(numberEpsilon)

// Kind is the closed set of JSON value kinds the differ understands
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON name of the kind, e.g. "object".
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// KindOf classifies a decoded JSON value. It accepts the types produced by
// encoding/json and friends plus every Go integer and float width.
func KindOf(v any) (Kind, error) {
	switch v.(type) {
	case nil:
		return KindNull, nil
	case bool:
		return KindBool, nil
	case string:
		return KindString, nil
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return KindNumber, nil
	case []any:
		return KindArray, nil
	case map[string]any:
		return KindObject, nil
	default:
		return KindInvalid, fmt.Errorf("unsupported value type %T", v)
	}
}

// Equal reports whether two decoded JSON values are structurally equal.
// Integers compare exactly and other numbers within a tiny absolute tolerance,
// so 30 and 30.0 are equal while 2000000000 and 2000000001 are not. Arrays
// compare element by element and objects irrespective of key order.
func Equal(a, b any) bool {
	ka, errA := KindOf(a)
	kb, errB := KindOf(b)
	if errA != nil || errB != nil {
		return reflect.DeepEqual(a, b)
	}
	if ka != kb {
		return false
	}

	switch ka {
	case KindNull:
		return true
	case KindBool:
		return a.(bool) == b.(bool)
	case KindString:
		return a.(string) == b.(string)
	case KindNumber:
		return numbersEqual(a, b)
	case KindArray:
		x, y := a.([]any), b.([]any)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case KindObject:
		x, y := a.(map[string]any), b.(map[string]any)
		if len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	}
	return false
}

// numbersEqual compares two numeric values. Integers (including integral
// floats and integer literals) compare exactly; anything else compares within
// numberEpsilon.
func numbersEqual(a, b any) bool {
	if na, ok := a.(json.Number); ok {
		if nb, ok := b.(json.Number); ok && na == nb {
			return true
		}
	}
	if x, ok := exactInt(a); ok {
		if y, ok := exactInt(b); ok {
			return x == y
		}
	}
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			return x == y || math.Abs(x-y) <= numberEpsilon
		}
	}

	x, okA := toBig(a)
	y, okB := toBig(b)
	if !okA || !okB {
		return false
	}
	if x.IsInf() || y.IsInf() {
		return x.Cmp(y) == 0
	}
	d := new(big.Float).SetPrec(bigPrecision).Sub(x, y)
	return d.Abs(d).Cmp(bigEpsilon) <= 0
}

// exactInt returns v as an int64 when v holds an integer that fits one.
func exactInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint:
		return int64(n), uint64(n) <= math.MaxInt64
	case uint64:
		return int64(n), n <= math.MaxInt64
	case float64:
		return floatInt(n)
	case float32:
		return floatInt(float64(n))
	case json.Number:
		i, err := strconv.ParseInt(string(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}

func floatInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || math.Abs(f) >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

func toBig(v any) (*big.Float, bool) {
	f := new(big.Float).SetPrec(bigPrecision)
	switch n := v.(type) {
	case json.Number:
		if _, ok := f.SetString(string(n)); !ok {
			return nil, false
		}
		return f, true
	case uint:
		return f.SetUint64(uint64(n)), true
	case uint64:
		return f.SetUint64(n), true
	case float64:
		if math.IsNaN(n) {
			return nil, false
		}
		return f.SetFloat64(n), true
	case float32:
		if math.IsNaN(float64(n)) {
			return nil, false
		}
		return f.SetFloat64(float64(n)), true
	}
	if i, ok := exactInt(v); ok {
		return f.SetInt64(i), true
	}
	return nil, false
}
