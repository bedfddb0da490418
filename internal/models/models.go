package models

import (
	"math"
	"math/big"
	"strconv"
)

// JSONValue is a node of a parsed JSON document.
// The set of implementations is closed: Null, Bool, Integer, Float,
// BigInteger, String, Array, Object and Unusable.
type JSONValue interface {
	jsonValue()
}

// Null is the JSON literal null.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Integer is an integral JSON number that fits in an int64.
type Integer int64

// Float is a JSON number with a fractional part or exponent.
type Float float64

// BigInteger is an integral JSON number too large for an int64.
type BigInteger struct {
	Value *big.Int
}

// String is a JSON string.
type String string

// Array is an ordered JSON array.
type Array []JSONValue

// Member is a single key/value entry of an Object.
type Member struct {
	Key   string
	Value JSONValue
}

// Object is a JSON object. Members keep the order in which they appeared in
// the source document.
type Object []Member

// UnusableKind tells why a value cannot be represented as a type.
type UnusableKind int

const (
	UnusableUndefined UnusableKind = iota
	UnusableSymbol
	UnusableFunction
)

// Unusable is a value no JSON text can produce. It only shows up in trees
// built by hand, e.g. from a host that allows functions in documents.
type Unusable struct {
	Kind UnusableKind
}

func (Null) jsonValue()       {}
func (Bool) jsonValue()       {}
func (Integer) jsonValue()    {}
func (Float) jsonValue()      {}
func (BigInteger) jsonValue() {}
func (String) jsonValue()     {}
func (Array) jsonValue()      {}
func (Object) jsonValue()     {}
func (Unusable) jsonValue()   {}

// Get returns the value of the first member with the given key.
func (o Object) Get(key string) (JSONValue, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Keys returns the member keys in document order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// ParseNumber classifies a JSON number literal as Integer, BigInteger or Float.
// Literals such as 2.0 or 1e3 have an integral value and become Integer, and
// integral values beyond int64 such as 1e20 become BigInteger.
func ParseNumber(literal string) (JSONValue, error) {
	if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
		return Integer(i), nil
	}
	if b, ok := new(big.Int).SetString(literal, 10); ok {
		return BigInteger{Value: b}, nil
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		// Out-of-range literals still describe a float field.
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return Float(f), nil
		}
		return nil, err
	}
	if math.IsInf(f, 0) || f != math.Trunc(f) {
		return Float(f), nil
	}
	if f >= math.MinInt64 && f < math.MaxInt64 {
		return Integer(int64(f)), nil
	}
	b, _ := big.NewFloat(f).Int(nil)
	return BigInteger{Value: b}, nil
}

// Document is a parsed JSON document.
type Document struct {
	Root        JSONValue
	RootIsArray bool
}
