// Package value implements the runtime values bag operations evaluate over.
//
// Values are immutable: every operation on a Bag or Set returns a new value
// sharing structure with its operands.
package value

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"strconv"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/ocl/types"
)

// Value is a runtime value. The set of implementations is closed to this package.
type Value interface {
	fmt.Stringer
	Type() types.Type
	IsUndefined() bool

	hash() uint32
	equal(other Value) bool
	rank() int
}

var (
	_ Value = undefinedValue{}
	_ Value = Integer(0)
	_ Value = Real(0)
	_ Value = String("")
	_ Value = Boolean(false)
	_ Value = (*Bag)(nil)
	_ Value = (*Set)(nil)

	_ immutable.Hasher[Value] = hasher{}
)

// hasher lets Value be used as a key of immutable collections
type hasher struct{}

func (hasher) Hash(v Value) uint32   { return v.hash() }
func (hasher) Equal(a, b Value) bool { return a.equal(b) }

// Equal reports whether a and b are the same value. Undefined equals only itself.
func Equal(a, b Value) bool { return a.equal(b) }

func hashBytes(kind byte, b []byte) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte{kind})
	_, _ = h.Write(b)
	return h.Sum32()
}

// undefinedValue is the type of the Undefined sentinel
type undefinedValue struct{}

// Undefined is the single undefined value
var Undefined Value = undefinedValue{}

func (undefinedValue) String() string         { return "Undefined" }
func (undefinedValue) Type() types.Type       { return types.Void }
func (undefinedValue) IsUndefined() bool      { return true }
func (undefinedValue) hash() uint32           { return hashBytes('u', nil) }
func (undefinedValue) equal(other Value) bool { return other.IsUndefined() }
func (undefinedValue) rank() int              { return 0 }

type Boolean bool

func (b Boolean) String() string  { return strconv.FormatBool(bool(b)) }
func (Boolean) Type() types.Type  { return types.Boolean }
func (Boolean) IsUndefined() bool { return false }
func (Boolean) rank() int         { return 1 }
func (b Boolean) equal(other Value) bool {
	o, ok := other.(Boolean)
	return ok && o == b
}
func (b Boolean) hash() uint32 {
	if b {
		return hashBytes('b', []byte{1})
	}
	return hashBytes('b', []byte{0})
}

type Integer int64

func (i Integer) String() string  { return strconv.FormatInt(int64(i), 10) }
func (Integer) Type() types.Type  { return types.Integer }
func (Integer) IsUndefined() bool { return false }
func (Integer) rank() int         { return 2 }
func (i Integer) equal(other Value) bool {
	switch o := other.(type) {
	case Integer:
		return o == i
	case Real:
		return o.equal(i)
	}
	return false
}
func (i Integer) hash() uint32 {
	return hashBytes('i', binary.LittleEndian.AppendUint64(nil, uint64(i)))
}

// Real compares equal to an Integer of the same value, as Integer conforms to Real
type Real float64

func (r Real) String() string  { return strconv.FormatFloat(float64(r), 'g', -1, 64) }
func (Real) Type() types.Type  { return types.Real }
func (Real) IsUndefined() bool { return false }
func (Real) rank() int         { return 2 }
func (r Real) equal(other Value) bool {
	switch o := other.(type) {
	case Real:
		return o == r
	case Integer:
		i, ok := r.integral()
		return ok && i == o
	}
	return false
}
func (r Real) hash() uint32 {
	if i, ok := r.integral(); ok {
		return i.hash()
	}
	return hashBytes('r', binary.LittleEndian.AppendUint64(nil, math.Float64bits(float64(r))))
}

// integral returns r as an Integer if it has no fractional part and fits an int64
func (r Real) integral() (Integer, bool) {
	f := float64(r)
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return Integer(f), true
}

type String string

func (s String) String() string  { return "'" + string(s) + "'" }
func (String) Type() types.Type  { return types.String }
func (String) IsUndefined() bool { return false }
func (String) rank() int         { return 3 }
func (s String) equal(other Value) bool {
	o, ok := other.(String)
	return ok && o == s
}
func (s String) hash() uint32 { return hashBytes('s', []byte(s)) }

// Compare orders values for display: first by kind, then naturally within a kind.
// Integers and Reals are ordered together by numeric value.
// Collections of the same kind compare by their rendering.
func Compare(a, b Value) int {
	if c := cmp.Compare(a.rank(), b.rank()); c != 0 {
		return c
	}
	switch a := a.(type) {
	case Boolean:
		return cmp.Compare(boolInt(bool(a)), boolInt(bool(b.(Boolean))))
	case Integer, Real:
		if c := cmp.Compare(asFloat(a), asFloat(b)); c != 0 {
			return c
		}
		// equal numbers still order an Integer first, so sorting is deterministic
		_, aIsReal := a.(Real)
		_, bIsReal := b.(Real)
		return cmp.Compare(boolInt(aIsReal), boolInt(bIsReal))
	case String:
		return cmp.Compare(a, b.(String))
	case undefinedValue:
		return 0
	}
	return cmp.Compare(a.String(), b.String())
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func asFloat(v Value) float64 {
	if i, ok := v.(Integer); ok {
		return float64(i)
	}
	return float64(v.(Real))
}
