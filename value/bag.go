package value

import (
	"iter"
	"slices"
	"strings"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/ocl/types"
	"github.com/pkg/errors"
)

// Bag is a multiset: every distinct element is stored once, together with its multiplicity.
//
// Multiplicities stored are always strictly positive; an element with multiplicity 0 is absent.
type Bag struct {
	elemType types.Type
	counts   *immutable.Map[Value, int]
	size     int
}

// Entry is an element of a Bag together with its multiplicity
type Entry struct {
	Value Value
	Count int
}

func EmptyBag(elemType types.Type) *Bag {
	return &Bag{
		elemType: elemType,
		counts:   immutable.NewMap[Value, int](hasher{}),
	}
}

// NewBag returns a bag of elems, where an element occurring n times in elems has multiplicity n
func NewBag(elemType types.Type, elems ...Value) *Bag {
	builder := immutable.NewMapBuilder[Value, int](hasher{})
	for _, elem := range elems {
		count, _ := builder.Get(elem)
		builder.Set(elem, count+1)
	}
	return &Bag{
		elemType: elemType,
		counts:   builder.Map(),
		size:     len(elems),
	}
}

// MaxRangeSize bounds the number of elements NewBagFromRanges may produce
const MaxRangeSize = 1 << 20

// RangeSize returns the number of elements NewBagFromRanges(bounds...) holds.
// It fails if bounds has an odd length or if the size exceeds MaxRangeSize.
func RangeSize(bounds ...int64) (int, error) {
	if len(bounds)%2 != 0 {
		return 0, errors.Errorf("range bounds must come in pairs, got %d bounds", len(bounds))
	}
	var size uint64
	for i := 0; i < len(bounds); i += 2 {
		lo, hi := bounds[i], bounds[i+1]
		if lo > hi {
			continue
		}
		// computed unsigned so that spans wider than an int64 do not overflow
		span := uint64(hi) - uint64(lo)
		if span >= MaxRangeSize || size+span+1 > MaxRangeSize {
			return 0, errors.Errorf("range %d..%d exceeds the limit of %d elements", lo, hi, MaxRangeSize)
		}
		size += span + 1
	}
	return int(size), nil
}

// NewBagFromRanges returns a Bag(Integer) built from bounds taken two at a time, where
// each (lo, hi) pair adds every integer of the inclusive range [lo, hi] once.
// Overlapping ranges accumulate multiplicity, and a pair with lo > hi adds nothing.
//
// It panics if bounds has an odd length or holds more than MaxRangeSize elements,
// see RangeSize.
func NewBagFromRanges(bounds ...int64) *Bag {
	if _, err := RangeSize(bounds...); err != nil {
		panic(err)
	}
	builder := immutable.NewMapBuilder[Value, int](hasher{})
	size := 0
	for i := 0; i < len(bounds); i += 2 {
		lo, hi := bounds[i], bounds[i+1]
		for n := lo; n <= hi; n++ {
			count, _ := builder.Get(Integer(n))
			builder.Set(Integer(n), count+1)
			size++
			if n == hi {
				// avoid overflowing when hi is the largest int64
				break
			}
		}
	}
	return &Bag{
		elemType: types.Integer,
		counts:   builder.Map(),
		size:     size,
	}
}

func (b *Bag) ElemType() types.Type { return b.elemType }
func (b *Bag) Type() types.Type     { return types.MkBag(b.elemType) }
func (b *Bag) IsUndefined() bool    { return false }
func (b *Bag) rank() int            { return 6 }

// Count returns the multiplicity of elem, which is 0 if elem is absent
func (b *Bag) Count(elem Value) int {
	count, _ := b.counts.Get(elem)
	return count
}

// Size is the sum of all multiplicities
func (b *Bag) Size() int { return b.size }

// Distinct is the number of distinct elements
func (b *Bag) Distinct() int { return b.counts.Len() }

func (b *Bag) IsEmpty() bool { return b.size == 0 }

// All iterates over the distinct elements of b and their multiplicities, in no particular order
func (b *Bag) All() iter.Seq2[Value, int] {
	return func(yield func(Value, int) bool) {
		itr := b.counts.Iterator()
		for !itr.Done() {
			elem, count, _ := itr.Next()
			if !yield(elem, count) {
				return
			}
		}
	}
}

// Entries returns the distinct elements of b with their multiplicities, ordered by Compare
func (b *Bag) Entries() []Entry {
	entries := make([]Entry, 0, b.counts.Len())
	for elem, count := range b.All() {
		entries = append(entries, Entry{Value: elem, Count: count})
	}
	slices.SortFunc(entries, func(e1, e2 Entry) int {
		return Compare(e1.Value, e2.Value)
	})
	return entries
}

// Elements returns every element of b repeated as many times as its multiplicity, ordered by Compare
func (b *Bag) Elements() []Value {
	elems := make([]Value, 0, b.size)
	for _, entry := range b.Entries() {
		for range entry.Count {
			elems = append(elems, entry.Value)
		}
	}
	return elems
}

func (b *Bag) String() string {
	sb := strings.Builder{}
	sb.WriteString("Bag{")
	for i, elem := range b.Elements() {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(elem.String())
	}
	sb.WriteString("}")
	return sb.String()
}

// WithElemType returns b typed as a bag of elemType, sharing its contents
func (b *Bag) WithElemType(elemType types.Type) *Bag {
	return &Bag{
		elemType: elemType,
		counts:   b.counts,
		size:     b.size,
	}
}

// Union returns a bag where each element has the sum of its multiplicities in b and other
func (b *Bag) Union(other *Bag) *Bag {
	counts := b.counts
	for elem, count := range other.All() {
		existing, _ := counts.Get(elem)
		counts = counts.Set(elem, existing+count)
	}
	return &Bag{
		elemType: b.elemType,
		counts:   counts,
		size:     b.size + other.size,
	}
}

// Intersection returns a bag where each element has the minimum of its multiplicities in b and other
func (b *Bag) Intersection(other *Bag) *Bag {
	builder := immutable.NewMapBuilder[Value, int](hasher{})
	size := 0
	for elem, count := range b.All() {
		otherCount := other.Count(elem)
		if otherCount == 0 {
			continue
		}
		common := min(count, otherCount)
		builder.Set(elem, common)
		size += common
	}
	return &Bag{
		elemType: b.elemType,
		counts:   builder.Map(),
		size:     size,
	}
}

// Including returns b with one more occurrence of elem
func (b *Bag) Including(elem Value) *Bag {
	return &Bag{
		elemType: b.elemType,
		counts:   b.counts.Set(elem, b.Count(elem)+1),
		size:     b.size + 1,
	}
}

// Excluding returns b without any occurrence of elem
func (b *Bag) Excluding(elem Value) *Bag {
	count := b.Count(elem)
	if count == 0 {
		return b.WithElemType(b.elemType)
	}
	return &Bag{
		elemType: b.elemType,
		counts:   b.counts.Delete(elem),
		size:     b.size - count,
	}
}

// AsSet returns the distinct elements of b as a Set of the same element type
func (b *Bag) AsSet() *Set {
	items := make([]Value, 0, b.counts.Len())
	for elem := range b.All() {
		items = append(items, elem)
	}
	return NewSet(b.elemType, items...)
}

func (b *Bag) equal(other Value) bool {
	o, ok := other.(*Bag)
	if !ok || o.size != b.size || o.counts.Len() != b.counts.Len() {
		return false
	}
	for elem, count := range b.All() {
		if o.Count(elem) != count {
			return false
		}
	}
	return true
}

// hash does not depend on iteration order, so that equal bags hash equally
func (b *Bag) hash() uint32 {
	var h uint32 = 0x9e3779b9
	for elem, count := range b.All() {
		h ^= elem.hash()*31 + uint32(count)
	}
	return h
}
