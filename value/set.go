package value

import (
	"iter"
	"slices"
	"strings"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/ocl/types"
)

// Set is an unordered collection without duplicates
type Set struct {
	elemType types.Type
	items    immutable.Set[Value]
}

func NewSet(elemType types.Type, elems ...Value) *Set {
	return &Set{
		elemType: elemType,
		items:    immutable.NewSet[Value](hasher{}, elems...),
	}
}

func (s *Set) ElemType() types.Type { return s.elemType }
func (s *Set) Type() types.Type     { return types.MkSet(s.elemType) }
func (s *Set) IsUndefined() bool    { return false }
func (s *Set) rank() int            { return 5 }
func (s *Set) Len() int             { return s.items.Len() }
func (s *Set) Contains(elem Value) bool {
	return s.items.Has(elem)
}

// All iterates over the elements of s in no particular order
func (s *Set) All() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for _, elem := range s.items.Items() {
			if !yield(elem) {
				return
			}
		}
	}
}

// Elements returns the elements of s ordered by Compare
func (s *Set) Elements() []Value {
	elems := s.items.Items()
	slices.SortFunc(elems, Compare)
	return elems
}

func (s *Set) String() string {
	sb := strings.Builder{}
	sb.WriteString("Set{")
	for i, elem := range s.Elements() {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(elem.String())
	}
	sb.WriteString("}")
	return sb.String()
}

func (s *Set) WithElemType(elemType types.Type) *Set {
	return &Set{elemType: elemType, items: s.items}
}

func (s *Set) Union(other *Set) *Set {
	items := s.items
	for elem := range other.All() {
		items = items.Add(elem)
	}
	return &Set{elemType: s.elemType, items: items}
}

func (s *Set) Intersection(other *Set) *Set {
	var common []Value
	for elem := range s.All() {
		if other.Contains(elem) {
			common = append(common, elem)
		}
	}
	return NewSet(s.elemType, common...)
}

func (s *Set) Including(elem Value) *Set {
	return &Set{elemType: s.elemType, items: s.items.Add(elem)}
}

func (s *Set) Excluding(elem Value) *Set {
	return &Set{elemType: s.elemType, items: s.items.Delete(elem)}
}

// AsBag returns a bag holding every element of s with multiplicity 1
func (s *Set) AsBag() *Bag {
	return NewBag(s.elemType, s.items.Items()...)
}

func (s *Set) equal(other Value) bool {
	o, ok := other.(*Set)
	if !ok || o.Len() != s.Len() {
		return false
	}
	for elem := range s.All() {
		if !o.Contains(elem) {
			return false
		}
	}
	return true
}

func (s *Set) hash() uint32 {
	var h uint32 = 0x85ebca6b
	for elem := range s.All() {
		h ^= elem.hash()
	}
	return h
}
