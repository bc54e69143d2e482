// Package types holds the static types the bag operations are checked against
// and a reference class hierarchy able to compute least common supertypes.
package types

import (
	"fmt"
	"hash/fnv"
	"slices"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

type typeName = string

const (
	AnyTypeName     typeName = "OclAny"
	VoidTypeName    typeName = "OclVoid"
	RealTypeName    typeName = "Real"
	IntegerTypeName typeName = "Integer"
	StringTypeName  typeName = "String"
	BooleanTypeName typeName = "Boolean"
)

// Type is a static type as seen by operation matching.
//
// Two types are the same type if and only if their hashes are equal, see Equal
type Type interface {
	fmt.Stringer
	Hash() uint64
	IsBag() bool
	IsSet() bool
	IsInteger() bool
}

// Collection is implemented by types wrapping a single element type
type Collection interface {
	Type
	ElemType() Type
}

// Lattice is the capability operation matching consumes: a join over Type
type Lattice interface {
	// LeastCommonSupertype returns the most specific type both a and b conform to,
	// or false if they are unrelated
	LeastCommonSupertype(a, b Type) (Type, bool)
}

var (
	_ Type       = ClassType{}
	_ Type       = VoidType{}
	_ Collection = BagType{}
	_ Collection = SetType{}
)

func Equal(this, other Type) bool {
	if this == nil || other == nil {
		return this == other
	}
	return this.Hash() == other.Hash()
}

// ElemType returns the element type of t if t is a Collection, and nil otherwise
func ElemType(t Type) Type {
	if c, ok := t.(Collection); ok {
		return c.ElemType()
	}
	return nil
}

func hashOf(kind string, children ...Type) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(kind))
	for _, child := range children {
		_, _ = fmt.Fprintf(h, "(%x)", child.Hash())
	}
	return h.Sum64()
}

// ClassType is a named type with a set of direct parents
type ClassType struct {
	Name    typeName
	parents *set.Set[typeName]
}

func newClass(name typeName, parents ...typeName) ClassType {
	return ClassType{
		Name:    name,
		parents: set.From(parents),
	}
}

// Parents returns the direct parents of t in lexical order
func (t ClassType) Parents() []typeName {
	if t.parents == nil {
		return nil
	}
	parents := t.parents.Slice()
	slices.Sort(parents)
	return parents
}

func (t ClassType) String() string  { return t.Name }
func (t ClassType) Hash() uint64    { return hashOf("class:" + t.Name) }
func (t ClassType) IsBag() bool     { return false }
func (t ClassType) IsSet() bool     { return false }
func (t ClassType) IsInteger() bool { return t.Name == IntegerTypeName }

// VoidType is the type of the undefined value and conforms to every other type
type VoidType struct{}

func (VoidType) String() string  { return VoidTypeName }
func (VoidType) Hash() uint64    { return hashOf("void") }
func (VoidType) IsBag() bool     { return false }
func (VoidType) IsSet() bool     { return false }
func (VoidType) IsInteger() bool { return false }

type BagType struct {
	Elem Type
}

func (t BagType) String() string  { return "Bag(" + t.Elem.String() + ")" }
func (t BagType) Hash() uint64    { return hashOf("bag", t.Elem) }
func (t BagType) IsBag() bool     { return true }
func (t BagType) IsSet() bool     { return false }
func (t BagType) IsInteger() bool { return false }
func (t BagType) ElemType() Type  { return t.Elem }

type SetType struct {
	Elem Type
}

func (t SetType) String() string  { return "Set(" + t.Elem.String() + ")" }
func (t SetType) Hash() uint64    { return hashOf("set", t.Elem) }
func (t SetType) IsBag() bool     { return false }
func (t SetType) IsSet() bool     { return true }
func (t SetType) IsInteger() bool { return false }
func (t SetType) ElemType() Type  { return t.Elem }

func MkBag(elem Type) BagType { return BagType{Elem: elem} }
func MkSet(elem Type) SetType { return SetType{Elem: elem} }

var (
	Any     = newClass(AnyTypeName)
	Real    = newClass(RealTypeName, AnyTypeName)
	Integer = newClass(IntegerTypeName, RealTypeName)
	String  = newClass(StringTypeName, AnyTypeName)
	Boolean = newClass(BooleanTypeName, AnyTypeName)
	Void    = VoidType{}
)

// List renders types separated by sep, for diagnostics
func List(ts []Type, sep string) string {
	sb := strings.Builder{}
	for i, t := range ts {
		if i > 0 {
			sb.WriteString(sep)
		}
		if t == nil {
			sb.WriteString("<nil>")
			continue
		}
		sb.WriteString(t.String())
	}
	return sb.String()
}
