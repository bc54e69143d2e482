package types

import (
	"fmt"
	"slices"

	"github.com/hashicorp/go-set/v3"
)

var _ Lattice = (*Hierarchy)(nil)

// Hierarchy is a class hierarchy implementing Lattice.
//
// It is populated once, before being handed to a dispatcher, and only read afterwards.
// Classes defined without parents are roots: they do not implicitly conform to OclAny,
// so two unrelated roots have no least common supertype.
type Hierarchy struct {
	classes map[typeName]ClassType
}

// NewHierarchy returns a Hierarchy containing the built-in primitive types,
// where Integer <= Real <= OclAny and String, Boolean <= OclAny
func NewHierarchy() *Hierarchy {
	h := &Hierarchy{classes: make(map[typeName]ClassType)}
	for _, builtin := range []ClassType{Any, Real, Integer, String, Boolean} {
		h.classes[builtin.Name] = builtin
	}
	return h
}

// Define adds a class whose direct parents must already be defined
func (h *Hierarchy) Define(name string, parents ...string) (ClassType, error) {
	if name == "" {
		return ClassType{}, fmt.Errorf("class name must not be empty")
	}
	if _, ok := h.classes[name]; ok || name == VoidTypeName {
		return ClassType{}, fmt.Errorf("class %s is already defined", name)
	}
	for _, parent := range parents {
		if _, ok := h.classes[parent]; !ok {
			return ClassType{}, fmt.Errorf("parent class %s of %s is not defined", parent, name)
		}
	}
	class := newClass(name, parents...)
	h.classes[name] = class
	return class, nil
}

func (h *Hierarchy) Class(name string) (ClassType, bool) {
	class, ok := h.classes[name]
	return class, ok
}

// ancestors returns name together with every class it transitively inherits from
func (h *Hierarchy) ancestors(name typeName) *set.Set[typeName] {
	seen := set.New[typeName](4)
	pending := []typeName{name}
	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if !seen.Insert(current) {
			continue
		}
		if class, ok := h.classes[current]; ok {
			pending = append(pending, class.Parents()...)
		}
	}
	return seen
}

// Conforms reports whether sub can be used where super is expected
func (h *Hierarchy) Conforms(sub, super Type) bool {
	join, ok := h.LeastCommonSupertype(sub, super)
	return ok && Equal(join, super)
}

func (h *Hierarchy) LeastCommonSupertype(a, b Type) (Type, bool) {
	if a == nil || b == nil {
		return nil, false
	}
	if Equal(a, b) {
		return a, true
	}
	if _, isVoid := a.(VoidType); isVoid {
		return b, true
	}
	if _, isVoid := b.(VoidType); isVoid {
		return a, true
	}

	switch a := a.(type) {
	case BagType:
		b, ok := b.(BagType)
		if !ok {
			return nil, false
		}
		elem, ok := h.LeastCommonSupertype(a.Elem, b.Elem)
		if !ok {
			return nil, false
		}
		return MkBag(elem), true
	case SetType:
		b, ok := b.(SetType)
		if !ok {
			return nil, false
		}
		elem, ok := h.LeastCommonSupertype(a.Elem, b.Elem)
		if !ok {
			return nil, false
		}
		return MkSet(elem), true
	case ClassType:
		b, ok := b.(ClassType)
		if !ok {
			return nil, false
		}
		return h.joinClasses(a, b)
	}
	return nil, false
}

func (h *Hierarchy) joinClasses(a, b ClassType) (Type, bool) {
	ofA := h.ancestors(a.Name)
	ofB := h.ancestors(b.Name)
	var common []typeName
	for _, name := range ofA.Slice() {
		if ofB.Contains(name) {
			common = append(common, name)
		}
	}

	// the join is the single common ancestor which no other common ancestor inherits from
	var minimal []typeName
	for _, candidate := range common {
		isMinimal := true
		for _, other := range common {
			if other != candidate && h.ancestors(other).Contains(candidate) {
				isMinimal = false
				break
			}
		}
		if isMinimal {
			minimal = append(minimal, candidate)
		}
	}
	if len(minimal) != 1 {
		if len(minimal) > 1 {
			slices.Sort(minimal)
			logger.Debug("join: no unique least common supertype", "lhs", a, "rhs", b, "candidates", minimal)
		}
		return nil, false
	}
	class, ok := h.classes[minimal[0]]
	return class, ok
}
