package ops

import (
	"context"
	"strings"

	"github.com/cottand/ocl/expr"
	"github.com/cottand/ocl/types"
	"github.com/cottand/ocl/value"
	"github.com/pkg/errors"
)

// RegisterBagOperations registers every operation on Bag into r.
//
// select, reject and collect are not registered: they are evaluated as special
// expressions, not dispatched. count is inherited from the collection operations.
func RegisterBagOperations(r *Registry) error {
	for _, v := range []*Variant{
		opBagUnion(),
		opBagUnionSet(),
		opBagIntersection(),
		opBagIntersectionSet(),
		opBagIncluding(),
		opBagExcluding(),
		opMkBag(),
		opMkBagRange(),
	} {
		if err := r.Register(v); err != nil {
			return err
		}
	}
	return nil
}

// joinElems joins the element type of the collection coll with elem
func joinElems(lat types.Lattice, coll types.Type, elem types.Type) (types.Type, bool) {
	collElem := types.ElemType(coll)
	if collElem == nil || elem == nil {
		return nil, false
	}
	return lat.LeastCommonSupertype(collElem, elem)
}

// matchBinary matches two collections satisfying lhs and rhs and wraps the join
// of their element types with mk
func matchBinary(lhs, rhs func(types.Type) bool, mk func(types.Type) types.Type) MatchFunc {
	return func(lat types.Lattice, params []types.Type) (types.Type, bool) {
		if len(params) != 2 || !lhs(params[0]) || !rhs(params[1]) {
			return nil, false
		}
		common, ok := joinElems(lat, params[0], types.ElemType(params[1]))
		if !ok {
			return nil, false
		}
		return mk(common), true
	}
}

func isBag(t types.Type) bool { return t.IsBag() }
func isSet(t types.Type) bool { return t.IsSet() }
func mkBag(t types.Type) types.Type { return types.MkBag(t) }
func mkSet(t types.Type) types.Type { return types.MkSet(t) }

func mustBag(v value.Value) *value.Bag {
	bag, ok := v.(*value.Bag)
	if !ok {
		panic(errors.Errorf("expected a Bag at evaluation, got %T (%v)", v, v))
	}
	return bag
}

func mustSet(v value.Value) *value.Set {
	set, ok := v.(*value.Set)
	if !ok {
		panic(errors.Errorf("expected a Set at evaluation, got %T (%v)", v, v))
	}
	return set
}

func mustElemType(result types.Type) types.Type {
	elem := types.ElemType(result)
	if elem == nil {
		panic(errors.Errorf("expected a collection result type, got %v", result))
	}
	return elem
}

// union : Bag(T1) x Bag(T2) -> Bag(T1 ⊔ T2)
func opBagUnion() *Variant {
	return &Variant{
		Name:       "union",
		Signature:  "Bag(T1) x Bag(T2) -> Bag(T1 ⊔ T2)",
		Arity:      Fixed(2),
		Strictness: Strict,
		Match:      matchBinary(isBag, isBag, mkBag),
		Eval: func(_ context.Context, args []value.Value, result types.Type) value.Value {
			return mustBag(args[0]).Union(mustBag(args[1])).WithElemType(mustElemType(result))
		},
	}
}

// union : Bag(T1) x Set(T2) -> Bag(T1 ⊔ T2)
func opBagUnionSet() *Variant {
	return &Variant{
		Name:       "union",
		Signature:  "Bag(T1) x Set(T2) -> Bag(T1 ⊔ T2)",
		Arity:      Fixed(2),
		Strictness: Strict,
		Match:      matchBinary(isBag, isSet, mkBag),
		Eval: func(_ context.Context, args []value.Value, result types.Type) value.Value {
			return mustBag(args[0]).Union(mustSet(args[1]).AsBag()).WithElemType(mustElemType(result))
		},
	}
}

// intersection : Bag(T1) x Bag(T2) -> Bag(T1 ⊔ T2)
func opBagIntersection() *Variant {
	return &Variant{
		Name:       "intersection",
		Signature:  "Bag(T1) x Bag(T2) -> Bag(T1 ⊔ T2)",
		Arity:      Fixed(2),
		Strictness: Strict,
		Match:      matchBinary(isBag, isBag, mkBag),
		Eval: func(_ context.Context, args []value.Value, result types.Type) value.Value {
			return mustBag(args[0]).Intersection(mustBag(args[1])).WithElemType(mustElemType(result))
		},
	}
}

// intersection : Bag(T1) x Set(T2) -> Set(T1 ⊔ T2)
//
// intersecting with a set cannot keep duplicates, so the result is a set
func opBagIntersectionSet() *Variant {
	return &Variant{
		Name:       "intersection",
		Signature:  "Bag(T1) x Set(T2) -> Set(T1 ⊔ T2)",
		Arity:      Fixed(2),
		Strictness: Strict,
		Match:      matchBinary(isBag, isSet, mkSet),
		Eval: func(_ context.Context, args []value.Value, result types.Type) value.Value {
			return mustBag(args[0]).AsSet().Intersection(mustSet(args[1])).WithElemType(mustElemType(result))
		},
	}
}

func matchBagAndElement(lat types.Lattice, params []types.Type) (types.Type, bool) {
	if len(params) != 2 || !params[0].IsBag() {
		return nil, false
	}
	common, ok := joinElems(lat, params[0], params[1])
	if !ok {
		return nil, false
	}
	return types.MkBag(common), true
}

// including : Bag(T1) x T2 -> Bag(T1 ⊔ T2)
//
// the element may be undefined, in which case it is included like any other
func opBagIncluding() *Variant {
	return &Variant{
		Name:       "including",
		Signature:  "Bag(T1) x T2 -> Bag(T1 ⊔ T2)",
		Arity:      Fixed(2),
		Strictness: Manual,
		Match:      matchBagAndElement,
		Eval: func(_ context.Context, args []value.Value, result types.Type) value.Value {
			if args[0].IsUndefined() {
				return value.Undefined
			}
			return mustBag(args[0]).Including(args[1]).WithElemType(mustElemType(result))
		},
	}
}

// excluding : Bag(T1) x T2 -> Bag(T1 ⊔ T2)
func opBagExcluding() *Variant {
	return &Variant{
		Name:       "excluding",
		Signature:  "Bag(T1) x T2 -> Bag(T1 ⊔ T2)",
		Arity:      Fixed(2),
		Strictness: Manual,
		Match:      matchBagAndElement,
		Eval: func(_ context.Context, args []value.Value, result types.Type) value.Value {
			if args[0].IsUndefined() {
				return value.Undefined
			}
			return mustBag(args[0]).Excluding(args[1]).WithElemType(mustElemType(result))
		},
	}
}

// mkBag : T x T x ... x T -> Bag(T)
//
// Every argument must have exactly the same type: unlike the other bag operations,
// no common supertype is looked for. Undefined elements are kept in the bag.
func opMkBag() *Variant {
	return &Variant{
		Name:       "mkBag",
		Signature:  "T x ... x T -> Bag(T)",
		Arity:      AtLeast(1),
		Strictness: Manual,
		Match: func(_ types.Lattice, params []types.Type) (types.Type, bool) {
			if len(params) == 0 {
				return nil, false
			}
			elemType := params[0]
			for _, param := range params[1:] {
				if !types.Equal(param, elemType) {
					return nil, false
				}
			}
			return types.MkBag(elemType), true
		},
		Eval: func(_ context.Context, args []value.Value, result types.Type) value.Value {
			return value.NewBag(mustElemType(result), args...)
		},
		Pretty: func(args []expr.Expr, _ string) string {
			return "Bag{" + expr.Join(args, ",") + "}"
		},
	}
}

// mkBagRange : Integer x Integer x ... -> Bag(Integer)
//
// arguments are taken two at a time as the inclusive bounds of a range.
// Ranges holding more than value.MaxRangeSize elements evaluate to Undefined.
func opMkBagRange() *Variant {
	return &Variant{
		Name:       "mkBagRange",
		Signature:  "Integer x Integer x ... -> Bag(Integer)",
		Arity:      AtLeast(2),
		Strictness: Strict,
		Match: func(_ types.Lattice, params []types.Type) (types.Type, bool) {
			if len(params) < 2 || len(params)%2 != 0 {
				return nil, false
			}
			for _, param := range params {
				if !param.IsInteger() {
					return nil, false
				}
			}
			return types.MkBag(types.Integer), true
		},
		Eval: func(_ context.Context, args []value.Value, _ types.Type) value.Value {
			bounds := make([]int64, len(args))
			for i, arg := range args {
				bound, ok := arg.(value.Integer)
				if !ok {
					panic(errors.Errorf("range bound %d is not an Integer: %T (%v)", i, arg, arg))
				}
				bounds[i] = int64(bound)
			}
			if _, err := value.RangeSize(bounds...); err != nil {
				logger.Warn("eval: mkBagRange is undefined", "error", err)
				return value.Undefined
			}
			return value.NewBagFromRanges(bounds...)
		},
		Pretty: func(args []expr.Expr, _ string) string {
			if len(args)%2 != 0 {
				panic(errors.Errorf("range bounds must come in pairs, got %d", len(args)))
			}
			sb := strings.Builder{}
			sb.WriteString("Bag{")
			for i := 0; i < len(args); i += 2 {
				if i > 0 {
					sb.WriteString(",")
				}
				sb.WriteString(expr.ExprString(args[i]))
				sb.WriteString("..")
				sb.WriteString(expr.ExprString(args[i+1]))
			}
			sb.WriteString("}")
			return sb.String()
		},
	}
}
