package ops_test

import (
	"context"
	"math"
	"testing"

	"github.com/cottand/ocl/expr"
	"github.com/cottand/ocl/ops"
	"github.com/cottand/ocl/types"
	"github.com/cottand/ocl/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T) (*ops.Dispatcher, *types.Hierarchy) {
	t.Helper()
	h := types.NewHierarchy()
	for _, class := range []struct {
		name    string
		parents []string
	}{
		{"Person", nil},
		{"Employee", []string{"Person"}},
		{"Student", []string{"Person"}},
		{"Car", nil},
	} {
		_, err := h.Define(class.name, class.parents...)
		require.NoError(t, err)
	}
	d := ops.NewDispatcher(ops.Bootstrap(), h)
	d.Ambiguity = ops.AmbiguityError
	return d, h
}

func ints(is ...int64) []value.Value {
	values := make([]value.Value, 0, len(is))
	for _, i := range is {
		values = append(values, value.Integer(i))
	}
	return values
}

func intBag(is ...int64) *value.Bag {
	return value.NewBag(types.Integer, ints(is...)...)
}

func TestResolveBagOperations(t *testing.T) {
	d, h := newTestDispatcher(t)
	class := func(name string) types.Type {
		c, ok := h.Class(name)
		require.True(t, ok)
		return c
	}

	testCases := []struct {
		name     string
		op       string
		params   []types.Type
		expected string // empty means no match
	}{
		{"union of bags", "union", []types.Type{types.MkBag(types.Integer), types.MkBag(types.Integer)}, "Bag(Integer)"},
		{"union of bag and set joins", "union", []types.Type{types.MkBag(types.Integer), types.MkSet(types.Real)}, "Bag(Real)"},
		{"union of unrelated classes", "union", []types.Type{types.MkBag(class("Person")), types.MkBag(class("Car"))}, ""},
		{"union of siblings", "union", []types.Type{types.MkBag(class("Employee")), types.MkBag(class("Student"))}, "Bag(Person)"},
		{"union with a scalar", "union", []types.Type{types.MkBag(types.Integer), types.Integer}, ""},
		{"union with a set receiver", "union", []types.Type{types.MkSet(types.Integer), types.MkBag(types.Integer)}, ""},
		{"intersection of bags", "intersection", []types.Type{types.MkBag(types.Real), types.MkBag(types.Integer)}, "Bag(Real)"},
		{"intersection with a set is a set", "intersection", []types.Type{types.MkBag(types.Integer), types.MkSet(types.Integer)}, "Set(Integer)"},
		{"intersection of unrelated", "intersection", []types.Type{types.MkBag(class("Car")), types.MkSet(types.Integer)}, ""},
		{"including joins the element", "including", []types.Type{types.MkBag(types.Integer), types.Real}, "Bag(Real)"},
		{"including an unrelated element", "including", []types.Type{types.MkBag(class("Person")), class("Car")}, ""},
		{"including undefined", "including", []types.Type{types.MkBag(types.Integer), types.Void}, "Bag(Integer)"},
		{"excluding", "excluding", []types.Type{types.MkBag(types.Integer), types.Integer}, "Bag(Integer)"},
		{"excluding from a non bag", "excluding", []types.Type{types.MkSet(types.Integer), types.Integer}, ""},
		{"excluding wrong arity", "excluding", []types.Type{types.MkBag(types.Integer)}, ""},
		{"mkBag uniform", "mkBag", []types.Type{types.Integer, types.Integer, types.Integer}, "Bag(Integer)"},
		{"mkBag single", "mkBag", []types.Type{types.String}, "Bag(String)"},
		{"mkBag mixed", "mkBag", []types.Type{types.Integer, types.String}, ""},
		{"mkBag related but not equal", "mkBag", []types.Type{types.Integer, types.Real}, ""},
		{"mkBag empty", "mkBag", []types.Type{}, ""},
		{"mkBagRange pair", "mkBagRange", []types.Type{types.Integer, types.Integer}, "Bag(Integer)"},
		{"mkBagRange two pairs", "mkBagRange", []types.Type{types.Integer, types.Integer, types.Integer, types.Integer}, "Bag(Integer)"},
		{"mkBagRange odd", "mkBagRange", []types.Type{types.Integer, types.Integer, types.Integer}, ""},
		{"mkBagRange real bound", "mkBagRange", []types.Type{types.Integer, types.Integer, types.Real, types.Integer}, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resolved, err := d.Resolve(tc.op, tc.params)
			if tc.expected == "" {
				require.Error(t, err, "expected no match, resolved to %v", resolved.Result)
				assert.True(t, ops.IsCode(err, ops.NoApplicableOperation), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, resolved.Result.String())
			assert.Equal(t, tc.op, resolved.Variant.Name)
		})
	}
}

func TestBagScenarios(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()
	a := intBag(1, 2, 2, 3)
	b := intBag(2, 4)

	call := func(t *testing.T, op string, args ...value.Value) (value.Value, types.Type) {
		t.Helper()
		result, resultType, err := d.Call(ctx, op, args...)
		require.NoError(t, err)
		return result, resultType
	}

	t.Run("union", func(t *testing.T) {
		result, _ := call(t, "union", a, b)
		bag := result.(*value.Bag)
		assert.Equal(t, 1, bag.Count(value.Integer(1)))
		assert.Equal(t, 3, bag.Count(value.Integer(2)))
		assert.Equal(t, 1, bag.Count(value.Integer(3)))
		assert.Equal(t, 1, bag.Count(value.Integer(4)))
	})

	t.Run("intersection", func(t *testing.T) {
		result, _ := call(t, "intersection", a, b)
		assert.Equal(t, "Bag{2}", result.String())
	})

	t.Run("excluding", func(t *testing.T) {
		result, _ := call(t, "excluding", a, value.Integer(2))
		assert.Equal(t, "Bag{1,3}", result.String())
	})

	t.Run("range", func(t *testing.T) {
		result, resultType := call(t, "mkBagRange", ints(1, 3)...)
		assert.Equal(t, "Bag{1,2,3}", result.String())
		assert.Equal(t, "Bag(Integer)", resultType.String())
	})

	t.Run("intersection of bag and set", func(t *testing.T) {
		set := value.NewSet(types.Integer, ints(2, 3)...)
		result, resultType := call(t, "intersection", intBag(1, 2), set)
		require.IsType(t, &value.Set{}, result)
		assert.Equal(t, "Set{2}", result.String())
		assert.Equal(t, "Set(Integer)", resultType.String())
	})

	t.Run("union of bag and set", func(t *testing.T) {
		set := value.NewSet(types.Real, value.Real(2.5))
		result, resultType := call(t, "union", intBag(1, 1), set)
		assert.Equal(t, "Bag{1,1,2.5}", result.String())
		assert.Equal(t, "Bag(Real)", resultType.String())
		assert.Equal(t, "Bag(Real)", result.Type().String(), "the value carries the resolved element type")
	})

	t.Run("integers and reals of equal value are the same element", func(t *testing.T) {
		reals := value.NewSet(types.Real, value.Real(1), value.Real(2))
		result, resultType := call(t, "intersection", intBag(1, 2), reals)
		assert.Equal(t, "Set(Real)", resultType.String())
		assert.Equal(t, 2, result.(*value.Set).Len())
		assert.True(t, result.(*value.Set).Contains(value.Integer(1)))

		result, _ = call(t, "union", intBag(1), value.NewSet(types.Real, value.Real(1)))
		assert.Equal(t, 2, result.(*value.Bag).Count(value.Real(1)))
		assert.Equal(t, 1, result.(*value.Bag).Distinct())

		mixed := value.NewBag(types.Real, value.Real(1), value.Integer(1), value.Real(3))
		result, _ = call(t, "excluding", mixed, value.Integer(1))
		assert.Equal(t, "Bag{3}", result.String())
	})

	t.Run("including on an undefined bag", func(t *testing.T) {
		resolved, err := d.Resolve("including", []types.Type{types.MkBag(types.Integer), types.Integer})
		require.NoError(t, err)
		result := d.Eval(ctx, resolved, []value.Value{value.Undefined, value.Integer(5)})
		assert.True(t, result.IsUndefined())
	})

	t.Run("excluding on an undefined bag", func(t *testing.T) {
		resolved, err := d.Resolve("excluding", []types.Type{types.MkBag(types.Integer), types.Integer})
		require.NoError(t, err)
		result := d.Eval(ctx, resolved, []value.Value{value.Undefined, value.Integer(5)})
		assert.True(t, result.IsUndefined())
	})

	t.Run("including an undefined element", func(t *testing.T) {
		result, _ := call(t, "including", a, value.Undefined)
		assert.Equal(t, 1, result.(*value.Bag).Count(value.Undefined))
	})

	t.Run("union with an undefined operand", func(t *testing.T) {
		resolved, err := d.Resolve("union", []types.Type{types.MkBag(types.Integer), types.MkBag(types.Integer)})
		require.NoError(t, err)
		assert.True(t, d.Eval(ctx, resolved, []value.Value{a, value.Undefined}).IsUndefined())
		assert.True(t, d.Eval(ctx, resolved, []value.Value{value.Undefined, b}).IsUndefined())
	})

	t.Run("mkBag keeps undefined elements", func(t *testing.T) {
		resolved, err := d.Resolve("mkBag", []types.Type{types.Integer, types.Integer})
		require.NoError(t, err)
		result := d.Eval(ctx, resolved, []value.Value{value.Integer(1), value.Undefined})
		bag := result.(*value.Bag)
		assert.Equal(t, 1, bag.Count(value.Undefined))
		assert.Equal(t, 1, bag.Count(value.Integer(1)))
		assert.Equal(t, "Bag(Integer)", bag.Type().String())
	})

	t.Run("mkBagRange with an undefined bound", func(t *testing.T) {
		resolved, err := d.Resolve("mkBagRange", []types.Type{types.Integer, types.Integer})
		require.NoError(t, err)
		assert.True(t, d.Eval(ctx, resolved, []value.Value{value.Integer(1), value.Undefined}).IsUndefined())
	})

	t.Run("mkBagRange over the size limit", func(t *testing.T) {
		result, resultType := call(t, "mkBagRange", value.Integer(0), value.Integer(math.MaxInt64))
		assert.True(t, result.IsUndefined())
		assert.Equal(t, "Bag(Integer)", resultType.String())
	})

	t.Run("operands are left untouched", func(t *testing.T) {
		assert.Equal(t, "Bag{1,2,2,3}", a.String())
		assert.Equal(t, "Bag{2,4}", b.String())
	})
}

func TestRenderBagOperations(t *testing.T) {
	d, _ := newTestDispatcher(t)

	resolve := func(op string, params ...types.Type) ops.Resolved {
		resolved, err := d.Resolve(op, params)
		require.NoError(t, err)
		return resolved
	}
	intsOf := func(n int) []types.Type {
		params := make([]types.Type, n)
		for i := range params {
			params[i] = types.Integer
		}
		return params
	}

	mkBag := resolve("mkBag", intsOf(3)...)
	assert.Equal(t, "Bag{1,2,3}", mkBag.Render(expr.Lits(ints(1, 2, 3)...), ""))

	mkBagRange := resolve("mkBagRange", intsOf(4)...)
	assert.Equal(t, "Bag{1..5,8..10}", mkBagRange.Render(expr.Lits(ints(1, 5, 8, 10)...), ""))
	assert.Panics(t, func() { mkBagRange.Render(expr.Lits(ints(1, 5, 8)...), "") })

	union := resolve("union", types.MkBag(types.Integer), types.MkSet(types.Integer))
	args := []expr.Expr{&expr.Var{Name: "b"}, mkBag.Expr(expr.Lits(ints(1, 2, 3)...), false)}
	assert.Equal(t, "b->union(Bag{1,2,3})", union.Render(args, ""))
	assert.Equal(t, "b->union@pre(Bag{1,2,3})", union.Expr(args, true).String())
}
