package ops

import (
	"context"
	"fmt"
	"strings"

	"github.com/cottand/ocl/expr"
	"github.com/cottand/ocl/types"
	"github.com/cottand/ocl/value"
)

// Strictness decides who handles undefined arguments of a Variant
type Strictness int

const (
	// Strict variants evaluate to value.Undefined as soon as any argument is undefined,
	// without their EvalFunc being called
	Strict Strictness = iota
	// Manual variants always have their EvalFunc called, which must handle undefined arguments itself
	Manual
)

func (s Strictness) String() string {
	switch s {
	case Strict:
		return "strict"
	case Manual:
		return "manual"
	}
	return fmt.Sprintf("Strictness(%d)", int(s))
}

// Arity is the number of arguments a Variant accepts, including its receiver
type Arity struct {
	n        int
	variadic bool
}

func Fixed(n int) Arity { return Arity{n: n} }

// AtLeast accepts n or more arguments
func AtLeast(n int) Arity { return Arity{n: n, variadic: true} }

func (a Arity) Accepts(n int) bool {
	if a.variadic {
		return n >= a.n
	}
	return n == a.n
}

func (a Arity) String() string {
	if a.variadic {
		return fmt.Sprintf("%d+", a.n)
	}
	return fmt.Sprintf("%d", a.n)
}

// MatchFunc type-checks a call given the static types of its arguments.
// It returns the result type of the call, or false if this variant does not apply.
type MatchFunc func(lat types.Lattice, params []types.Type) (types.Type, bool)

// EvalFunc evaluates a call which has been accepted by the MatchFunc of the same Variant.
// ctx is passed through from the caller untouched.
type EvalFunc func(ctx context.Context, args []value.Value, result types.Type) value.Value

// PrettyFunc renders a call from its unevaluated arguments
type PrettyFunc func(args []expr.Expr, atPre string) string

// Variant is one overload of a named operation.
//
// Variants must not be modified once registered.
type Variant struct {
	Name string
	// Signature documents the types accepted, for listings and diagnostics
	Signature  string
	Arity      Arity
	Strictness Strictness
	// InfixOrPrefix is a rendering hint only
	InfixOrPrefix bool

	Match  MatchFunc
	Eval   EvalFunc
	Pretty PrettyFunc
}

var _ expr.Printer = (*Variant)(nil)

func (v *Variant) String() string {
	if v.Signature != "" {
		return v.Name + " : " + v.Signature
	}
	return v.Name + "/" + v.Arity.String()
}

func (v *Variant) validate() OpError {
	switch {
	case v.Name == "":
		return New(NewInvalidVariant{Name: v.Name, Reason: "missing name"})
	case v.Match == nil:
		return New(NewInvalidVariant{Name: v.Name, Reason: "missing match function"})
	case v.Eval == nil:
		return New(NewInvalidVariant{Name: v.Name, Reason: "missing evaluation function"})
	case v.Strictness != Strict && v.Strictness != Manual:
		return New(NewInvalidVariant{Name: v.Name, Reason: "unknown strictness " + v.Strictness.String()})
	}
	return nil
}

// Render renders a call of v, using its PrettyFunc if it has one
//
// Without a PrettyFunc, infix variants render as `lhs op rhs`, prefix ones as `op arg`
// and anything else as `receiver->op(args)`
func (v *Variant) Render(args []expr.Expr, atPre string) string {
	if v.Pretty != nil {
		return v.Pretty(args, atPre)
	}
	if v.InfixOrPrefix {
		switch len(args) {
		case 1:
			return v.Name + " " + expr.ExprString(args[0])
		case 2:
			return expr.ExprString(args[0]) + " " + v.Name + " " + expr.ExprString(args[1])
		}
	}
	if len(args) == 0 {
		return v.Name + atPre + "()"
	}
	sb := strings.Builder{}
	sb.WriteString(expr.ExprString(args[0]))
	sb.WriteString("->")
	sb.WriteString(v.Name)
	sb.WriteString(atPre)
	sb.WriteString("(")
	sb.WriteString(expr.Join(args[1:], ", "))
	sb.WriteString(")")
	return sb.String()
}
