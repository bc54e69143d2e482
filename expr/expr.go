// Package expr holds the argument syntax nodes operations are rendered from.
//
// Nodes are never evaluated here: the surrounding evaluator owns evaluation,
// these only exist so calls can be shown in diagnostics.
package expr

import (
	"github.com/cottand/ocl/value"
)

// AtPre is the marker appended to an operation name when it refers to the pre-state
const AtPre = "@pre"

type Expr interface {
	exprNode()
}

// Printer renders a call of an operation from its argument expressions
type Printer interface {
	Render(args []Expr, atPre string) string
}

var (
	_ Expr = (*Literal)(nil)
	_ Expr = (*Var)(nil)
	_ Expr = (*Source)(nil)
	_ Expr = (*Call)(nil)
)

// Literal is a constant value
type Literal struct {
	Value value.Value
}

// Var refers to a variable by name
type Var struct {
	Name string
}

// Source is an already rendered expression
type Source struct {
	Text string
}

// Call is the application of an operation, rendered by Printer
type Call struct {
	Printer Printer
	Args    []Expr
	AtPre   bool
}

func (*Literal) exprNode() {}
func (*Var) exprNode()     {}
func (*Source) exprNode()  {}
func (*Call) exprNode()    {}

func (e *Literal) String() string { return ExprString(e) }
func (e *Var) String() string     { return ExprString(e) }
func (e *Source) String() string  { return ExprString(e) }
func (e *Call) String() string    { return ExprString(e) }

func Lit(v value.Value) *Literal { return &Literal{Value: v} }

// Lits wraps each value as a Literal
func Lits(vs ...value.Value) []Expr {
	exprs := make([]Expr, 0, len(vs))
	for _, v := range vs {
		exprs = append(exprs, Lit(v))
	}
	return exprs
}
