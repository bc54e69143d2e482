package ops

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/cottand/ocl/expr"
	"github.com/cottand/ocl/internal/log"
	"github.com/cottand/ocl/types"
	"github.com/cottand/ocl/value"
	"github.com/pkg/errors"
)

var logger = expr.ExprLogger(log.DefaultLogger).With("section", "dispatch")

// Ambiguity decides what Resolve does when more than one variant matches a call
type Ambiguity int

const (
	// AmbiguityWarn picks the first registered variant and logs a warning
	AmbiguityWarn Ambiguity = iota
	// AmbiguityError fails resolution with AmbiguousOperation
	AmbiguityError
)

func ParseAmbiguity(s string) (Ambiguity, error) {
	switch strings.ToLower(s) {
	case "", "warn":
		return AmbiguityWarn, nil
	case "error":
		return AmbiguityError, nil
	}
	return AmbiguityWarn, fmt.Errorf("unknown ambiguity policy %q (want warn or error)", s)
}

func (a Ambiguity) String() string {
	if a == AmbiguityError {
		return "error"
	}
	return "warn"
}

// Dispatcher resolves calls against the variants of a Registry and evaluates them
type Dispatcher struct {
	registry  *Registry
	lattice   types.Lattice
	Ambiguity Ambiguity
}

func NewDispatcher(registry *Registry, lattice types.Lattice) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		lattice:  lattice,
	}
}

func (d *Dispatcher) Registry() *Registry { return d.registry }

// Resolved is a call which passed type-checking
type Resolved struct {
	Variant *Variant
	// Result is the static type of the call
	Result types.Type
	Params []types.Type
}

// Render renders the call with the given argument expressions
func (r Resolved) Render(args []expr.Expr, atPre string) string {
	return r.Variant.Render(args, atPre)
}

// Expr returns the call as an expression node, so it can be nested in other renderings
func (r Resolved) Expr(args []expr.Expr, atPre bool) *expr.Call {
	return &expr.Call{Printer: r.Variant, Args: args, AtPre: atPre}
}

// Resolve finds the variant of name applicable to arguments of types params.
//
// Variants are tried in registration order and the first match is selected.
// A failed resolution is a static type error and is reported as an OpError.
func (d *Dispatcher) Resolve(name string, params []types.Type) (Resolved, error) {
	candidates := d.registry.Lookup(name)
	if len(candidates) == 0 {
		return Resolved{}, New(NewUnknownOperation{Name: name})
	}
	logger := logger.With("op", name, "params", types.List(params, ", "))

	var resolved Resolved
	var matches []string
	if !slices.Contains(params, nil) {
		for _, candidate := range candidates {
			if !candidate.Arity.Accepts(len(params)) {
				continue
			}
			result, ok := candidate.Match(d.lattice, params)
			if !ok || result == nil {
				continue
			}
			logger.Debug("resolve: candidate matched", "variant", candidate, "result", result)
			matches = append(matches, fmt.Sprintf("%v -> %v", candidate, result))
			if resolved.Variant == nil {
				resolved = Resolved{Variant: candidate, Result: result, Params: slices.Clone(params)}
			}
		}
	}

	if resolved.Variant == nil {
		names := make([]string, 0, len(candidates))
		for _, candidate := range candidates {
			names = append(names, candidate.String())
		}
		logger.Debug("resolve: no candidate matched", "candidates", len(candidates))
		return Resolved{}, New(NewNoApplicableOperation{Name: name, Params: params, Candidates: names})
	}
	if len(matches) > 1 {
		if d.Ambiguity == AmbiguityError {
			return Resolved{}, New(NewAmbiguousOperation{Name: name, Params: params, Matches: matches})
		}
		logger.Warn("resolve: more than one variant matches, using the first registered", "matches", matches)
	}
	return resolved, nil
}

// Eval evaluates a resolved call.
//
// For Strict variants, an undefined argument makes the call evaluate to value.Undefined without
// the variant being invoked. Manual variants are always invoked.
//
// Eval panics if args does not fit the resolved call: that can only happen when the caller
// evaluates something other than what it type-checked.
func (d *Dispatcher) Eval(ctx context.Context, call Resolved, args []value.Value) value.Value {
	if call.Variant == nil {
		panic(errors.New("evaluating a call which was never resolved"))
	}
	if len(args) != len(call.Params) {
		panic(errors.Errorf("operation '%s' was resolved for %d arguments but evaluated with %d", call.Variant.Name, len(call.Params), len(args)))
	}
	if slices.Contains(args, nil) {
		panic(errors.Errorf("operation '%s' evaluated with a nil argument", call.Variant.Name))
	}
	// attached per record rather than through With, so the call is only rendered if logged
	rendered := call.Expr(expr.Lits(args...), false)
	if call.Variant.Strictness == Strict && slices.ContainsFunc(args, value.Value.IsUndefined) {
		logger.DebugContext(ctx, "eval: undefined argument, call is undefined", "call", rendered)
		return value.Undefined
	}
	result := call.Variant.Eval(ctx, args, call.Result)
	logger.DebugContext(ctx, "eval: evaluated", "call", rendered, "result", result)
	return result
}

// Call resolves name against the runtime types of args and evaluates it.
//
// The runtime type of value.Undefined is OclVoid, which says nothing about the static type it
// stands for: an undefined receiver such as in `including(Undefined, 5)` matches no variant
// and fails with NoApplicableOperation. Resolve with the static types and Eval instead.
func (d *Dispatcher) Call(ctx context.Context, name string, args ...value.Value) (value.Value, types.Type, error) {
	params := make([]types.Type, len(args))
	for i, arg := range args {
		if arg == nil {
			return nil, nil, fmt.Errorf("argument %d of '%s' is nil", i, name)
		}
		params[i] = arg.Type()
	}
	call, err := d.Resolve(name, params)
	if err != nil {
		return nil, nil, err
	}
	return d.Eval(ctx, call, args), call.Result, nil
}
