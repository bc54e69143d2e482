package cmd

import (
	"fmt"

	"github.com/cottand/ocl/expr"
	"github.com/cottand/ocl/ops"
	"github.com/cottand/ocl/types"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <operation> [type...]",
		Short: "Type-check a call of an operation given the types of its arguments",
		Example: `  ocl check union 'Bag(Integer)' 'Set(Real)'
  ocl check mkBag Integer String`,
		RunE:         runCheck,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	name := args[0]
	params := make([]types.Type, 0, len(args)-1)
	for _, arg := range args[1:] {
		t, err := s.hierarchy.Parse(arg)
		if err != nil {
			return err
		}
		params = append(params, t)
	}

	resolved, err := s.dispatcher.Resolve(name, params)
	if err != nil {
		if opErr, ok := err.(ops.OpError); ok {
			return fmt.Errorf("%s", ops.FormatWithCode(opErr))
		}
		return err
	}

	// render the call with the argument types standing in for expressions
	argExprs := make([]expr.Expr, len(params))
	for i, param := range params {
		argExprs[i] = &expr.Source{Text: param.String()}
	}
	_, _ = fmt.Fprintf(s.out, "%s : %s\n", resolved.Render(argExprs, ""), resolved.Result)
	return nil
}
