package cmd

import (
	"fmt"

	"github.com/cottand/ocl/expr"
	"github.com/cottand/ocl/ops"
	"github.com/cottand/ocl/types"
	"github.com/cottand/ocl/value"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <operation> [value...]",
		Short: "Evaluate an operation over values written as YAML",
		Example: `  ocl eval union '{bag: [1, 2, 2, 3]}' '{bag: [2, 4]}'
  ocl eval intersection '{bag: [1, 2]}' '{set: [2, 3]}'
  ocl eval including '{undefined: Bag(Integer)}' 5
  ocl eval mkBagRange 1 3 8 10`,
		RunE:         runEval,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
	}
}

func runEval(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	name := args[0]
	params := make([]types.Type, 0, len(args)-1)
	values := make([]value.Value, 0, len(args)-1)
	for i, arg := range args[1:] {
		lit, err := value.DecodeYAML(arg, s.hierarchy)
		if err != nil {
			return fmt.Errorf("argument %d: %w", i+1, err)
		}
		params = append(params, lit.Type)
		values = append(values, lit.Value)
	}

	resolved, err := s.dispatcher.Resolve(name, params)
	if err != nil {
		if opErr, ok := err.(ops.OpError); ok {
			return fmt.Errorf("%s", ops.FormatWithCode(opErr))
		}
		return err
	}
	result := s.dispatcher.Eval(cmd.Context(), resolved, values)
	_, _ = fmt.Fprintf(s.out, "%s = %s : %s\n", resolved.Render(expr.Lits(values...), ""), result, resolved.Result)
	return nil
}
