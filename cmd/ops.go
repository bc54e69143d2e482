package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newOpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "ops [name]",
		Short:        "List the registered operations and their variants",
		RunE:         runOps,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
	}
}

func runOps(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	registry := s.dispatcher.Registry()
	names := registry.Names()
	if len(args) == 1 {
		if len(registry.Lookup(args[0])) == 0 {
			return fmt.Errorf("no operation named '%s'", args[0])
		}
		names = args
	}

	if s.cfg.Output == "plain" {
		for _, name := range names {
			for _, v := range registry.Lookup(name) {
				_, _ = fmt.Fprintf(s.out, "%s\t%s\t%s\t%s\n", v.Name, v.Arity, v.Strictness, v.Signature)
			}
		}
		return nil
	}

	t := s.newTable()
	t.AppendHeader(table.Row{"Operation", "Arity", "Undefined", "Signature"})
	for _, name := range names {
		for _, v := range registry.Lookup(name) {
			t.AppendRow(table.Row{v.Name, v.Arity.String(), v.Strictness.String(), v.Signature})
		}
	}
	t.Render()
	return nil
}
