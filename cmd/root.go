package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// NewRoot returns the ocl command with every subcommand attached
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "ocl [subcommand]",
		Short:        "ocl\n resolve and evaluate operations on OCL bags",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
	}
	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default ./ocl.yaml if present)")
	flags.IntP("log-level", "l", int(slog.LevelWarn), "log level")
	flags.String("ambiguity", "warn", "what to do when several variants match a call: warn or error")
	flags.StringP("output", "o", "table", "output format for listings: table or plain")

	root.AddCommand(newOpsCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newEvalCmd())
	return root
}
