package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/cottand/ocl/internal/config"
	"github.com/cottand/ocl/internal/log"
	"github.com/cottand/ocl/ops"
	"github.com/cottand/ocl/types"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// session is what every subcommand needs: configuration, a hierarchy and a dispatcher
type session struct {
	cfg        *config.Config
	hierarchy  *types.Hierarchy
	dispatcher *ops.Dispatcher
	out        io.Writer
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgPath, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}
	log.SetLevel(slog.Level(cfg.Log.Level))
	log.EnableSections(cfg.Log.Sections...)

	h, err := hierarchyFrom(cfg.Classes)
	if err != nil {
		return nil, fmt.Errorf("could not build class hierarchy: %w", err)
	}
	ambiguity, err := ops.ParseAmbiguity(cfg.Dispatch.Ambiguity)
	if err != nil {
		return nil, err
	}
	d := ops.NewDispatcher(ops.Bootstrap(), h)
	d.Ambiguity = ambiguity

	return &session{
		cfg:        cfg,
		hierarchy:  h,
		dispatcher: d,
		out:        cmd.OutOrStdout(),
	}, nil
}

// hierarchyFrom defines classes so that every class comes after its parents
func hierarchyFrom(classes map[string][]string) (*types.Hierarchy, error) {
	h := types.NewHierarchy()
	pending := slices.Sorted(maps.Keys(classes))
	for len(pending) > 0 {
		var next []string
		for _, name := range pending {
			ready := !slices.ContainsFunc(classes[name], func(parent string) bool {
				_, defined := h.Class(parent)
				return !defined
			})
			if !ready {
				next = append(next, name)
				continue
			}
			if _, err := h.Define(name, classes[name]...); err != nil {
				return nil, err
			}
		}
		if len(next) == len(pending) {
			return nil, fmt.Errorf("classes with undefined or cyclic parents: %s", strings.Join(next, ", "))
		}
		pending = next
	}
	return h, nil
}

func (s *session) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(s.out)
	t.SetStyle(table.StyleDefault)
	if f, ok := s.out.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		t.SetStyle(table.StyleLight)
	}
	return t
}
