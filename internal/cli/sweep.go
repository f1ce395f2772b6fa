package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/llm-d/mec-offload-game/internal/config"
	"github.com/llm-d/mec-offload-game/internal/diagnostics"
	"github.com/llm-d/mec-offload-game/pkg/solver"
)

type sweepOptions struct {
	*rootOptions
	gridFile    string
	steps       int
	levels      int
	others      int
	minInterior int
	output      string
}

func newSweepCommand(root *rootOptions) *cobra.Command {
	o := &sweepOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Search the constant space for games with interior best responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&o.gridFile, "grid", "", "grid file (yaml or json); defaults to the generator ranges")
	fs.IntVar(&o.steps, "steps", 3, "values per constant of the default grid")
	fs.IntVar(&o.levels, "levels", diagnostics.DefaultLevels, "offload levels of the other users per point")
	fs.IntVar(&o.others, "others", diagnostics.DefaultOthers, "number of other users per point")
	fs.IntVar(&o.minInterior, "min-interior", diagnostics.DefaultMinInterior, "interior responses above which a point is reported")
	fs.StringVar(&o.output, "output", "", "write the report here instead of stdout")
	config.RegisterFlags(fs)
	return cmd
}

func (o *sweepOptions) run(cmd *cobra.Command) error {
	format, err := o.outputFormat(o.output)
	if err != nil {
		return err
	}
	cfg, err := o.loadRunConfig(cmd)
	if err != nil {
		return err
	}
	grid, err := o.grid()
	if err != nil {
		return err
	}
	minimizer, err := solver.NewMinimizer(cfg.Minimizer, cfg.SolverOptions())
	if err != nil {
		return err
	}

	report, err := diagnostics.Sweep(cmd.Context(), grid, diagnostics.SweepOptions{
		Minimizer:   minimizer,
		Epsilon:     cfg.BoundaryEpsilon,
		Levels:      o.levels,
		Others:      o.others,
		MinInterior: o.minInterior,
		Workers:     cfg.Workers,
	})
	if err != nil {
		return err
	}
	if err := writeOutput(cmd, o.output, func(w io.Writer) error {
		return encode(w, report, format)
	}); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s of %s points evaluated, %s above %d interior responses (mean %s, max %s)\n", //nolint:errcheck
		humanize.Comma(int64(report.Evaluated)),
		humanize.Comma(int64(report.Points)),
		humanize.Comma(int64(len(report.Interesting))),
		o.minInterior,
		humanize.FtoaWithDigits(report.Summary.Mean, 2),
		humanize.Ftoa(report.Summary.Max))
	return nil
}

func (o *sweepOptions) grid() (diagnostics.Grid, error) {
	if o.gridFile == "" {
		if o.steps < 1 {
			return diagnostics.Grid{}, fmt.Errorf("steps must be >= 1, got %d", o.steps)
		}
		return diagnostics.DefaultGrid(o.steps), nil
	}
	data, err := os.ReadFile(o.gridFile)
	if err != nil {
		return diagnostics.Grid{}, fmt.Errorf("reading grid %s: %w", o.gridFile, err)
	}
	var g diagnostics.Grid
	if err := yaml.UnmarshalStrict(data, &g); err != nil {
		return diagnostics.Grid{}, fmt.Errorf("decoding grid %s: %w", o.gridFile, err)
	}
	if g.Size() == 0 {
		return diagnostics.Grid{}, fmt.Errorf("grid %s has an empty axis", o.gridFile)
	}
	if g.TransmRate <= 0 {
		return diagnostics.Grid{}, fmt.Errorf("grid %s needs a positive transmRate", o.gridFile)
	}
	return g, nil
}
