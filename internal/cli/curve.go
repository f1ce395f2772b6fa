package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/llm-d/mec-offload-game/internal/config"
	"github.com/llm-d/mec-offload-game/internal/diagnostics"
	pkgconfig "github.com/llm-d/mec-offload-game/pkg/config"
	"github.com/llm-d/mec-offload-game/pkg/solver"
)

// curveReport is the output of the curve command.
type curveReport struct {
	System string              `json:"system"`
	User   int                 `json:"user"`
	Curves []diagnostics.Curve `json:"curves"`
}

type curveOptions struct {
	*rootOptions
	system  string
	user    int
	levels  int
	samples int
	output  string
}

func newCurveCommand(root *rootOptions) *cobra.Command {
	o := &curveOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Sample one user's utility against fixed offload levels of the others",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&o.system, "system", "", "system description file (yaml or json)")
	fs.IntVar(&o.user, "user", 0, "index of the user whose utility is sampled")
	fs.IntVar(&o.levels, "levels", 5, "offload levels of the other users")
	fs.IntVar(&o.samples, "samples", 101, "samples per curve")
	fs.StringVar(&o.output, "output", "", "write the curves here instead of stdout")
	config.RegisterFlags(fs)
	_ = cmd.MarkFlagRequired("system")
	return cmd
}

func (o *curveOptions) run(cmd *cobra.Command) error {
	format, err := o.outputFormat(o.output)
	if err != nil {
		return err
	}
	cfg, err := o.loadRunConfig(cmd)
	if err != nil {
		return err
	}
	spec, err := pkgconfig.LoadSystemSpec(o.system)
	if err != nil {
		return err
	}
	params, err := spec.ToParams()
	if err != nil {
		return err
	}
	minimizer, err := solver.NewMinimizer(cfg.Minimizer, cfg.SolverOptions())
	if err != nil {
		return err
	}

	curves, err := diagnostics.Curves(params, o.user, o.levels, o.samples, minimizer, cfg.BoundaryEpsilon)
	if err != nil {
		return fmt.Errorf("sampling curves: %w", err)
	}
	return writeOutput(cmd, o.output, func(w io.Writer) error {
		return encode(w, curveReport{System: o.system, User: o.user, Curves: curves}, format)
	})
}
