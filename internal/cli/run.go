package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/llm-d/mec-offload-game/internal/actuator"
	"github.com/llm-d/mec-offload-game/internal/config"
	"github.com/llm-d/mec-offload-game/internal/engines/initializer"
	"github.com/llm-d/mec-offload-game/internal/metrics"
	"github.com/llm-d/mec-offload-game/internal/optimizer"
	pkgconfig "github.com/llm-d/mec-offload-game/pkg/config"
	"github.com/llm-d/mec-offload-game/pkg/solver"
)

type runOptions struct {
	*rootOptions
	system      string
	output      string
	metricsFile string
	name        string
}

func newRunCommand(root *rootOptions) *cobra.Command {
	o := &runOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute the equilibrium of a system and write the run record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&o.system, "system", "", "system description file (yaml or json)")
	fs.StringVar(&o.output, "output", "", "write the run record here instead of stdout")
	fs.StringVar(&o.metricsFile, "metrics-file", "", "write run metrics in the Prometheus text format to this file")
	fs.StringVar(&o.name, "name", "", "record name; defaults to the system file name")
	config.RegisterFlags(fs)
	_ = cmd.MarkFlagRequired("system")
	return cmd
}

func (o *runOptions) run(cmd *cobra.Command) error {
	ctx := cmd.Context()

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
	seeder, err := initializer.NewInitializer(cfg.InitPolicy, cfg.InitFraction)
	if err != nil {
		return err
	}
	minimizer, err := solver.NewMinimizer(cfg.Minimizer, cfg.SolverOptions())
	if err != nil {
		return err
	}
	loop, err := optimizer.NewLoop(params, cfg, seeder, minimizer)
	if err != nil {
		return err
	}

	start := time.Now()
	res, runErr := loop.Run(ctx)
	elapsed := time.Since(start)

	reg := prometheus.NewRegistry()
	collectors, err := metrics.NewCollectors(reg)
	if err != nil {
		return err
	}
	actuator.NewActuator(collectors).Actuate(ctx, res, elapsed)

	record := res.Record(o.recordName(), time.Now())
	if err := writeOutput(cmd, o.output, func(w io.Writer) error {
		return actuator.WriteRecord(w, record, format)
	}); err != nil {
		return err
	}
	if o.metricsFile != "" {
		if err := metrics.WriteTextfile(reg, o.metricsFile); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.ErrOrStderr(), summaryLine(res, elapsed)) //nolint:errcheck
	return runErr
}

func (o *runOptions) recordName() string {
	if o.name != "" {
		return o.name
	}
	base := filepath.Base(o.system)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func summaryLine(res optimizer.Result, elapsed time.Duration) string {
	return fmt.Sprintf("%s after %s sweeps (%s evaluations, %s): PoF %s, %s offloaded by %d users",
		res.State,
		humanize.Comma(int64(res.Sweeps)),
		humanize.Comma(int64(res.Evaluations)),
		elapsed.Round(time.Microsecond),
		humanize.FtoaWithDigits(res.PoF, 4),
		humanize.SIWithDigits(floats.Sum(res.Strategies), 2, "bit"),
		len(res.Strategies))
}
