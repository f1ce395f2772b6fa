package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/llm-d/mec-offload-game/internal/actuator"
	"github.com/llm-d/mec-offload-game/internal/logging"
	pkgconfig "github.com/llm-d/mec-offload-game/pkg/config"
)

type generateOptions struct {
	*rootOptions
	gen         pkgconfig.GeneratorSpec
	useCase     string
	transmRate  float64
	transmPower float64
	decayK      float64
	keepBlock   bool
	output      string
}

func newGenerateCommand(root *rootOptions) *cobra.Command {
	o := &generateOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a system description with randomly drawn users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&o.useCase, "case", string(pkgconfig.Heterogeneous), "homo: all users share one draw; hetero: one draw per user")
	fs.IntVar(&o.gen.N, "users", 2, "number of users")
	fs.Uint64Var(&o.gen.Seed, "seed", 0, "seed of reproducible draws; 0 uses named random streams")
	fs.StringVar(&o.gen.Label, "label", "", "prefix of the named random streams")
	fs.Float64Var(&o.gen.Cpar, "cpar", pkgconfig.DefaultCpar, "price parameter in [0, 1]")
	fs.Float64Var(&o.gen.An, "an", pkgconfig.DefaultAn, "cost weight of every user")
	fs.Float64Var(&o.gen.Kn, "kn", pkgconfig.DefaultKn, "energy weight of every user")
	fs.Float64Var(&o.transmRate, "transm-rate", 1e6, "uplink rate in bits per second")
	fs.Float64Var(&o.transmPower, "transm-power", 0.1, "transmission power in watts")
	fs.Float64Var(&o.decayK, "decay-k", 0, "probability of failure steepness; 0 keeps the default")
	fs.BoolVar(&o.keepBlock, "keep-generate", false, "write the generate block instead of the drawn users")
	fs.StringVar(&o.output, "output", "", "write the system here instead of stdout")
	return cmd
}

func (o *generateOptions) run(cmd *cobra.Command) error {
	format, err := o.outputFormat(o.output)
	if err != nil {
		return err
	}

	gen := o.gen
	gen.Case = pkgconfig.Case(o.useCase)
	spec := &pkgconfig.SystemSpec{
		TransmRate:  o.transmRate,
		TransmPower: o.transmPower,
		DecayK:      o.decayK,
		Generate:    &gen,
	}
	if err := spec.Validate(); err != nil {
		return err
	}
	if !o.keepBlock {
		if spec, err = spec.Resolve(); err != nil {
			return err
		}
		// reject draws that do not make a well-formed game
		if _, err := spec.ToParams(); err != nil {
			return fmt.Errorf("generated system is not usable: %w", err)
		}
	}

	data, err := spec.Marshal(format == actuator.FormatJSON)
	if err != nil {
		return err
	}
	logging.FromContext(cmd.Context()).V(logging.DEBUG).Info("Generated system",
		"case", gen.Case,
		"users", gen.N,
		"seed", gen.Seed,
		"resolved", !o.keepBlock)
	return writeOutput(cmd, o.output, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
