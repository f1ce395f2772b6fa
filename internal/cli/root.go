/*
Copyright 2025 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package cli implements the mecgame command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llm-d/mec-offload-game/internal/config"
	"github.com/llm-d/mec-offload-game/internal/logging"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configFile  string
	verbosity   int
	development bool
	format      string
}

// NewRootCommand builds the mecgame command tree.
func NewRootCommand() *cobra.Command {
	o := &rootOptions{}

	root := &cobra.Command{
		Use:   "mecgame",
		Short: "Equilibrium solver for the MEC data offloading game",
		Long: `mecgame computes the Nash equilibrium of N users offloading data to a
shared edge server whose probability of failure grows with its load.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logging.NewLogger(o.verbosity, o.development)
			if err != nil {
				return fmt.Errorf("building logger: %w", err)
			}
			logging.SetLogger(log)
			cmd.SetContext(logging.IntoContext(cmd.Context(), log))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configFile, "config", "", "run configuration file (yaml or json)")
	pf.IntVarP(&o.verbosity, "verbosity", "v", 0, "log verbosity (1 debug, 2 trace)")
	pf.BoolVar(&o.development, "development", false, "human readable development logs")
	pf.StringVar(&o.format, "format", "", "output format (yaml|json); defaults from the output file extension")

	root.AddCommand(
		newRunCommand(o),
		newSweepCommand(o),
		newCurveCommand(o),
		newGenerateCommand(o),
	)
	return root
}

// loadRunConfig resolves the run configuration of cmd from its flags, the
// MECGAME_ environment and the --config file.
func (o *rootOptions) loadRunConfig(cmd *cobra.Command) (config.RunConfig, error) {
	v := config.NewViper()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return config.RunConfig{}, fmt.Errorf("binding flags: %w", err)
	}
	return config.Load(v, o.configFile)
}
