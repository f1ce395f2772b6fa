package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/llm-d/mec-offload-game/internal/logging"
	"github.com/llm-d/mec-offload-game/pkg/solver"
)

// InitPolicy selects how the strategy vector is seeded.
type InitPolicy string

const (
	// InitConstant seeds every user with a fixed fraction of its capacity.
	InitConstant InitPolicy = "constant"
	// InitZero seeds every user with zero offloading.
	InitZero InitPolicy = "zero"
)

// UpdateRule selects how a sweep applies best responses.
type UpdateRule string

const (
	// GaussSeidel updates users in order, in place: later users in a sweep see
	// the already updated strategies of earlier ones.
	GaussSeidel UpdateRule = "gauss-seidel"
	// Jacobi lets every user respond to the vector as it was at sweep start.
	Jacobi UpdateRule = "jacobi"
)

// Run configuration keys, shared by flags, environment and config files.
const (
	KeyTolerance          = "tolerance"
	KeyMaxIterations      = "max-iterations"
	KeyInitPolicy         = "init-policy"
	KeyInitFraction       = "init-fraction"
	KeyUpdateRule         = "update-rule"
	KeyMinimizer          = "minimizer"
	KeyMinimizerTolerance = "minimizer-tolerance"
	KeyMaxEvaluations     = "max-evaluations"
	KeyGridPoints         = "grid-points"
	KeyBoundaryEpsilon    = "boundary-epsilon"
	KeyWorkers            = "workers"

	// EnvPrefix prefixes environment overrides, e.g. MECGAME_MAX_ITERATIONS.
	EnvPrefix = "MECGAME"
)

// RunConfig holds the settings of one equilibrium run.
type RunConfig struct {
	// Tolerance is the absolute-or-relative change below which a strategy is
	// considered unchanged across a sweep.
	Tolerance float64 `mapstructure:"tolerance" yaml:"tolerance"`

	// MaxIterations caps the number of sweeps.
	MaxIterations int `mapstructure:"max-iterations" yaml:"maxIterations"`

	// InitPolicy and InitFraction seed the strategy vector.
	InitPolicy   InitPolicy `mapstructure:"init-policy" yaml:"initPolicy"`
	InitFraction float64    `mapstructure:"init-fraction" yaml:"initFraction"`

	// UpdateRule selects Gauss-Seidel (default) or Jacobi sweeps.
	UpdateRule UpdateRule `mapstructure:"update-rule" yaml:"updateRule"`

	// Minimizer selects the best-response search and its budget.
	Minimizer          solver.MinimizerKind `mapstructure:"minimizer" yaml:"minimizer"`
	MinimizerTolerance float64              `mapstructure:"minimizer-tolerance" yaml:"minimizerTolerance"`
	MaxEvaluations     int                  `mapstructure:"max-evaluations" yaml:"maxEvaluations"`
	GridPoints         int                  `mapstructure:"grid-points" yaml:"gridPoints"`

	// BoundaryEpsilon is the fraction of capacity within which a response
	// counts as offloading nothing or everything.
	BoundaryEpsilon float64 `mapstructure:"boundary-epsilon" yaml:"boundaryEpsilon"`

	// Workers bounds concurrency of Jacobi sweeps and diagnostics.
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// DefaultRunConfig returns the defaults used when nothing is configured.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Tolerance:          1e-3,
		MaxIterations:      100,
		InitPolicy:         InitConstant,
		InitFraction:       0.5,
		UpdateRule:         GaussSeidel,
		Minimizer:          solver.BrentKind,
		MinimizerTolerance: solver.DefaultTolerance,
		MaxEvaluations:     solver.DefaultMaxEvaluations,
		GridPoints:         solver.DefaultGridPoints,
		BoundaryEpsilon:    solver.DefaultBoundaryEpsilon,
		Workers:            4,
	}
}

// Validate checks for invalid configuration values.
func (c *RunConfig) Validate() error {
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be > 0, got %g", c.Tolerance)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("maxIterations must be >= 1, got %d", c.MaxIterations)
	}
	switch c.InitPolicy {
	case InitConstant, InitZero:
	default:
		return fmt.Errorf("unknown initPolicy %q", c.InitPolicy)
	}
	if c.InitFraction < 0 || c.InitFraction > 1 {
		return fmt.Errorf("initFraction must be between 0 and 1, got %.2f", c.InitFraction)
	}
	switch c.UpdateRule {
	case GaussSeidel, Jacobi:
	default:
		return fmt.Errorf("unknown updateRule %q", c.UpdateRule)
	}
	switch c.Minimizer {
	case solver.BrentKind, solver.GoldenKind, solver.GridKind:
	default:
		return fmt.Errorf("unknown minimizer %q", c.Minimizer)
	}
	if c.MinimizerTolerance <= 0 {
		return fmt.Errorf("minimizerTolerance must be > 0, got %g", c.MinimizerTolerance)
	}
	if c.MaxEvaluations < 1 {
		return fmt.Errorf("maxEvaluations must be >= 1, got %d", c.MaxEvaluations)
	}
	if c.GridPoints < 2 {
		return fmt.Errorf("gridPoints must be >= 2, got %d", c.GridPoints)
	}
	if c.BoundaryEpsilon < 0 || c.BoundaryEpsilon >= 0.5 {
		return fmt.Errorf("boundaryEpsilon must be in [0, 0.5), got %g", c.BoundaryEpsilon)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	return nil
}

// SolverOptions returns the minimizer options carried by the config.
func (c *RunConfig) SolverOptions() solver.Options {
	return solver.Options{
		Tolerance:      c.MinimizerTolerance,
		MaxEvaluations: c.MaxEvaluations,
		GridPoints:     c.GridPoints,
	}
}

// RegisterFlags declares the run configuration flags with their defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	d := DefaultRunConfig()
	fs.Float64(KeyTolerance, d.Tolerance, "convergence tolerance on strategy changes between sweeps")
	fs.Int(KeyMaxIterations, d.MaxIterations, "maximum number of best-response sweeps")
	fs.String(KeyInitPolicy, string(d.InitPolicy), "strategy initialization policy (constant|zero)")
	fs.Float64(KeyInitFraction, d.InitFraction, "fraction of capacity offloaded initially by the constant policy")
	fs.String(KeyUpdateRule, string(d.UpdateRule), "sweep update rule (gauss-seidel|jacobi)")
	fs.String(KeyMinimizer, string(d.Minimizer), "best-response minimizer (brent|golden|grid)")
	fs.Float64(KeyMinimizerTolerance, d.MinimizerTolerance, "absolute tolerance of the best-response search")
	fs.Int(KeyMaxEvaluations, d.MaxEvaluations, "objective evaluation budget per best response")
	fs.Int(KeyGridPoints, d.GridPoints, "samples used by the grid minimizer")
	fs.Float64(KeyBoundaryEpsilon, d.BoundaryEpsilon, "fraction of capacity treated as a boundary response")
	fs.Int(KeyWorkers, d.Workers, "worker goroutines for jacobi sweeps and diagnostics")
}

// NewViper returns a viper instance with run defaults and MECGAME_ environment
// overrides installed.
func NewViper() *viper.Viper {
	v := viper.New()
	d := DefaultRunConfig()
	v.SetDefault(KeyTolerance, d.Tolerance)
	v.SetDefault(KeyMaxIterations, d.MaxIterations)
	v.SetDefault(KeyInitPolicy, string(d.InitPolicy))
	v.SetDefault(KeyInitFraction, d.InitFraction)
	v.SetDefault(KeyUpdateRule, string(d.UpdateRule))
	v.SetDefault(KeyMinimizer, string(d.Minimizer))
	v.SetDefault(KeyMinimizerTolerance, d.MinimizerTolerance)
	v.SetDefault(KeyMaxEvaluations, d.MaxEvaluations)
	v.SetDefault(KeyGridPoints, d.GridPoints)
	v.SetDefault(KeyBoundaryEpsilon, d.BoundaryEpsilon)
	v.SetDefault(KeyWorkers, d.Workers)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the run configuration from v, optionally merging configFile first.
// Precedence: flags bound to v, environment, config file, defaults.
func Load(v *viper.Viper, configFile string) (RunConfig, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return RunConfig{}, fmt.Errorf("reading run config %s: %w", configFile, err)
		}
	}

	cfg := DefaultRunConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return RunConfig{}, fmt.Errorf("decoding run config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return RunConfig{}, fmt.Errorf("invalid run config: %w", err)
	}

	logging.Log().V(logging.DEBUG).Info("Loaded run config",
		"tolerance", cfg.Tolerance,
		"maxIterations", cfg.MaxIterations,
		"initPolicy", cfg.InitPolicy,
		"updateRule", cfg.UpdateRule,
		"minimizer", cfg.Minimizer)
	return cfg, nil
}
