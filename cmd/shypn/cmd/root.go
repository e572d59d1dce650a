package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/simao-eugenio/shypn-sub007/env"
	"github.com/simao-eugenio/shypn-sub007/sim"
)

var (
	settingsFile string
	seed         int64
	dt           float64
	steps        int
	policy       string
	storage      string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "shypn",
	Short: "Hybrid Petri net simulator",
	Long: `shypn steps hybrid Petri nets through time: immediate, timed,
stochastic and continuous transitions over a shared marking, with
pluggable conflict resolution. Runs are reproducible from the seed.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&settingsFile, "settings", "f", "", "YAML settings file")
	pf.Int64VarP(&seed, "seed", "s", sim.DefaultSettings().Seed, "master RNG seed")
	pf.Float64VarP(&dt, "dt", "d", 0, "fixed time step; 0 jumps to the next schedule")
	pf.IntVarP(&steps, "steps", "n", sim.DefaultSettings().Steps, "maximum number of steps")
	pf.StringVarP(&policy, "policy", "p", "random", "conflict policy: random, priority, type, roundrobin")
	pf.StringVar(&storage, "storage", "sparse", "matrix storage: sparse or dense")
	pf.StringVar(&logLevel, "log", "info", "log level: debug, info, warn, error")
}

func buildLogger(level zapcore.Level) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

// loadSettings layers the run parameters: defaults, then the settings
// file, then SHYPN_* environment variables, then explicit flags.
func loadSettings(cmd *cobra.Command) (sim.Settings, error) {
	boot := buildLogger(zapcore.InfoLevel)
	defer func() { _ = boot.Sync() }()

	s := sim.DefaultSettings()
	if settingsFile != "" {
		loaded, err := sim.LoadSettings(settingsFile)
		if err != nil {
			return s, err
		}
		s = loaded
	}
	s = env.LoadEnv(boot, s)
	f := cmd.Flags()
	if f.Changed("seed") {
		s.Seed = seed
	}
	if f.Changed("dt") {
		s.Dt = dt
	}
	if f.Changed("steps") {
		s.Steps = steps
	}
	if f.Changed("policy") {
		s.Policy = policy
	}
	if f.Changed("storage") {
		s.Storage = storage
	}
	if f.Changed("log") {
		s.LogLevel = logLevel
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}
