package sim

import (
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	shypn "github.com/simao-eugenio/shypn-sub007"
	"github.com/simao-eugenio/shypn-sub007/conflict"
	"github.com/simao-eugenio/shypn-sub007/matrix"
)

// Settings bundles the run parameters a controller starts from. The zero
// value is not useful; start from DefaultSettings.
type Settings struct {
	// Seed is the master seed both RNG streams derive from.
	Seed int64 `yaml:"seed"`
	// Dt is the fixed time step. Zero means jump to the next scheduled
	// event instead of advancing by a fixed window.
	Dt float64 `yaml:"dt"`
	// Steps caps a Run loop.
	Steps int `yaml:"steps"`
	// Policy names the conflict resolution policy.
	Policy string `yaml:"policy"`
	// Storage names the incidence matrix storage strategy.
	Storage string `yaml:"storage"`
	// LogLevel is the zap level the CLI logs at.
	LogLevel string `yaml:"log"`
}

// DefaultSettings returns the canonical starting point: event-jump timing,
// random conflict resolution, sparse matrices.
func DefaultSettings() Settings {
	return Settings{
		Seed:     42,
		Dt:       0,
		Steps:    100,
		Policy:   conflict.Random.String(),
		Storage:  matrix.Sparse.String(),
		LogLevel: "info",
	}
}

// LoadSettings reads a YAML settings file over the defaults, so partial
// files work.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// Validate checks ranges and names. Violations wrap ErrInvalidParameter.
func (s Settings) Validate() error {
	if s.Dt < 0 {
		return fmt.Errorf("dt %g must not be negative: %w", s.Dt, shypn.ErrInvalidParameter)
	}
	if s.Steps < 0 {
		return fmt.Errorf("steps %d must not be negative: %w", s.Steps, shypn.ErrInvalidParameter)
	}
	if _, err := conflict.ParseKind(s.Policy); err != nil {
		return err
	}
	if _, err := matrix.ParseStorageKind(s.Storage); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("log level %q: %w", s.LogLevel, shypn.ErrInvalidParameter)
	}
	return nil
}

// PolicyKind returns the parsed conflict policy. Call Validate first.
func (s Settings) PolicyKind() conflict.Kind {
	k, _ := conflict.ParseKind(s.Policy)
	return k
}

// StorageKind returns the parsed storage strategy. Call Validate first.
func (s Settings) StorageKind() matrix.StorageKind {
	k, _ := matrix.ParseStorageKind(s.Storage)
	return k
}

// Level returns the parsed log level. Call Validate first.
func (s Settings) Level() zapcore.Level {
	l, _ := zapcore.ParseLevel(s.LogLevel)
	return l
}
