// Package env overlays SHYPN_* environment variables onto run settings,
// reading a local .env file first so runs can be pinned without exporting
// anything.
package env

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/simao-eugenio/shypn-sub007/sim"
)

// LoadEnv returns s with any SHYPN_SEED, SHYPN_DT, SHYPN_STEPS,
// SHYPN_POLICY, SHYPN_STORAGE and SHYPN_LOG overrides applied. Unparseable
// or invalid values are fatal: a run with half-applied settings is worse
// than no run.
func LoadEnv(logger *zap.Logger, s sim.Settings) sim.Settings {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("could not read .env file", zap.Error(err))
	}
	if v, ok := os.LookupEnv("SHYPN_SEED"); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			logger.Fatal("failed to parse SHYPN_SEED", zap.Error(err))
		}
		s.Seed = seed
	}
	if v, ok := os.LookupEnv("SHYPN_DT"); ok {
		dt, err := strconv.ParseFloat(v, 64)
		if err != nil {
			logger.Fatal("failed to parse SHYPN_DT", zap.Error(err))
		}
		s.Dt = dt
	}
	if v, ok := os.LookupEnv("SHYPN_STEPS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			logger.Fatal("failed to parse SHYPN_STEPS", zap.Error(err))
		}
		s.Steps = n
	}
	if v, ok := os.LookupEnv("SHYPN_POLICY"); ok {
		s.Policy = v
	}
	if v, ok := os.LookupEnv("SHYPN_STORAGE"); ok {
		s.Storage = v
	}
	if v, ok := os.LookupEnv("SHYPN_LOG"); ok {
		s.LogLevel = v
	}
	if err := s.Validate(); err != nil {
		logger.Fatal("invalid environment settings", zap.Error(err))
	}
	return s
}
