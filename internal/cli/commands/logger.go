package commands

import (
	"go.uber.org/zap"
)

// newLogger builds the console logger shared by the pipeline commands.
// Warnings and errors are always shown; verbose mode adds the rest.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
