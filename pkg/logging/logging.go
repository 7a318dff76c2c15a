// Package logging builds the zap loggers used across aifeed.
package logging

import (
	"go.uber.org/zap"

	"aifeed/pkg/version"
)

// Setup builds a logger tagged with the application name and version.
// Debug mode switches to the development config so per-entry skip decisions
// become visible.
func Setup(debug bool, appName string) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": version.Get().Version,
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewExample(), err
	}

	zap.ReplaceGlobals(logger)
	return logger, nil
}
