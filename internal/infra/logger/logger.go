// Package logger builds the process zap logger.
package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a JSON production logger for prod environments and a
// human-readable development logger otherwise.
func New(env string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(env) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build(zap.Fields(zap.String("service", "shipyard")))
}
