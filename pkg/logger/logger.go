// Package logger constructs the structured loggers threaded through every
// tracer subsystem. It exists because pkg/ignite historically imported
// "github.com/iamNilotpal/ignite/pkg/logger" for exactly this purpose without
// the package ever being checked in; this fills that gap for real.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
)

// New builds a *zap.SugaredLogger tagged with the given service name.
//
// The environment variable PASSOVER_ENV selects the zap preset: "production"
// (matched case-insensitively) uses zap.NewProduction for JSON output suitable
// for log aggregation; anything else ("development", "dev", or unset, the
// default) uses zap.NewDevelopment for human-readable console output.
// Construction failures fall back to zap.NewNop so that a misconfigured logging environment never prevents the
// tracer itself from starting.
func New(service string) *zap.SugaredLogger {
	var (
		base *zap.Logger
		err  error
	)

	if strings.EqualFold(os.Getenv("PASSOVER_ENV"), "production") {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		base = zap.NewNop()
	}

	return base.Sugar().With("service", service)
}
