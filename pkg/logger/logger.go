// Package logger builds the structured logger every journal instance
// carries through its constructors, a thin wrapper so call sites don't
// each repeat zap's construction boilerplate.
package logger

import (
	"go.uber.org/zap"
)

// New builds a production zap logger tagged with the given service
// name, falling back to a no-op logger if zap's own initialization
// fails (which in practice only happens under broken stderr/stdout
// file descriptors).
func New(service string) *zap.SugaredLogger {
	base, err := zap.NewProduction()
	if err != nil {
		base = zap.NewNop()
	}
	return base.With(zap.String("service", service)).Sugar()
}
