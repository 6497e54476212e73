package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds a zap logger. "json" selects the production encoder,
// anything else the development console encoder.
func NewLogger(format string) (*zap.Logger, error) {
	switch format {
	case "json":
		return zap.NewProduction()
	case "", "console":
		return zap.NewDevelopment()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
