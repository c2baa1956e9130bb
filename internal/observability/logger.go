// Package observability wires zerolog request logging and Prometheus
// metrics into framegraphd's gin admin API.
package observability

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger returns the process-wide configured logger. Call
// logging.ConfigureRuntime or logging.ConfigureTests before this, or
// it falls back to zerolog's unconfigured default.
func Logger() zerolog.Logger {
	return log.Logger
}
