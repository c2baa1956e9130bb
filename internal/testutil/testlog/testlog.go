// Package testlog configures logging for framegraphd's test binaries.
package testlog

import (
	"testing"

	"github.com/danmuck/framegraph/internal/logging"
)

// Start configures the debug-level, timestamp-free test logging
// profile for t. It is safe to call from many tests and packages
// since the underlying configuration only ever applies once per
// process.
func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
}
