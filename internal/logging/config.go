// Package logging configures the process-wide zerolog logger used by
// framegraphd, the same way across the daemon and its tests: one
// profile chosen at startup, with environment overrides layered on
// top.
package logging

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel     = "FRAMEGRAPHD_LOG_LEVEL"
	EnvLogTimestamp = "FRAMEGRAPHD_LOG_TIMESTAMP"
	EnvLogNoColor   = "FRAMEGRAPHD_LOG_NOCOLOR"
)

// Profile selects a base logging configuration before env overrides
// are applied.
type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

type config struct {
	level     zerolog.Level
	timestamp bool
	noColor   bool
}

var configureOnce sync.Once

// ConfigureRuntime sets up the global logger for normal daemon
// operation: info level, timestamps on, console colors on.
func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

// ConfigureTests sets up the global logger for test binaries: debug
// level, no timestamps (keeps t.Log output diffable).
func ConfigureTests() {
	Configure(ProfileTest)
}

// Configure applies profile once per process; later calls are no-ops.
func Configure(profile Profile) {
	configureOnce.Do(func() {
		cfg := defaultConfig(profile)
		applyEnvOverrides(&cfg)

		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339, NoColor: cfg.noColor}
		logger := zerolog.New(output).Level(cfg.level).With().Str("app", "framegraphd").Logger()
		if cfg.timestamp {
			logger = logger.With().Timestamp().Logger()
		}
		log.Logger = logger
	})
}

func defaultConfig(profile Profile) config {
	switch profile {
	case ProfileTest:
		return config{level: zerolog.DebugLevel, timestamp: false}
	default:
		return config{level: zerolog.InfoLevel, timestamp: true}
	}
}

func applyEnvOverrides(cfg *config) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.noColor = v
	}
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
