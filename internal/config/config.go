// Package config loads framegraphd's server configuration from TOML.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ServerConfig configures one framegraphd admin API instance.
type ServerConfig struct {
	Addr        string         `toml:"addr"`
	CorsOrigins []string       `toml:"cors_origins"`
	AdminToken  string         `toml:"admin_token"`
	Odometry    OdometryConfig `toml:"odometry"`
}

// OdometryConfig configures the differential-drive odometry source
// wired into the frame named Frame under root. Frame left empty
// disables the odometry source entirely.
type OdometryConfig struct {
	Frame            string  `toml:"frame"`
	WheelSeparation  float64 `toml:"wheel_separation"`
	LeftWheelRadius  float64 `toml:"left_wheel_radius"`
	RightWheelRadius float64 `toml:"right_wheel_radius"`
	WindowSize       int     `toml:"window_size"`
}

// DefaultServerConfig matches what a bare "framegraphd" with no config
// file produces.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:        ":8080",
		CorsOrigins: []string{"http://localhost:3000"},
		Odometry: OdometryConfig{
			Frame:            "robot",
			WheelSeparation:  0.5,
			LeftWheelRadius:  0.05,
			RightWheelRadius: 0.05,
			WindowSize:       10,
		},
	}
}

// LoadServerConfig reads and validates a TOML config file, filling in
// defaults for anything left unset.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = DefaultServerConfig().Addr
	}
	if err := ValidateServerConfig(cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// ValidateServerConfig rejects configurations the server cannot run
// with.
func ValidateServerConfig(cfg ServerConfig) error {
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("server config missing addr")
	}
	if cfg.Odometry.Frame != "" {
		if cfg.Odometry.WheelSeparation <= 0 {
			return fmt.Errorf("odometry config needs a positive wheel_separation")
		}
		if cfg.Odometry.LeftWheelRadius <= 0 || cfg.Odometry.RightWheelRadius <= 0 {
			return fmt.Errorf("odometry config needs positive wheel radii")
		}
	}
	return nil
}
