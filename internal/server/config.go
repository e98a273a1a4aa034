package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied for zero values in the YAML file.
const (
	DefaultListenAddr      = ":8080"
	DefaultMetricsAddr     = ":9090"
	DefaultScenarioPath    = "configs/solar_system.json"
	DefaultFrameIntervalMs = 33
	DefaultTimeSpeed       = 1.0
	DefaultFocusDurationMs = 1200
)

// Config is the orrery-server configuration file.
type Config struct {
	ListenAddr      string  `yaml:"listen_addr"`
	MetricsAddr     string  `yaml:"metrics_addr"`
	ScenarioPath    string  `yaml:"scenario"`
	FrameIntervalMs int     `yaml:"frame_interval_ms"`
	TimeSpeed       float64 `yaml:"time_speed"`
	StartPaused     bool    `yaml:"start_paused"`
	FocusDurationMs float64 `yaml:"focus_duration_ms"`

	// Default overview camera framing; the reset destination.
	Camera CameraConfig `yaml:"camera"`
}

// CameraConfig is the default overview framing.
type CameraConfig struct {
	Position PointConfig `yaml:"position"`
	Target   PointConfig `yaml:"target"`
}

// PointConfig is a 3D point in scene units.
type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// LoadConfig reads a YAML config file and fills in defaults for unset
// fields. A missing camera section defaults to a raised overview of the
// origin.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("LoadConfig: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("LoadConfig: parse %s: %w", path, err)
	}
	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.MetricsAddr == "" {
		c.MetricsAddr = DefaultMetricsAddr
	}
	if c.ScenarioPath == "" {
		c.ScenarioPath = DefaultScenarioPath
	}
	if c.FrameIntervalMs <= 0 {
		c.FrameIntervalMs = DefaultFrameIntervalMs
	}
	if c.TimeSpeed == 0 {
		c.TimeSpeed = DefaultTimeSpeed
	}
	if c.FocusDurationMs <= 0 {
		c.FocusDurationMs = DefaultFocusDurationMs
	}
	if c.Camera == (CameraConfig{}) {
		c.Camera = CameraConfig{
			Position: PointConfig{X: 0, Y: 150, Z: 280},
			Target:   PointConfig{},
		}
	}
	return c
}
