// Package config loads the classifier's YAML configuration. Secrets
// (Supabase, Redis) come from the environment, loaded via godotenv in main.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Extractors ExtractorsConfig `yaml:"extractors"`
	Rolling    RollingConfig    `yaml:"rolling"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Env  string `yaml:"env"`
}

// ExtractorsConfig carries the channel extractor thresholds. The scoring
// weights themselves are product logic and stay fixed in code.
type ExtractorsConfig struct {
	EdgeThreshold             float64  `yaml:"edge_threshold"`
	IdleThresholdSeconds      float64  `yaml:"idle_threshold_seconds"`
	ShortcutKeys              []string `yaml:"shortcut_keys"`
	RapidKeySeconds           float64  `yaml:"rapid_key_seconds"`
	BackspaceBurstSeconds     float64  `yaml:"backspace_burst_seconds"`
	RapidSwitchSeconds        float64  `yaml:"rapid_switch_seconds"`
	SuspiciousResizeThreshold float64  `yaml:"suspicious_resize_threshold"`
}

// RollingConfig carries the live-scoring request defaults.
type RollingConfig struct {
	IntervalSeconds   int `yaml:"interval_seconds"`
	WindowSizeSeconds int `yaml:"window_size_seconds"`
	FallbackLimit     int `yaml:"fallback_limit"`
}

type MonitoringConfig struct {
	EnableLiveStream bool `yaml:"enable_live_stream"`
}

// Default returns the built-in configuration, matching the deployed
// thresholds.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", Env: "development"},
		Extractors: ExtractorsConfig{
			EdgeThreshold:             0.05,
			IdleThresholdSeconds:      2.0,
			ShortcutKeys:              []string{"Control", "Alt", "Tab", "Meta", "Shift"},
			RapidKeySeconds:           0.1,
			BackspaceBurstSeconds:     1.0,
			RapidSwitchSeconds:        2.0,
			SuspiciousResizeThreshold: 0.8,
		},
		Rolling: RollingConfig{
			IntervalSeconds:   300,
			WindowSizeSeconds: 900,
			FallbackLimit:     100,
		},
		Monitoring: MonitoringConfig{EnableLiveStream: true},
	}
}

// Load reads the YAML config at path, overlaying it on the defaults. A
// missing file is not an error: the defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
