// Package config loads the application configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/motorig/internal/server"
	"github.com/zeusync/motorig/internal/simulation"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Log        LogConfig         `yaml:"log"`
	Simulation simulation.Config `yaml:"simulation"`
	Server     ServerConfig      `yaml:"server"`
	Viewer     ViewerConfig      `yaml:"viewer"`
	// ParamsFile is an optional YAML or JSON parameter set. Built-in
	// defaults are used when empty.
	ParamsFile string `yaml:"params_file"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Output is a zap output path. The terminal viewer owns the screen, so
	// logs go to a file by default.
	Output string `yaml:"output"`
}

type ServerConfig struct {
	server.Config `yaml:",inline"`

	Enabled bool `yaml:"enabled"`
}

type ViewerConfig struct {
	Enabled       bool          `yaml:"enabled"`
	CellsPerMeter float64       `yaml:"cells_per_meter"`
	FrameInterval time.Duration `yaml:"frame_interval"`
	StartRunning  bool          `yaml:"start_running"`
}

func Default() *Config {
	return &Config{
		Log:        LogConfig{Level: "info", Output: "motorig.log"},
		Simulation: simulation.DefaultConfig(),
		Server:     ServerConfig{Enabled: false, Config: server.DefaultServerConfig()},
		Viewer: ViewerConfig{
			Enabled:       true,
			CellsPerMeter: 40,
			FrameInterval: time.Second / 60,
			StartRunning:  true,
		},
	}
}

// LoadYAML decodes a config on top of the defaults.
func LoadYAML(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads path, or returns the defaults when path is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return LoadYAML(f)
}

func (c *Config) Validate() error {
	switch {
	case c.Simulation.TimeStep <= 0:
		return fmt.Errorf("%w: simulation.time_step must be positive", ErrInvalidConfig)
	case c.Viewer.Enabled && c.Viewer.CellsPerMeter <= 0:
		return fmt.Errorf("%w: viewer.cells_per_meter must be positive", ErrInvalidConfig)
	case c.Viewer.FrameInterval <= 0:
		return fmt.Errorf("%w: viewer.frame_interval must be positive", ErrInvalidConfig)
	case c.Server.Enabled && c.Server.ListenAddr == "":
		return fmt.Errorf("%w: server.listen_addr is required", ErrInvalidConfig)
	case !c.Viewer.Enabled && !c.Server.Enabled:
		return fmt.Errorf("%w: enable the viewer, the server or both", ErrInvalidConfig)
	}
	return nil
}
