// Package config handles render configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/logger"
)

// ErrInvalidConfig is returned when a configuration value is out of range
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all raytracer settings.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Scene   SceneConfig   `yaml:"scene"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
}

// RenderConfig holds image and render loop settings.
type RenderConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	MaxDepth int `yaml:"max_depth"` // Reflection and refraction recursion limit
	Workers  int `yaml:"workers"`   // 0 uses one worker per CPU
	TileSize int `yaml:"tile_size"`
}

// SceneConfig selects the scene and its adjustable light.
type SceneConfig struct {
	Name   string  `yaml:"name"` // Built-in scene ID or path to a scene file
	Dir    string  `yaml:"dir"`  // Directory searched for scene files
	LightX float64 `yaml:"light_x"`
	LightZ float64 `yaml:"light_z"`
}

// OutputConfig holds image output settings.
type OutputConfig struct {
	Path    string `yaml:"path"` // Encoder is chosen by extension
	Verbose bool   `yaml:"verbose"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ServerConfig holds web front-end settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxPixels    int           `yaml:"max_pixels"` // Largest image a single request may render
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:    1024,
			Height:   768,
			MaxDepth: 5,
			Workers:  0,
			TileSize: 32,
		},
		Scene: SceneConfig{
			Name:   "default",
			Dir:    "scenes",
			LightX: 0,
			LightZ: 12,
		},
		Output: OutputConfig{
			Path:    "out/result.ppm",
			Verbose: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 2 * time.Minute,
			MaxPixels:    2048 * 2048,
		},
	}
}

// Validate reports the first setting that cannot be rendered with.
func (c *Config) Validate() error {
	switch {
	case c.Render.Width <= 0 || c.Render.Height <= 0:
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, c.Render.Width, c.Render.Height)
	case c.Render.MaxDepth < 0:
		return fmt.Errorf("%w: max_depth %d is negative", ErrInvalidConfig, c.Render.MaxDepth)
	case c.Render.Workers < 0:
		return fmt.Errorf("%w: workers %d is negative", ErrInvalidConfig, c.Render.Workers)
	case c.Render.TileSize < 0:
		return fmt.Errorf("%w: tile_size %d is negative", ErrInvalidConfig, c.Render.TileSize)
	case c.Scene.Name == "":
		return fmt.Errorf("%w: scene name is empty", ErrInvalidConfig)
	case c.Output.Path == "":
		return fmt.Errorf("%w: output path is empty", ErrInvalidConfig)
	case c.Server.MaxPixels < 0:
		return fmt.Errorf("%w: max_pixels %d is negative", ErrInvalidConfig, c.Server.MaxPixels)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
