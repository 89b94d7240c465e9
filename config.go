package frameflow

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Config.Validate and LoadConfig.
var ErrInvalidConfig = errors.New("invalid config")

// Duration is a time.Duration written as a string ("16ms") in config files.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config holds the frame timing and logging settings.
type Config struct {
	// FrameInterval is the expected time between two frames.
	FrameInterval Duration `toml:"frame_interval" yaml:"frame_interval"`
	// SafetyBuffer is kept free at the end of every frame by the MountScheduler.
	SafetyBuffer Duration `toml:"safety_buffer" yaml:"safety_buffer"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// DefaultConfig targets a 60Hz display.
func DefaultConfig() Config {
	return Config{
		FrameInterval: Duration{time.Second / 60},
		SafetyBuffer:  Duration{2 * time.Millisecond},
		LogLevel:      "info",
	}
}

func (c Config) Validate() error {
	if c.FrameInterval.Duration <= 0 {
		return fmt.Errorf("%w: frame_interval must be positive, got %s", ErrInvalidConfig, c.FrameInterval)
	}
	if c.SafetyBuffer.Duration < 0 || c.SafetyBuffer.Duration >= c.FrameInterval.Duration {
		return fmt.Errorf("%w: safety_buffer must be in [0, %s), got %s", ErrInvalidConfig, c.FrameInterval, c.SafetyBuffer)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel, an empty level means info.
func (c Config) Level() (log.Level, error) {
	if c.LogLevel == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return level, nil
}

// NewLogger returns a logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) *log.Logger {
	level, err := c.Level()
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// LoadConfig reads a TOML or YAML file, chosen by extension, on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, ext)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes the config as TOML, or YAML when format is "yaml".
func (c Config) Encode(w io.Writer, format string) error {
	switch format {
	case "", "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, format)
	}
}
