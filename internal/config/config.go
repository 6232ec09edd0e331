package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the bridge's YAML configuration file.
type Config struct {
	Version int          `yaml:"version"`
	Serial  SerialConfig `yaml:"serial"`
	Server  ServerConfig `yaml:"server"`
	CEC     CECConfig    `yaml:"cec"`
	Player  PlayerConfig `yaml:"player"`
	Log     LogConfig    `yaml:"log"`

	// AudioStatusDelay debounces the CEC audio-status broadcast after
	// volume changes.
	AudioStatusDelay time.Duration `yaml:"audio_status_delay"`
}

// SerialConfig locates the serial adapter the processor is attached to.
// The processor itself is fixed at 9600 8N1; the baud rate is only
// overridable for bench setups with a protocol analyser in between.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// ServerConfig configures the HTTP/WebSocket monitor API.
type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	// MDNS advertises the monitor API as _av2bridge._tcp so the TUI can
	// find it without configuration.
	MDNS bool `yaml:"mdns"`
}

// CECConfig configures the HDMI-CEC side of the bridge.
type CECConfig struct {
	Enabled bool   `yaml:"enabled"`
	OSDName string `yaml:"osd_name"`
	// Client is the cec-client binary to drive.
	Client string `yaml:"client,omitempty"`
}

// PlayerConfig configures the local media player activity poller.
type PlayerConfig struct {
	Enabled    bool          `yaml:"enabled"`
	StatusFile string        `yaml:"status_file"`
	Interval   time.Duration `yaml:"interval"`
	// Input is the processor input to select when playback starts.
	Input string `yaml:"input"`
}

// LogConfig configures log level and optional file rotation.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version: 1,
		Serial: SerialConfig{
			Port: "/dev/ttyUSB0",
			Baud: 9600,
		},
		Server: ServerConfig{
			Enabled: true,
			Addr:    ":8090",
			MDNS:    true,
		},
		CEC: CECConfig{
			Enabled: true,
			OSDName: "AV2 Bridge",
			Client:  "cec-client",
		},
		Player: PlayerConfig{
			Enabled:  false,
			Interval: 2 * time.Second,
			Input:    "CO1",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
		AudioStatusDelay: time.Second,
	}
}

// Load reads a configuration file, filling unset fields with defaults. A
// missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the daemon cannot start
// with.
func (c *Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version: %d (expected 1)", c.Version)
	}
	if c.Serial.Port == "" {
		return fmt.Errorf("serial.port must be set")
	}
	if c.Serial.Baud <= 0 {
		return fmt.Errorf("serial.baud must be positive, got %d", c.Serial.Baud)
	}
	if c.Server.Enabled && c.Server.Addr == "" {
		return fmt.Errorf("server.addr must be set when the server is enabled")
	}
	if c.Player.Enabled {
		if c.Player.StatusFile == "" {
			return fmt.Errorf("player.status_file must be set when the poller is enabled")
		}
		if c.Player.Interval <= 0 {
			return fmt.Errorf("player.interval must be positive")
		}
	}
	if c.AudioStatusDelay < 0 {
		return fmt.Errorf("audio_status_delay must not be negative")
	}
	return nil
}

// Save writes the configuration to disk atomically.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# av2bridge configuration file
#
# The serial section must point at the adapter wired to the processor's
# RS232 port. Everything else has working defaults.

`)
	data = append(header, data...)

	// Write to temporary file first (atomic write)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}
