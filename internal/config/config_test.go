package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Serial.Port != "/dev/ttyUSB0" || cfg.Serial.Baud != 9600 {
		t.Errorf("unexpected serial defaults: %+v", cfg.Serial)
	}
	if cfg.AudioStatusDelay != time.Second {
		t.Errorf("AudioStatusDelay = %v, want 1s", cfg.AudioStatusDelay)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
version: 1
serial:
  port: /dev/ttyAMA0
player:
  enabled: true
  status_file: /run/player/status
  interval: 5s
  input: OP1
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Serial.Port != "/dev/ttyAMA0" {
		t.Errorf("Serial.Port = %q, want /dev/ttyAMA0", cfg.Serial.Port)
	}
	if cfg.Serial.Baud != 9600 {
		t.Errorf("Serial.Baud = %d, unset field should keep the default", cfg.Serial.Baud)
	}
	if !cfg.Player.Enabled || cfg.Player.Interval != 5*time.Second || cfg.Player.Input != "OP1" {
		t.Errorf("unexpected player config: %+v", cfg.Player)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "wrong version",
			mutate:  func(c *Config) { c.Version = 2 },
			wantErr: "unsupported config version",
		},
		{
			name:    "empty serial port",
			mutate:  func(c *Config) { c.Serial.Port = "" },
			wantErr: "serial.port",
		},
		{
			name:    "zero baud",
			mutate:  func(c *Config) { c.Serial.Baud = 0 },
			wantErr: "serial.baud",
		},
		{
			name: "enabled server without address",
			mutate: func(c *Config) {
				c.Server.Enabled = true
				c.Server.Addr = ""
			},
			wantErr: "server.addr",
		},
		{
			name: "enabled poller without status file",
			mutate: func(c *Config) {
				c.Player.Enabled = true
				c.Player.StatusFile = ""
			},
			wantErr: "player.status_file",
		},
		{
			name:    "negative debounce",
			mutate:  func(c *Config) { c.AudioStatusDelay = -time.Second },
			wantErr: "audio_status_delay",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Serial.Port = "/dev/ttyAMA0"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# av2bridge configuration file") {
		t.Error("saved file missing header comment")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Serial.Port != cfg.Serial.Port {
		t.Errorf("Serial.Port = %q after round trip, want %q", loaded.Serial.Port, cfg.Serial.Port)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}
