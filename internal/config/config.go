package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"milestone/internal/grid"
	"milestone/internal/storage"
)

const (
	AppName               = "milestone"
	DefaultConfigFileName = "config.toml"
	DefaultStatePath      = "app_data.json"
)

type Keymap struct {
	Quit     string `toml:"quit"`
	SaveExit string `toml:"save_exit"`
	Up       string `toml:"up"`
	Down     string `toml:"down"`
	Left     string `toml:"left"`
	Right    string `toml:"right"`
	Today    string `toml:"today"`
	Click    string `toml:"click"`
	EditMode string `toml:"edit_mode"`
	Add      string `toml:"add"`
	Confirm  string `toml:"confirm"`
	Cancel   string `toml:"cancel"`
}

type Config struct {
	StatePath string   `toml:"state_path"`
	Backend   string   `toml:"backend"`
	LogLevel  string   `toml:"log_level"`
	Ramp      []string `toml:"ramp"`
	Keys      Keymap   `toml:"keys"`
}

// ResolveConfigPath prefers the user config directory and falls back to
// the working directory when there is none.
func ResolveConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.StatePath == "" {
		cfg.StatePath = DefaultStatePath
	}
	if len(cfg.Ramp) == 0 {
		cfg.Ramp = defaultConfig().Ramp
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Backend) {
	case "", storage.BackendFile, storage.BackendSQLite:
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", storage.BackendFile, storage.BackendSQLite, c.Backend)
	}
	if _, err := grid.ParseRamp(c.Ramp); err != nil {
		return err
	}
	return nil
}

// ColorRamp returns the configured ramp. Call Validate first.
func (c Config) ColorRamp() grid.Ramp {
	r, err := grid.ParseRamp(c.Ramp)
	if err != nil {
		return grid.DefaultRamp()
	}
	return r
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	ramp := grid.DefaultRamp()
	return Config{
		StatePath: DefaultStatePath,
		Backend:   storage.BackendFile,
		LogLevel:  "info",
		Ramp:      ramp[:],
		Keys: Keymap{
			Quit:     "q",
			SaveExit: "s",
			Up:       "k",
			Down:     "j",
			Left:     "h",
			Right:    "l",
			Today:    "t",
			Click:    " ",
			EditMode: "e",
			Add:      "a",
			Confirm:  "enter",
			Cancel:   "esc",
		},
	}
}
