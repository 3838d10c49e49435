package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"milestone/internal/grid"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if !reflect.DeepEqual(cfg, defaultConfig()) {
		t.Errorf("got %+v, want defaults", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	again, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(again, cfg) {
		t.Errorf("reloaded config differs:\n got  %+v\n want %+v", again, cfg)
	}
}

func TestLoadOrCreateFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "backend = \"sqlite\"\n\n[keys]\nquit = \"x\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if cfg.Backend != "sqlite" {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.Keys.Quit != "x" {
		t.Errorf("Keys.Quit = %q", cfg.Keys.Quit)
	}
	if cfg.Keys.Click != " " {
		t.Errorf("unset keys should keep defaults, Click = %q", cfg.Keys.Click)
	}
	if cfg.StatePath != DefaultStatePath {
		t.Errorf("StatePath = %q", cfg.StatePath)
	}
	if cfg.ColorRamp() != grid.DefaultRamp() {
		t.Errorf("ramp = %v", cfg.ColorRamp())
	}
}

func TestLoadOrCreateRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"backend":  "backend = \"postgres\"\n",
		"ramp":     "ramp = [\"#000000\", \"#111111\"]\n",
		"not toml": "state_path = \n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadOrCreate(path); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("HOME", "/tmp/home")
	got := ResolveConfigPath()
	if filepath.Base(got) != DefaultConfigFileName {
		t.Errorf("ResolveConfigPath() = %q", got)
	}
	if filepath.Base(filepath.Dir(got)) != AppName {
		t.Errorf("ResolveConfigPath() = %q, want it under %s/", got, AppName)
	}
}
