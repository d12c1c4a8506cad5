package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hubenschmidt/go-puppyos/core"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"info", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseAssetMode(t *testing.T) {
	tests := []struct {
		in     string
		want   AssetMode
		wantOK bool
	}{
		{"embedded", AssetsEmbedded, true},
		{"Filesystem", AssetsFilesystem, true},
		{"fs", AssetsFilesystem, true},
		{"s3", AssetsEmbedded, false},
	}

	for _, tt := range tests {
		got, ok := ParseAssetMode(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("ParseAssetMode(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load(\"\") mismatch (-want +got):\n%s", diff)
	}
	if cfg.Addr != ":8551" || cfg.UpgradePath != "/ws" || cfg.MountPrefix != "/PuppyOS" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadTOMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "puppyos.toml")
	data := `
addr = ":9000"
mount_prefix = "/Desk"
asset_mode = "filesystem"
static_dir = "/srv/static"
read_timeout = "2s"
log_level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvAddr, ":9100")
	t.Setenv(EnvLogLevel, "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.Addr = ":9100"
	want.MountPrefix = "/Desk"
	want.AssetMode = AssetsFilesystem
	want.StaticDir = "/srv/static"
	want.ReadTimeout = 2 * time.Second
	want.LogLevel = "error"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Level() != slog.LevelError {
		t.Errorf("Level() = %v", cfg.Level())
	}
}

func TestLoadRejectsUnknownAssetMode(t *testing.T) {
	t.Setenv(EnvAssetMode, "tape")
	_, err := Load("")
	if !errors.Is(err, core.ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadReadTimeoutSeconds(t *testing.T) {
	t.Setenv(EnvReadTimeout, "7")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ReadTimeout != 7*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.ReadTimeout)
	}
}

func TestLoadEmptyPrefixDisablesStripping(t *testing.T) {
	t.Setenv(EnvMountPrefix, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MountPrefix != "" {
		t.Errorf("MountPrefix = %q", cfg.MountPrefix)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Addr = "" }},
		{"bare slash prefix", func(c *Config) { c.MountPrefix = "/" }},
		{"relative upgrade path", func(c *Config) { c.UpgradePath = "ws" }},
		{"escaping entry document", func(c *Config) { c.EntryDocument = "../index.html" }},
		{"filesystem without root", func(c *Config) { c.AssetMode = AssetsFilesystem; c.StaticDir = "" }},
		{"zero timeout", func(c *Config) { c.ReadTimeout = 0 }},
		{"zero max size", func(c *Config) { c.MaxAssetBytes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, core.ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadDotenv(t *testing.T) {
	const key = "PUPPYOS_TEST_DOTENV"
	os.Unsetenv(key)
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(key+"=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := LoadDotenv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotenv: %v", err)
	}
	if got := os.Getenv(key); got != "from-file" {
		t.Errorf("%s = %q", key, got)
	}
}
