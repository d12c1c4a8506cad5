// Package config builds the immutable process configuration.
//
// Values are layered: Default, then an optional TOML file, then environment
// variables (optionally seeded from a .env file via LoadDotenv).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/hubenschmidt/go-puppyos/core"
)

// DefaultAssetMode is the asset mode baked in at build time, e.g.
//
//	go build -ldflags "-X github.com/hubenschmidt/go-puppyos/config.DefaultAssetMode=filesystem"
var DefaultAssetMode = "embedded"

const (
	EnvConfigFile  = "PUPPYOS_CONFIG"
	EnvAddr        = "PUPPYOS_ADDR"
	EnvMountPrefix = "PUPPYOS_MOUNT_PREFIX"
	EnvStaticDir   = "PUPPYOS_STATIC_DIR"
	EnvAssetMode   = "PUPPYOS_ASSET_MODE"
	EnvLogLevel    = "PUPPYOS_LOG_LEVEL"
	EnvJournalDSN  = "PUPPYOS_JOURNAL_DSN"
	EnvReadTimeout = "PUPPYOS_READ_TIMEOUT"
)

// Config is constructed once at startup and passed by value.
type Config struct {
	Addr          string        `toml:"addr"`
	MountPrefix   string        `toml:"mount_prefix"`
	UpgradePath   string        `toml:"upgrade_path"`
	StaticDir     string        `toml:"static_dir"`
	EntryDocument string        `toml:"entry_document"`
	AssetMode     AssetMode     `toml:"asset_mode"`
	LogLevel      string        `toml:"log_level"`
	JournalDSN    string        `toml:"journal_dsn"` // empty disables the dispatch journal
	ReadTimeout   time.Duration `toml:"read_timeout"`
	MaxAssetBytes int64         `toml:"max_asset_bytes"`
}

func Default() Config {
	mode, ok := ParseAssetMode(DefaultAssetMode)
	if !ok {
		mode = AssetsEmbedded
	}
	return Config{
		Addr:          ":8551",
		MountPrefix:   "/PuppyOS",
		UpgradePath:   "/ws",
		StaticDir:     "web/static",
		EntryDocument: "index.html",
		AssetMode:     mode,
		LogLevel:      "info",
		ReadTimeout:   5 * time.Second,
		MaxAssetBytes: 32 << 20,
	}
}

// Level returns the slog level for LogLevel.
func (c Config) Level() slog.Level {
	return ParseLogLevel(c.LogLevel)
}

// LoadDotenv seeds the environment from the given files (".env" when none
// are given). Missing files are ignored; variables already set win.
func LoadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load returns Default overlaid with the TOML file at path (if non-empty)
// and then the PUPPYOS_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAddr); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup(EnvMountPrefix); ok {
		cfg.MountPrefix = v
	}
	if v, ok := lookup(EnvStaticDir); ok && v != "" {
		cfg.StaticDir = v
	}
	if v, ok := lookup(EnvAssetMode); ok && v != "" {
		mode, valid := ParseAssetMode(v)
		if !valid {
			return fmt.Errorf("%w: %s=%q", core.ErrInvalidConfig, EnvAssetMode, v)
		}
		cfg.AssetMode = mode
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvJournalDSN); ok {
		cfg.JournalDSN = v
	}
	if v, ok := lookup(EnvReadTimeout); ok && v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", core.ErrInvalidConfig, EnvReadTimeout, v, err)
		}
		cfg.ReadTimeout = d
	}
	return nil
}

// parseDuration accepts Go duration syntax or a bare number of seconds.
func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(s)
}

func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is empty"))
	}
	if c.MountPrefix != "" && (!strings.HasPrefix(c.MountPrefix, "/") || c.MountPrefix == "/") {
		errs = append(errs, fmt.Errorf("mount_prefix %q must start with / and name a segment", c.MountPrefix))
	}
	if !strings.HasPrefix(c.UpgradePath, "/") {
		errs = append(errs, fmt.Errorf("upgrade_path %q must start with /", c.UpgradePath))
	}
	if c.EntryDocument == "" || strings.Contains(c.EntryDocument, "..") {
		errs = append(errs, fmt.Errorf("entry_document %q is invalid", c.EntryDocument))
	}
	if _, ok := assetModeNames[c.AssetMode]; !ok {
		errs = append(errs, fmt.Errorf("asset_mode %d is unknown", c.AssetMode))
	}
	if c.AssetMode == AssetsFilesystem && c.StaticDir == "" {
		errs = append(errs, errors.New("static_dir is required in filesystem mode"))
	}
	if c.ReadTimeout <= 0 {
		errs = append(errs, errors.New("read_timeout must be positive"))
	}
	if c.MaxAssetBytes <= 0 {
		errs = append(errs, errors.New("max_asset_bytes must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", core.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
