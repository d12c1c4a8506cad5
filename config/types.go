package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// AssetMode selects where static bytes come from. It is fixed for the
// lifetime of the process.
type AssetMode int

const (
	AssetsEmbedded AssetMode = iota
	AssetsFilesystem
)

var assetModeNames = map[AssetMode]string{
	AssetsEmbedded:   "embedded",
	AssetsFilesystem: "filesystem",
}

var assetModeValues = map[string]AssetMode{
	"embedded":   AssetsEmbedded,
	"embed":      AssetsEmbedded,
	"filesystem": AssetsFilesystem,
	"fs":         AssetsFilesystem,
}

func (m AssetMode) String() string {
	if name, ok := assetModeNames[m]; ok {
		return name
	}
	return "unknown"
}

func ParseAssetMode(s string) (AssetMode, bool) {
	m, ok := assetModeValues[strings.ToLower(strings.TrimSpace(s))]
	return m, ok
}

func (m AssetMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *AssetMode) UnmarshalText(text []byte) error {
	parsed, ok := ParseAssetMode(string(text))
	if !ok {
		return fmt.Errorf("unknown asset mode %q", text)
	}
	*m = parsed
	return nil
}

// ParseLogLevel maps a verbosity name to a slog level. Unknown or empty
// values fall back to info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
