// Package assets resolves logical request paths to static bytes.
//
// A Source is chosen once at startup from the configured asset mode and is
// safe for concurrent use. Resolve returns errors matching core.ErrNotFound
// for misses (including any path that would leave the asset root) and
// core.ErrAssetIO for read failures.
package assets

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/hubenschmidt/go-puppyos/config"
)

// Asset is a resolved static file. It is request-scoped and never cached
// between requests.
type Asset struct {
	Name     string
	Body     []byte
	MIMEType string
}

type Source interface {
	Resolve(ctx context.Context, logicalPath string) (Asset, error)
	Mode() config.AssetMode
	Close() error
}

// NewSource builds the Source for cfg.AssetMode. bundle is the compiled-in
// tree used by the embedded mode.
func NewSource(cfg config.Config, bundle fs.FS) (Source, error) {
	switch cfg.AssetMode {
	case config.AssetsEmbedded:
		return NewEmbedded(bundle)
	case config.AssetsFilesystem:
		return NewFilesystem(cfg.StaticDir, cfg.ReadTimeout, cfg.MaxAssetBytes)
	default:
		return nil, fmt.Errorf("unsupported asset mode %s", cfg.AssetMode)
	}
}

// cleanName turns a logical URL path into a slash-separated name relative
// to the asset root. It rejects any path with a ".." segment.
func cleanName(logicalPath string) (string, bool) {
	if strings.ContainsAny(logicalPath, "\x00\\") {
		return "", false
	}
	for _, seg := range strings.Split(logicalPath, "/") {
		if seg == ".." {
			return "", false
		}
	}

	name := strings.TrimPrefix(path.Clean("/"+logicalPath), "/")
	if name == "" || !fs.ValidPath(name) {
		return "", false
	}
	return name, true
}
