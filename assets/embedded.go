package assets

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/hubenschmidt/go-puppyos/config"
	"github.com/hubenschmidt/go-puppyos/core"
)

// Embedded serves a fixed set of files loaded once from a compiled-in tree.
type Embedded struct {
	files map[string][]byte
}

// NewEmbedded snapshots every regular file in bundle.
func NewEmbedded(bundle fs.FS) (*Embedded, error) {
	files := make(map[string][]byte)
	err := fs.WalkDir(bundle, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		data, err := fs.ReadFile(bundle, name)
		if err != nil {
			return err
		}
		files[name] = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load embedded assets: %w", err)
	}
	return &Embedded{files: files}, nil
}

func (e *Embedded) Resolve(ctx context.Context, logicalPath string) (Asset, error) {
	name, ok := cleanName(logicalPath)
	if !ok {
		return Asset{}, core.NotFound("resolve embedded", logicalPath)
	}
	data, ok := e.files[name]
	if !ok {
		return Asset{}, core.NotFound("resolve embedded", logicalPath)
	}
	return Asset{Name: name, Body: data, MIMEType: MIMEType(name)}, nil
}

// Len reports how many files are baked in.
func (e *Embedded) Len() int {
	return len(e.files)
}

func (e *Embedded) Mode() config.AssetMode {
	return config.AssetsEmbedded
}

func (e *Embedded) Close() error {
	return nil
}
