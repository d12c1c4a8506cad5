package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/hubenschmidt/go-puppyos/config"
	"github.com/hubenschmidt/go-puppyos/core"
)

var errTooLarge = errors.New("asset exceeds size limit")

// Filesystem reads assets from a directory on every request. Lookups go
// through an os.Root, so symlinks cannot reach outside the directory.
type Filesystem struct {
	root        *os.Root
	dir         string
	readTimeout time.Duration
	maxBytes    int64
	open        func(name string) (io.ReadCloser, error)
}

func NewFilesystem(dir string, readTimeout time.Duration, maxBytes int64) (*Filesystem, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open static root: %w", err)
	}
	return &Filesystem{
		root:        root,
		dir:         dir,
		readTimeout: readTimeout,
		maxBytes:    maxBytes,
		open:        func(name string) (io.ReadCloser, error) { return root.Open(name) },
	}, nil
}

func (s *Filesystem) Resolve(ctx context.Context, logicalPath string) (Asset, error) {
	name, ok := cleanName(logicalPath)
	if !ok {
		return Asset{}, core.NotFound("resolve file", logicalPath)
	}

	info, err := s.root.Stat(name)
	if err != nil {
		// Escapes, missing entries and non-directory parents all count as
		// misses. Only permission problems are surfaced.
		if errors.Is(err, fs.ErrPermission) {
			return Asset{}, core.AssetIO("stat", logicalPath, err)
		}
		return Asset{}, core.NotFound("resolve file", logicalPath)
	}
	if !info.Mode().IsRegular() {
		return Asset{}, core.NotFound("resolve file", logicalPath)
	}
	if info.Size() > s.maxBytes {
		return Asset{}, core.AssetIO("stat", logicalPath, errTooLarge)
	}

	data, err := s.read(ctx, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Asset{}, core.NotFound("resolve file", logicalPath)
		}
		return Asset{}, core.AssetIO("read", logicalPath, err)
	}
	return Asset{Name: name, Body: data, MIMEType: MIMEType(name)}, nil
}

type readResult struct {
	data []byte
	err  error
}

// read loads name in full, giving up after readTimeout so a stalled device
// cannot hold the request forever.
func (s *Filesystem) read(ctx context.Context, name string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.readTimeout)
	defer cancel()

	done := make(chan readResult, 1)
	go func() {
		f, err := s.open(name)
		if err != nil {
			done <- readResult{err: err}
			return
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, s.maxBytes+1))
		if err == nil && int64(len(data)) > s.maxBytes {
			err = errTooLarge
		}
		done <- readResult{data: data, err: err}
	}()

	select {
	case r := <-done:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Dir returns the configured root directory.
func (s *Filesystem) Dir() string {
	return s.dir
}

func (s *Filesystem) Mode() config.AssetMode {
	return config.AssetsFilesystem
}

func (s *Filesystem) Close() error {
	return s.root.Close()
}
