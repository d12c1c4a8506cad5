package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("asset not found")
	ErrAssetIO           = errors.New("asset read failed")
	ErrDisallowedUpgrade = errors.New("upgrade target not allowed")
	ErrBindFailure       = errors.New("bind failed")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// DispatchError carries the operation and logical path that failed. Path is
// for logs only and must never be written to a response.
type DispatchError struct {
	Op   string
	Path string
	Err  error
}

func (e *DispatchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s [path=%s]: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

func NewDispatchError(op, path string, err error) *DispatchError {
	return &DispatchError{Op: op, Path: path, Err: err}
}

// NotFound reports a lookup miss for path.
func NotFound(op, path string) error {
	return NewDispatchError(op, path, ErrNotFound)
}

// AssetIO wraps cause so that it matches both ErrAssetIO and cause.
func AssetIO(op, path string, cause error) error {
	return NewDispatchError(op, path, fmt.Errorf("%w: %w", ErrAssetIO, cause))
}
