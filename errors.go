package gocfb

import (
	"errors"
	"fmt"
	"io/fs"
)

// These errors may occur while opening a compound file or navigating it.
var (
	ErrFormat   = errors.New("not a compound file")
	ErrNotFound = errors.New("entry not found")
)

// FormatError is returned when the buffer cannot be a compound file at all:
// it is too small, has a wrong signature or an unusable sector geometry.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v: %s", ErrFormat, e.Reason)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// NotFoundError is returned when a storage has no child with the requested name.
// It matches ErrNotFound and fs.ErrNotExist.
type NotFoundError struct {
	Parent string
	Name   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%q not found in %q", e.Name, e.Parent)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound || target == fs.ErrNotExist
}
