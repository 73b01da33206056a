// Package checkpoint decorates errors with the file and line they passed through,
// which results in something similar to a stacktrace.
// Each error added to a checkpoint can be checked by errors.Is and retrieved by errors.As.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// passThrough reports errors which callers compare by identity and which therefore must never be decorated.
// https://github.com/golang/go/issues/39155
func passThrough(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}

// From wraps an error by a new checkpoint which only adds the caller location.
// It returns nil, if err == nil.
func From(err error) error {
	if err == nil || passThrough(err) {
		return err
	}

	return newCheckpoint(err, nil)
}

// Wrap adds a checkpoint to prev and attaches err as the description of the checkpoint.
// Returns nil if prev == nil, so it can be used directly on a result:
//  var ErrOpen = errors.New("could not open the compound file")
//
//  func open(data []byte) error {
//  	err := parse(data)
//  	return checkpoint.Wrap(err, ErrOpen)
//  }
// errors.Is then matches ErrOpen and whatever parse returned.
func Wrap(prev, err error) error {
	if prev == nil || passThrough(prev) {
		return prev
	}

	return newCheckpoint(prev, err)
}

func newCheckpoint(prev, err error) error {
	// Skip newCheckpoint and the exported caller.
	_, file, line, ok := runtime.Caller(2)

	c := &checkpoint{
		err:  err,
		prev: prev,
	}
	if ok {
		c.location = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	return c
}

type checkpoint struct {
	err      error
	prev     error
	location string
}

func (c *checkpoint) Error() string {
	location := c.location
	if location == "" {
		location = "unknown"
	}

	prev := c.prev.Error()
	if _, ok := c.prev.(*checkpoint); !ok {
		prev = "at: unknown\n\t" + strings.ReplaceAll(prev, "\n", "\n\t")
	}

	if c.err == nil {
		return fmt.Sprintf("at: %s\n%v", location, prev)
	}
	return fmt.Sprintf("at: %s\n\t%v\n%v", location, c.err, prev)
}

func (c *checkpoint) Unwrap() error {
	return c.prev
}

func (c *checkpoint) Is(target error) bool {
	return c.err != nil && errors.Is(c.err, target)
}

func (c *checkpoint) As(target interface{}) bool {
	return c.err != nil && errors.As(c.err, target)
}
