package gocfb

import (
	"io"
	"os"
	"syscall"
	"time"

	"github.com/aligator/gocfb/checkpoint"
	"github.com/spf13/afero"
)

// Fs is a read-only afero.Fs over a compound file.
// Storages are directories and streams are files. Paths are resolved case-insensitively
// starting at the root storage.
type Fs struct {
	reader *Reader
}

var _ afero.Fs = &Fs{}

// NewFs wraps an already parsed compound file.
func NewFs(reader *Reader) *Fs {
	return &Fs{reader: reader}
}

// OpenFs buffers the whole input of reader and opens it as afero.Fs.
func OpenFs(reader io.Reader) (*Fs, error) {
	r, err := NewFromReader(reader)
	if err != nil {
		return nil, err
	}
	return NewFs(r), nil
}

// Reader returns the underlying compound file.
func (fs *Fs) Reader() *Reader {
	return fs.reader
}

func (fs *Fs) Create(name string) (afero.File, error) {
	return nil, &os.PathError{Op: "create", Path: name, Err: syscall.EPERM}
}

func (fs *Fs) Mkdir(name string, perm os.FileMode) error {
	return &os.PathError{Op: "mkdir", Path: name, Err: syscall.EPERM}
}

func (fs *Fs) MkdirAll(path string, perm os.FileMode) error {
	return &os.PathError{Op: "mkdir", Path: path, Err: syscall.EPERM}
}

func (fs *Fs) Open(name string) (afero.File, error) {
	entry, err := fs.reader.Lookup(name)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: checkpoint.From(err)}
	}

	dirEntry := entry.DirEntry()
	return &File{
		fs:    fs.reader,
		path:  name,
		entry: dirEntry,
		stat:  dirEntry.FileInfo(),
	}, nil
}

// OpenFile only supports opening for reading.
func (fs *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0 {
		return nil, &os.PathError{Op: "open", Path: name, Err: syscall.EPERM}
	}
	return fs.Open(name)
}

func (fs *Fs) Remove(name string) error {
	return &os.PathError{Op: "remove", Path: name, Err: syscall.EPERM}
}

func (fs *Fs) RemoveAll(path string) error {
	return &os.PathError{Op: "remove", Path: path, Err: syscall.EPERM}
}

func (fs *Fs) Rename(oldname, newname string) error {
	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: syscall.EPERM}
}

func (fs *Fs) Stat(name string) (os.FileInfo, error) {
	entry, err := fs.reader.Lookup(name)
	if err != nil {
		return nil, &os.PathError{Op: "stat", Path: name, Err: checkpoint.From(err)}
	}
	return entry.DirEntry().FileInfo(), nil
}

func (fs *Fs) Name() string {
	return "CompoundFileFs"
}

func (fs *Fs) Chmod(name string, mode os.FileMode) error {
	return &os.PathError{Op: "chmod", Path: name, Err: syscall.EPERM}
}

func (fs *Fs) Chown(name string, uid, gid int) error {
	return &os.PathError{Op: "chown", Path: name, Err: syscall.EPERM}
}

func (fs *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return &os.PathError{Op: "chtimes", Path: name, Err: syscall.EPERM}
}
