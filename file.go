package gocfb

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/aligator/gocfb/checkpoint"
	"github.com/spf13/afero"
)

// These errors may occur while processing a file.
var (
	ErrReadFile = errors.New("could not read file completely")
	ErrSeekFile = errors.New("could not seek inside of the file")
	ErrReadDir  = errors.New("could not read the directory")
)

// cfbFileFs provides all methods needed from a compound file for File.
// It mainly exists to be able to mock the Reader in tests.
// Generated mock using mockgen:
//  mockgen -source=file.go -destination=file_mock.go -package gocfb
type cfbFileFs interface {
	streamData(id int32) []byte
	children(id int32) []DirEntry
}

// File is an afero.File for a storage (directory) or a stream (regular file).
// The stream content is assembled on the first read.
type File struct {
	fs   cfbFileFs
	path string

	entry DirEntry
	stat  os.FileInfo

	data   []byte
	loaded bool

	dirEntries []DirEntry
	offset     int64
}

func (f *File) Close() error {
	if f.fs == nil {
		return afero.ErrFileClosed
	}

	f.fs = nil
	f.path = ""
	f.entry = DirEntry{}
	f.stat = nil
	f.data = nil
	f.loaded = false
	f.dirEntries = nil
	f.offset = 0

	return nil
}

// content loads the stream once. The result is never longer than the size reported by Stat.
func (f *File) content() []byte {
	if !f.loaded {
		f.data = f.fs.streamData(f.entry.ID)
		if size := f.stat.Size(); int64(len(f.data)) > size {
			f.data = f.data[:size]
		}
		f.loaded = true
	}
	return f.data
}

func (f *File) Read(p []byte) (n int, err error) {
	if f.fs == nil {
		return 0, afero.ErrFileClosed
	}
	if f.entry.IsStorage() {
		return 0, checkpoint.Wrap(syscall.EISDIR, ErrReadFile)
	}
	if len(p) == 0 {
		return 0, nil
	}

	data := f.content()

	// Reading a file if the size has been already reached, makes no sense.
	if int64(len(data)) <= f.offset {
		return 0, io.EOF
	}

	n = copy(p, data[f.offset:])
	f.offset += int64(n)
	return n, nil
}

func (f *File) ReadAt(p []byte, off int64) (n int, err error) {
	if f.fs == nil {
		return 0, afero.ErrFileClosed
	}
	if f.entry.IsStorage() {
		return 0, checkpoint.Wrap(syscall.EISDIR, ErrReadFile)
	}
	if off < 0 {
		return 0, checkpoint.Wrap(syscall.EINVAL, fmt.Errorf("%w, negative offset: %v", ErrReadFile, off))
	}

	data := f.content()

	// Reading over the end makes no sense.
	if int64(len(data)) <= off {
		return 0, io.EOF
	}

	n = copy(p, data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Seek jumps to a specific offset in the file. This affects all Read operation except ReadAt.
// Offsets past the end are allowed, reading from there returns io.EOF.
// May return a syscall.EINVAL error if the whence value is invalid or the resulting offset is negative.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if f.fs == nil {
		return 0, afero.ErrFileClosed
	}

	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset = f.offset + offset
	case io.SeekEnd:
		offset = f.stat.Size() + offset
	default:
		return 0, checkpoint.Wrap(syscall.EINVAL, fmt.Errorf("%w, offset: %v, whence: %v", ErrSeekFile, offset, whence))
	}

	if offset < 0 {
		return 0, checkpoint.Wrap(syscall.EINVAL, fmt.Errorf("%w, offset: %v, whence: %v", ErrSeekFile, offset, whence))
	}

	f.offset = offset
	return offset, nil
}

func (f *File) Write(p []byte) (n int, err error) {
	return 0, syscall.EPERM
}

func (f *File) WriteAt(p []byte, off int64) (n int, err error) {
	return 0, syscall.EPERM
}

func (f *File) Name() string {
	return f.path
}

// Readdir reads the contents of a storage.
// With count > 0 at most count entries are returned and io.EOF once nothing is left.
// With count <= 0 all remaining entries are returned.
// May return syscall.ENOTDIR if the current File is a stream.
func (f *File) Readdir(count int) ([]os.FileInfo, error) {
	if f.fs == nil {
		return nil, afero.ErrFileClosed
	}
	if !f.entry.IsStorage() {
		return nil, checkpoint.Wrap(syscall.ENOTDIR, ErrReadDir)
	}

	if f.dirEntries == nil {
		f.dirEntries = f.fs.children(f.entry.ID)
		if f.dirEntries == nil {
			f.dirEntries = []DirEntry{}
		}
	}

	start := int(f.offset)
	if start > len(f.dirEntries) {
		start = len(f.dirEntries)
	}
	content := f.dirEntries[start:]

	if count > 0 {
		if len(content) == 0 {
			return []os.FileInfo{}, io.EOF
		}
		if count < len(content) {
			content = content[:count]
		}
	}

	f.offset = int64(start + len(content))

	result := make([]os.FileInfo, len(content))
	for i := range content {
		result[i] = content[i].FileInfo()
	}

	return result, nil
}

func (f *File) Readdirnames(count int) ([]string, error) {
	content, err := f.Readdir(count)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadDir)
	}

	names := make([]string, len(content))
	for i, entry := range content {
		names[i] = entry.Name()
	}

	return names, nil
}

func (f *File) Stat() (os.FileInfo, error) {
	if f.fs == nil {
		return nil, afero.ErrFileClosed
	}
	return f.stat, nil
}

func (f *File) Sync() error {
	return nil
}

func (f *File) Truncate(size int64) error {
	return syscall.EPERM
}

func (f *File) WriteString(s string) (ret int, err error) {
	return f.Write([]byte(s))
}
