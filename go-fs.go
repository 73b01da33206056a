package gocfb

import (
	"errors"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/afero"
)

type GoDirEntry struct {
	fs.FileInfo
}

func (g GoDirEntry) Type() fs.FileMode {
	return g.FileInfo.Mode().Type()
}

func (g GoDirEntry) Info() (fs.FileInfo, error) {
	return g.FileInfo, nil
}

type GoFile struct {
	*File
}

func (g GoFile) Stat() (fs.FileInfo, error) {
	return g.File.Stat()
}

func (g GoFile) Read(bytes []byte) (int, error) {
	return g.File.Read(bytes)
}

func (g GoFile) Close() error {
	return g.File.Close()
}

func (g GoFile) ReadDir(n int) ([]fs.DirEntry, error) {
	entries, err := g.File.Readdir(n)

	goEntries := make([]fs.DirEntry, len(entries))
	for i, e := range entries {
		goEntries[i] = GoDirEntry{e}
	}

	return goEntries, err
}

// GoFs wraps the afero implementation to be compatible with fs.FS.
// Unlike Fs it only accepts names that satisfy fs.ValidPath.
type GoFs struct {
	*Fs
}

var (
	_ fs.FS     = GoFs{}
	_ fs.StatFS = GoFs{}
)

// NewGoFS opens a compound file from the given reader as fs.FS compatible filesystem.
func NewGoFS(reader io.Reader) (*GoFs, error) {
	cfs, err := OpenFs(reader)
	if err != nil {
		return nil, err
	}

	return &GoFs{cfs}, nil
}

// NewIOFS opens a compound file from the given reader and wraps it with afero.IOFS.
func NewIOFS(reader io.Reader) (afero.IOFS, error) {
	cfs, err := OpenFs(reader)
	if err != nil {
		return afero.IOFS{}, err
	}

	return afero.NewIOFS(cfs), nil
}

// toFsName converts an fs.FS name into a path for Fs.
func toFsName(op, name string) (string, error) {
	if !fs.ValidPath(name) || strings.Contains(name, `\`) {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return "", nil
	}
	return name, nil
}

func (g GoFs) Open(name string) (fs.File, error) {
	fsName, err := toFsName("open", name)
	if err != nil {
		return nil, err
	}

	file, err := g.Fs.Open(fsName)
	if err != nil {
		return nil, err
	}

	f, ok := file.(*File)
	if !ok {
		return nil, errors.New("invalid File implementation")
	}

	return GoFile{f}, nil
}

func (g GoFs) Stat(name string) (fs.FileInfo, error) {
	fsName, err := toFsName("stat", name)
	if err != nil {
		return nil, err
	}

	return g.Fs.Stat(fsName)
}
