package gocfb

import (
	"os"
	"time"
)

// FileInfo describes the entry like os.Stat would describe a file.
// Storages are directories, streams are regular files.
func (e DirEntry) FileInfo() os.FileInfo {
	return dirEntryFileInfo{e}
}

type dirEntryFileInfo struct {
	entry DirEntry
}

func (e dirEntryFileInfo) Name() string {
	return e.entry.Name
}

// Size returns the declared stream size. Storages and negative sizes report 0.
func (e dirEntryFileInfo) Size() int64 {
	if e.IsDir() || e.entry.Size < 0 {
		return 0
	}
	return e.entry.Size
}

func (e dirEntryFileInfo) Mode() os.FileMode {
	if e.IsDir() {
		return os.ModeDir | 0555
	}
	return 0444
}

// ModTime uses the modification time and falls back to the creation time.
// Both are zero for most entries.
func (e dirEntryFileInfo) ModTime() time.Time {
	if modified := e.entry.ModificationTime(); !modified.IsZero() {
		return modified
	}
	return e.entry.CreationTime()
}

func (e dirEntryFileInfo) IsDir() bool {
	return e.entry.IsStorage()
}

func (e dirEntryFileInfo) Sys() interface{} {
	return e.entry
}
