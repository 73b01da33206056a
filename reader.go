package gocfb

import (
	"io"
	"path"
	"strings"

	"github.com/aligator/gocfb/checkpoint"
)

// Reader is a parsed compound file.
// Everything is derived once in New and never changed afterwards, so a Reader can be
// used from multiple goroutines without locking.
type Reader struct {
	data    []byte
	header  Header
	fat     []int32
	miniFAT []int32
	// miniStream holds the bytes of the stream starting at the root entry, addressed by the mini-FAT.
	miniStream []byte
	entries    []DirEntry
}

// New parses a complete compound file held in data.
// It only fails if data is not a compound file at all. Damaged chains or directory trees
// yield truncated results later on instead of errors.
// The Reader keeps a reference to data, which must not be modified afterwards.
func New(data []byte) (*Reader, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	r := &Reader{
		data:   data,
		header: header,
	}

	r.fat = buildFAT(header, data)
	r.entries = readDirectory(header, r.fileSource())
	r.miniFAT = buildMiniFAT(header, r.fileSource())

	root := r.entries[0]
	r.miniStream = r.fileSource().readSize(root.StartSector, root.Size)

	return r, nil
}

// NewFromReader reads everything from reader and parses it with New.
func NewFromReader(reader io.Reader) (*Reader, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrFormat)
	}
	return New(data)
}

func (r *Reader) fileSource() sectorSource {
	return sectorSource{
		table:      r.fat,
		sectorSize: r.header.SectorSize,
		data:       r.data,
		base:       r.header.SectorSize,
	}
}

func (r *Reader) miniSource() sectorSource {
	return sectorSource{
		table:      r.miniFAT,
		sectorSize: r.header.MiniSectorSize,
		data:       r.miniStream,
	}
}

// Header returns the decoded file header.
func (r *Reader) Header() Header {
	return r.header
}

// Entries returns a copy of all directory records in stream order, including unused ones.
func (r *Reader) Entries() []DirEntry {
	entries := make([]DirEntry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// Root returns the root storage.
func (r *Reader) Root() *Storage {
	return &Storage{r: r, entry: r.entries[0]}
}

// Storage returns the top-level storage with the given name, which is the root entry.
// The name is compared case-insensitively.
func (r *Reader) Storage(name string) (*Storage, error) {
	root := r.Root()
	if !strings.EqualFold(root.Name(), name) {
		return nil, &NotFoundError{Name: name}
	}
	return root, nil
}

// Lookup resolves a slash separated path relative to the root storage.
// Every element is matched case-insensitively. An empty path or "/" is the root.
func (r *Reader) Lookup(name string) (Entry, error) {
	cleaned := strings.Trim(path.Clean("/"+name), "/")
	if cleaned == "" {
		return r.Root(), nil
	}

	current := r.Root()
	elements := strings.Split(cleaned, "/")
	for i, element := range elements {
		child, ok := current.child(element)
		if !ok {
			return nil, &NotFoundError{Parent: current.Name(), Name: element}
		}

		if i == len(elements)-1 {
			return r.entry(child), nil
		}

		if !child.IsStorage() {
			return nil, &NotFoundError{Parent: child.Name, Name: elements[i+1]}
		}
		current = &Storage{r: r, entry: child}
	}

	return current, nil
}

func (r *Reader) entry(e DirEntry) Entry {
	if e.IsStorage() {
		return &Storage{r: r, entry: e}
	}
	return &Stream{r: r, entry: e}
}

// inMiniStream decides whether a stream of the given size resolves through the mini-FAT.
func (r *Reader) inMiniStream(size int64) bool {
	return size < int64(r.header.MiniStreamCutoff) && len(r.miniFAT) > 0
}

// streamBytes returns the content of a stream entry, trimmed to its declared size.
func (r *Reader) streamBytes(e DirEntry) []byte {
	if e.Size <= 0 {
		return []byte{}
	}

	if r.inMiniStream(e.Size) {
		return r.miniSource().readSize(e.StartSector, e.Size)
	}
	return r.fileSource().readSize(e.StartSector, e.Size)
}

// streamData implements cfbFileFs.
func (r *Reader) streamData(id int32) []byte {
	if id < 0 || int(id) >= len(r.entries) || !r.entries[id].IsStream() {
		return []byte{}
	}
	return r.streamBytes(r.entries[id])
}

// children implements cfbFileFs.
func (r *Reader) children(id int32) []DirEntry {
	return children(r.entries, id)
}
