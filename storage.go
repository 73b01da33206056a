package gocfb

import "strings"

// Entry is either a *Storage or a *Stream.
type Entry interface {
	Name() string
	DirEntry() DirEntry
}

// Storage is a handle on a storage entry, the directory of a compound file.
// Its children are computed from the directory tree on every call.
type Storage struct {
	r     *Reader
	entry DirEntry
}

// Name returns the decoded entry name.
func (s *Storage) Name() string {
	return s.entry.Name
}

// DirEntry returns the underlying directory record.
func (s *Storage) DirEntry() DirEntry {
	return s.entry
}

func (s *Storage) child(name string) (DirEntry, bool) {
	for _, c := range children(s.r.entries, s.entry.ID) {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return DirEntry{}, false
}

// Storage returns the child storage with the given name, compared case-insensitively.
func (s *Storage) Storage(name string) (*Storage, error) {
	for _, c := range children(s.r.entries, s.entry.ID) {
		if c.IsStorage() && strings.EqualFold(c.Name, name) {
			return &Storage{r: s.r, entry: c}, nil
		}
	}
	return nil, &NotFoundError{Parent: s.Name(), Name: name}
}

// Stream returns the child stream with the given name, compared case-insensitively.
func (s *Storage) Stream(name string) (*Stream, error) {
	for _, c := range children(s.r.entries, s.entry.ID) {
		if c.IsStream() && strings.EqualFold(c.Name, name) {
			return &Stream{r: s.r, entry: c}, nil
		}
	}
	return nil, &NotFoundError{Parent: s.Name(), Name: name}
}

// Entries returns the direct children in tree order.
func (s *Storage) Entries() []Entry {
	list := children(s.r.entries, s.entry.ID)

	result := make([]Entry, len(list))
	for i, c := range list {
		result[i] = s.r.entry(c)
	}
	return result
}

// VisitEntries calls fn once for every direct child in tree order.
// If recursive is set it descends into each child storage right after visiting it.
// Every storage is entered at most once, even if a damaged tree lists it several times.
func (s *Storage) VisitEntries(fn func(Entry), recursive bool) {
	s.visit(fn, recursive, map[int32]bool{s.entry.ID: true})
}

func (s *Storage) visit(fn func(Entry), recursive bool, entered map[int32]bool) {
	for _, e := range s.Entries() {
		fn(e)

		storage, ok := e.(*Storage)
		if !recursive || !ok || entered[storage.entry.ID] {
			continue
		}

		entered[storage.entry.ID] = true
		storage.visit(fn, recursive, entered)
	}
}

// Stream is a handle on a stream entry.
type Stream struct {
	r     *Reader
	entry DirEntry
}

// Name returns the decoded entry name.
func (s *Stream) Name() string {
	return s.entry.Name
}

// DirEntry returns the underlying directory record.
func (s *Stream) DirEntry() DirEntry {
	return s.entry
}

// Size returns the declared size of the stream.
func (s *Stream) Size() int64 {
	return s.entry.Size
}

// InMiniStream reports whether the content is stored in the mini-stream.
func (s *Stream) InMiniStream() bool {
	return s.entry.Size > 0 && s.r.inMiniStream(s.entry.Size)
}

// Data returns the content of the stream. The result is never longer than Size,
// but may be shorter if the sector chain is damaged.
// Every call returns a new slice.
func (s *Stream) Data() []byte {
	return s.r.streamBytes(s.entry)
}
