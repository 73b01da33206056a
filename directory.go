package gocfb

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-restruct/restruct"
	"golang.org/x/text/encoding/unicode"
)

// RootEntryName is the name authoring tools give entry 0.
const RootEntryName = "Root Entry"

// DirEntry is one decoded record of the directory stream.
type DirEntry struct {
	// ID is the index of the entry in the directory stream.
	ID   int32
	Name string
	Kind Kind

	Color byte
	Left  int32
	Right int32
	Child int32

	CLSID     [16]byte
	StateBits uint32
	Created   uint64
	Modified  uint64

	StartSector int32
	Size        int64
}

// IsStorage reports whether the entry can have children.
func (e DirEntry) IsStorage() bool {
	return e.Kind == KindStorage || e.Kind == KindRoot
}

// IsStream reports whether the entry holds data.
func (e DirEntry) IsStream() bool {
	return e.Kind == KindStream
}

// CreationTime converts the creation FILETIME of the entry.
func (e DirEntry) CreationTime() time.Time {
	return ParseFiletime(e.Created)
}

// ModificationTime converts the modification FILETIME of the entry.
func (e DirEntry) ModificationTime() time.Time {
	return ParseFiletime(e.Modified)
}

var utf16Decoding = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// decodeName decodes the UTF-16LE name, honoring the stored byte length and cutting at the terminating NUL.
func decodeName(raw [64]byte, length uint16) string {
	n := int(length)
	if n > len(raw) {
		n = len(raw)
	}
	n &^= 1

	name, err := utf16Decoding.NewDecoder().Bytes(raw[:n])
	if err != nil {
		return ""
	}

	result := string(name)
	if i := strings.IndexByte(result, 0); i >= 0 {
		result = result[:i]
	}
	return result
}

// decodeDirEntry decodes a single 128 byte record.
func decodeDirEntry(id int32, record []byte) DirEntry {
	raw := rawDirEntry{}
	if err := restruct.Unpack(record[:DirEntrySize], binary.LittleEndian, &raw); err != nil {
		// Only possible for short records, which the caller never passes.
		return DirEntry{ID: id, Left: NoStream, Right: NoStream, Child: NoStream}
	}

	return DirEntry{
		ID:          id,
		Name:        decodeName(raw.Name, raw.NameLength),
		Kind:        Kind(raw.Kind),
		Color:       raw.Color,
		Left:        raw.Left,
		Right:       raw.Right,
		Child:       raw.Child,
		CLSID:       raw.CLSID,
		StateBits:   raw.StateBits,
		Created:     raw.Created,
		Modified:    raw.Modified,
		StartSector: raw.StartSector,
		Size:        raw.Size,
	}
}

// readDirectory materializes the directory stream and decodes all complete records.
// If no record can be read an empty root storage is returned so that entry 0 always exists.
func readDirectory(h Header, file sectorSource) []DirEntry {
	stream := file.read(h.FirstDirSector)

	entries := make([]DirEntry, len(stream)/DirEntrySize)
	for i := range entries {
		entries[i] = decodeDirEntry(int32(i), stream[i*DirEntrySize:(i+1)*DirEntrySize])
	}

	if len(entries) == 0 {
		entries = append(entries, DirEntry{
			Name:        RootEntryName,
			Kind:        KindRoot,
			Left:        NoStream,
			Right:       NoStream,
			Child:       NoStream,
			StartSector: EndOfChain,
		})
	}

	return entries
}

// children returns the direct children of the entry at parent in tree order.
// The siblings form a binary search tree keyed by name, so an in-order walk
// starting at the child link yields them sorted.
// An index that was seen before is dropped, which ends any cycle. Unused records are skipped.
func children(entries []DirEntry, parent int32) []DirEntry {
	if parent < 0 || int(parent) >= len(entries) || !entries[parent].IsStorage() {
		return nil
	}

	valid := func(id int32) bool {
		return id >= 0 && int(id) < len(entries)
	}

	var (
		result  []DirEntry
		stack   []int32
		visited = make(map[int32]bool)
		current = entries[parent].Child
	)

	for {
		// Descend along the left links.
		for valid(current) && !visited[current] {
			visited[current] = true
			stack = append(stack, current)
			current = entries[current].Left
		}

		if len(stack) == 0 {
			break
		}

		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if entries[id].Kind != KindUnused {
			result = append(result, entries[id])
		}
		current = entries[id].Right
	}

	return result
}
