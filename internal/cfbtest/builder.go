// Package cfbtest writes small but valid compound files for tests and fixtures.
// The layout is deterministic: FAT sectors, DIFAT sectors, directory, mini-FAT,
// mini-stream and finally the regular streams, each stored contiguously.
package cfbtest

import (
	"encoding/binary"
	"sort"
	"strings"
	"time"

	"github.com/aligator/gocfb"
	"golang.org/x/text/encoding/unicode"
)

// Node is a storage or stream to write.
type Node struct {
	Name     string
	Storage  bool
	Data     []byte
	Modified time.Time
	Children []*Node
}

// Stream returns a stream node.
func Stream(name string, data []byte) *Node {
	return &Node{Name: name, Data: data}
}

// Storage returns a storage node.
func Storage(name string, children ...*Node) *Node {
	return &Node{Name: name, Storage: true, Children: children}
}

// Root returns the root storage named "Root Entry".
func Root(children ...*Node) *Node {
	return Storage(gocfb.RootEntryName, children...)
}

// Options control the geometry of the written file. Zero values select the usual defaults.
type Options struct {
	// SectorShift defaults to 9 (512 byte sectors).
	SectorShift uint16
	// MiniSectorShift defaults to 6 (64 byte mini sectors).
	MiniSectorShift uint16
	// MiniStreamCutoff defaults to 4096.
	MiniStreamCutoff int32
	// HeaderFATSlots limits the FAT locators kept in the header, the rest go to DIFAT sectors.
	// Defaults to 109.
	HeaderFATSlots int
	// NoMiniStream stores every stream in regular sectors and writes no mini-FAT.
	NoMiniStream bool
}

func (o Options) withDefaults() Options {
	if o.SectorShift == 0 {
		o.SectorShift = 9
	}
	if o.MiniSectorShift == 0 {
		o.MiniSectorShift = 6
	}
	if o.MiniStreamCutoff == 0 {
		o.MiniStreamCutoff = 4096
	}
	if o.HeaderFATSlots <= 0 || o.HeaderFATSlots > gocfb.HeaderDIFATSlots {
		o.HeaderFATSlots = gocfb.HeaderDIFATSlots
	}
	return o
}

// StreamLayout tells where a stream was stored.
type StreamLayout struct {
	Start int32
	Mini  bool
}

// Layout describes where the builder placed everything, so tests can patch the result.
type Layout struct {
	SectorSize     int
	MiniSectorSize int

	FATSectors   []int32
	DIFATSectors []int32

	DirStart        int32
	DirSectors      int
	MiniFATStart    int32
	MiniStreamStart int32

	// Entries maps the slash separated path of every node to its directory index. The root is "".
	Entries map[string]int32
	Streams map[string]StreamLayout
}

// SectorOffset returns the file offset of a regular sector.
func (l *Layout) SectorOffset(id int32) int {
	return (int(id) + 1) * l.SectorSize
}

// FATEntryOffset returns the file offset of the FAT link of sector id.
func (l *Layout) FATEntryOffset(id int32) int {
	perSector := int32(l.SectorSize / 4)
	return l.SectorOffset(l.FATSectors[id/perSector]) + int(id%perSector)*4
}

// DirEntryOffset returns the file offset of a directory record. The directory is contiguous.
func (l *Layout) DirEntryOffset(id int32) int {
	return l.SectorOffset(l.DirStart) + int(id)*gocfb.DirEntrySize
}

// PutInt32 overwrites a little endian int32 at off.
func PutInt32(buf []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(buf[off:], uint32(v))
}

// PutInt64 overwrites a little endian int64 at off.
func PutInt64(buf []byte, off int, v int64) {
	binary.LittleEndian.PutUint64(buf[off:], uint64(v))
}

// Directory record field offsets.
const (
	EntryLeftOffset  = 68
	EntryRightOffset = 72
	EntryChildOffset = 76
	EntryStartOffset = 116
	EntrySizeOffset  = 120
)

type flatEntry struct {
	node               *Node
	path               string
	left, right, child int32
	start              int32
	size               int64
}

var utf16Encoding = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func encodeName(name string) []byte {
	encoded, err := utf16Encoding.NewEncoder().Bytes([]byte(name))
	if err != nil {
		return nil
	}
	// 31 characters and the terminator fill the 64 byte field.
	if len(encoded) > 62 {
		encoded = encoded[:62]
	}
	return encoded
}

// lessName is the sibling order of the directory tree: shorter names first,
// names of equal length compared upper cased.
func lessName(a, b string) bool {
	la, lb := len(encodeName(a)), len(encodeName(b))
	if la != lb {
		return la < lb
	}
	return strings.ToUpper(a) < strings.ToUpper(b)
}

func flatten(root *Node) []*flatEntry {
	entries := []*flatEntry{{node: root, left: gocfb.NoStream, right: gocfb.NoStream, child: gocfb.NoStream}}

	var tree func(ids []int32) int32
	tree = func(ids []int32) int32 {
		if len(ids) == 0 {
			return gocfb.NoStream
		}
		mid := len(ids) / 2
		entries[ids[mid]].left = tree(ids[:mid])
		entries[ids[mid]].right = tree(ids[mid+1:])
		return ids[mid]
	}

	queue := []int32{0}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]

		kids := make([]*Node, len(entries[parent].node.Children))
		copy(kids, entries[parent].node.Children)
		sort.SliceStable(kids, func(i, j int) bool {
			return lessName(kids[i].Name, kids[j].Name)
		})

		ids := make([]int32, len(kids))
		for i, kid := range kids {
			path := kid.Name
			if parent != 0 {
				path = entries[parent].path + "/" + kid.Name
			}
			ids[i] = int32(len(entries))
			entries = append(entries, &flatEntry{node: kid, path: path, left: gocfb.NoStream, right: gocfb.NoStream, child: gocfb.NoStream})
			if kid.Storage {
				queue = append(queue, ids[i])
			}
		}

		entries[parent].child = tree(ids)
	}

	return entries
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Build writes root and its children as a compound file.
func Build(root *Node, opts Options) ([]byte, *Layout) {
	opts = opts.withDefaults()
	sectorSize := 1 << opts.SectorShift
	miniSectorSize := 1 << opts.MiniSectorShift
	perSector := sectorSize / 4

	entries := flatten(root)

	// Place the streams: small ones into the mini-stream, the rest into regular sectors.
	var (
		miniFAT       []int32
		miniStream    []byte
		regularCount  int
		regularStarts = make(map[*flatEntry]int)
	)
	for _, e := range entries[1:] {
		if e.node.Storage {
			continue
		}
		e.size = int64(len(e.node.Data))
		e.start = gocfb.EndOfChain
		if len(e.node.Data) == 0 {
			continue
		}

		if !opts.NoMiniStream && e.size < int64(opts.MiniStreamCutoff) {
			count := ceilDiv(len(e.node.Data), miniSectorSize)
			first := len(miniFAT)
			for i := 0; i < count; i++ {
				miniFAT = append(miniFAT, int32(first+i+1))
			}
			miniFAT[len(miniFAT)-1] = gocfb.EndOfChain
			e.start = int32(first)

			chunk := make([]byte, count*miniSectorSize)
			copy(chunk, e.node.Data)
			miniStream = append(miniStream, chunk...)
			continue
		}

		regularStarts[e] = regularCount
		regularCount += ceilDiv(len(e.node.Data), sectorSize)
	}

	dirSectors := ceilDiv(len(entries)*gocfb.DirEntrySize, sectorSize)
	miniFATSectors := ceilDiv(len(miniFAT)*4, sectorSize)
	miniStreamSectors := ceilDiv(len(miniStream), sectorSize)
	others := dirSectors + miniFATSectors + miniStreamSectors + regularCount

	// The FAT has to describe itself and the DIFAT sectors too.
	fatSectors, difatSectors := 1, 0
	for {
		if fatSectors > opts.HeaderFATSlots {
			difatSectors = ceilDiv(fatSectors-opts.HeaderFATSlots, perSector-1)
		} else {
			difatSectors = 0
		}
		if fatSectors*perSector >= fatSectors+difatSectors+others {
			break
		}
		fatSectors++
	}

	layout := &Layout{
		SectorSize:      sectorSize,
		MiniSectorSize:  miniSectorSize,
		MiniFATStart:    gocfb.EndOfChain,
		MiniStreamStart: gocfb.EndOfChain,
		Entries:         make(map[string]int32),
		Streams:         make(map[string]StreamLayout),
	}

	next := int32(0)
	allocate := func(count int) int32 {
		first := next
		next += int32(count)
		return first
	}

	fat := make([]int32, fatSectors*perSector)
	for i := range fat {
		fat[i] = gocfb.FreeSector
	}
	link := func(first int32, count int) {
		for i := 0; i < count; i++ {
			fat[int(first)+i] = first + int32(i) + 1
		}
		fat[int(first)+count-1] = gocfb.EndOfChain
	}

	fatStart := allocate(fatSectors)
	for i := 0; i < fatSectors; i++ {
		layout.FATSectors = append(layout.FATSectors, fatStart+int32(i))
		fat[fatStart+int32(i)] = gocfb.FATSector
	}
	difatStart := allocate(difatSectors)
	for i := 0; i < difatSectors; i++ {
		layout.DIFATSectors = append(layout.DIFATSectors, difatStart+int32(i))
		fat[difatStart+int32(i)] = gocfb.DIFATSector
	}

	layout.DirStart = allocate(dirSectors)
	layout.DirSectors = dirSectors
	link(layout.DirStart, dirSectors)

	if miniFATSectors > 0 {
		layout.MiniFATStart = allocate(miniFATSectors)
		link(layout.MiniFATStart, miniFATSectors)
	}
	if miniStreamSectors > 0 {
		layout.MiniStreamStart = allocate(miniStreamSectors)
		link(layout.MiniStreamStart, miniStreamSectors)
	}

	regularStart := allocate(regularCount)
	for e, offset := range regularStarts {
		e.start = regularStart + int32(offset)
		link(e.start, ceilDiv(len(e.node.Data), sectorSize))
	}

	entries[0].start = layout.MiniStreamStart
	entries[0].size = int64(len(miniStream))

	buf := make([]byte, (1+int(next))*sectorSize)

	writeHeader(buf, opts, layout, dirSectors, len(miniFAT) > 0, miniFATSectors)
	writeDIFAT(buf, layout, opts.HeaderFATSlots)

	for i, value := range fat {
		PutInt32(buf, layout.FATEntryOffset(int32(i)), value)
	}

	for i, e := range entries {
		layout.Entries[e.path] = int32(i)
		if !e.node.Storage {
			_, regular := regularStarts[e]
			layout.Streams[e.path] = StreamLayout{Start: e.start, Mini: e.start >= 0 && !regular}
		}
		writeEntry(buf[layout.DirEntryOffset(int32(i)):], e, i == 0)
	}
	for i := len(entries); i < dirSectors*sectorSize/gocfb.DirEntrySize; i++ {
		writeUnusedEntry(buf[layout.DirEntryOffset(int32(i)):])
	}

	if miniFATSectors > 0 {
		base := layout.SectorOffset(layout.MiniFATStart)
		for i := 0; i < miniFATSectors*perSector; i++ {
			value := gocfb.FreeSector
			if i < len(miniFAT) {
				value = miniFAT[i]
			}
			PutInt32(buf, base+i*4, value)
		}
	}
	if miniStreamSectors > 0 {
		copy(buf[layout.SectorOffset(layout.MiniStreamStart):], miniStream)
	}
	for e := range regularStarts {
		copy(buf[layout.SectorOffset(e.start):], e.node.Data)
	}

	return buf, layout
}

func writeHeader(buf []byte, opts Options, layout *Layout, dirSectors int, hasMini bool, miniFATSectors int) {
	copy(buf, gocfb.Signature[:])

	major := uint16(3)
	dirCount := int32(0)
	if opts.SectorShift != 9 {
		major = 4
		dirCount = int32(dirSectors)
	}

	binary.LittleEndian.PutUint16(buf[24:], 0x3E)
	binary.LittleEndian.PutUint16(buf[26:], major)
	binary.LittleEndian.PutUint16(buf[28:], 0xFFFE)
	binary.LittleEndian.PutUint16(buf[30:], opts.SectorShift)
	binary.LittleEndian.PutUint16(buf[32:], opts.MiniSectorShift)
	PutInt32(buf, 40, dirCount)
	PutInt32(buf, 44, int32(len(layout.FATSectors)))
	PutInt32(buf, 48, layout.DirStart)
	PutInt32(buf, 56, opts.MiniStreamCutoff)

	if hasMini {
		PutInt32(buf, 60, layout.MiniFATStart)
		PutInt32(buf, 64, int32(miniFATSectors))
	} else {
		PutInt32(buf, 60, gocfb.EndOfChain)
		PutInt32(buf, 64, 0)
	}

	if len(layout.DIFATSectors) > 0 {
		PutInt32(buf, 68, layout.DIFATSectors[0])
	} else {
		PutInt32(buf, 68, gocfb.EndOfChain)
	}
	PutInt32(buf, 72, int32(len(layout.DIFATSectors)))

	for i := 0; i < gocfb.HeaderDIFATSlots; i++ {
		value := gocfb.FreeSector
		if i < opts.HeaderFATSlots && i < len(layout.FATSectors) {
			value = layout.FATSectors[i]
		}
		PutInt32(buf, 76+i*4, value)
	}
}

func writeDIFAT(buf []byte, layout *Layout, headerSlots int) {
	slots := layout.SectorSize/4 - 1
	remaining := []int32{}
	if len(layout.FATSectors) > headerSlots {
		remaining = layout.FATSectors[headerSlots:]
	}

	for i, sector := range layout.DIFATSectors {
		base := layout.SectorOffset(sector)
		for slot := 0; slot < slots; slot++ {
			value := gocfb.FreeSector
			if len(remaining) > 0 {
				value = remaining[0]
				remaining = remaining[1:]
			}
			PutInt32(buf, base+slot*4, value)
		}

		next := gocfb.EndOfChain
		if i+1 < len(layout.DIFATSectors) {
			next = layout.DIFATSectors[i+1]
		}
		PutInt32(buf, base+slots*4, next)
	}
}

func writeEntry(record []byte, e *flatEntry, root bool) {
	name := encodeName(e.node.Name)
	copy(record, name)
	binary.LittleEndian.PutUint16(record[64:], uint16(len(name)+2))

	kind := gocfb.KindStream
	if root {
		kind = gocfb.KindRoot
	} else if e.node.Storage {
		kind = gocfb.KindStorage
	}
	record[66] = byte(kind)
	record[67] = 1

	PutInt32(record, EntryLeftOffset, e.left)
	PutInt32(record, EntryRightOffset, e.right)
	PutInt32(record, EntryChildOffset, e.child)
	binary.LittleEndian.PutUint64(record[108:], gocfb.Filetime(e.node.Modified))

	start := e.start
	if e.node.Storage && !root {
		start = 0
	}
	PutInt32(record, EntryStartOffset, start)
	PutInt64(record, EntrySizeOffset, e.size)
}

func writeUnusedEntry(record []byte) {
	PutInt32(record, EntryLeftOffset, gocfb.NoStream)
	PutInt32(record, EntryRightOffset, gocfb.NoStream)
	PutInt32(record, EntryChildOffset, gocfb.NoStream)
}
