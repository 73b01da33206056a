// File model contains the structs which match the direct on-disk structures of a compound file.
// They are unpacked with restruct, all fields are little endian.

package gocfb

// Signature is the magic value every compound file starts with.
var Signature = [8]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

const (
	// HeaderSize is the size of the fixed file header.
	HeaderSize = 512
	// DirEntrySize is the size of a single directory record.
	DirEntrySize = 128
	// HeaderDIFATSlots is the number of FAT sector locators stored in the header itself.
	HeaderDIFATSlots = 109
)

// Special sector ids. Everything >= 0 is a regular sector.
const (
	FreeSector  int32 = -1
	EndOfChain  int32 = -2
	FATSector   int32 = -3
	DIFATSector int32 = -4
)

// NoStream marks an absent sibling or child link in a directory entry.
const NoStream int32 = -1

// Kind is the object type of a directory entry.
type Kind uint8

const (
	KindUnused  Kind = 0
	KindStorage Kind = 1
	KindStream  Kind = 2
	KindRoot    Kind = 5
)

func (k Kind) String() string {
	switch k {
	case KindUnused:
		return "unused"
	case KindStorage:
		return "storage"
	case KindStream:
		return "stream"
	case KindRoot:
		return "root"
	}
	return "unknown"
}

type rawHeader struct {
	Signature          [8]byte
	CLSID              [16]byte
	MinorVersion       uint16
	MajorVersion       uint16
	ByteOrder          uint16
	SectorShift        uint16
	MiniSectorShift    uint16
	Reserved           [6]byte
	DirSectorCount     int32
	FATSectorCount     int32
	FirstDirSector     int32
	TransactionSig     uint32
	MiniStreamCutoff   int32
	FirstMiniFATSector int32
	MiniFATSectorCount int32
	FirstDIFATSector   int32
	DIFATSectorCount   int32
	DIFAT              [HeaderDIFATSlots]int32
}

type rawDirEntry struct {
	Name        [64]byte
	NameLength  uint16
	Kind        uint8
	Color       uint8
	Left        int32
	Right       int32
	Child       int32
	CLSID       [16]byte
	StateBits   uint32
	Created     uint64
	Modified    uint64
	StartSector int32
	Size        int64
}
