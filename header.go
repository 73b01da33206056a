package gocfb

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-restruct/restruct"
)

// Header contains the sector geometry and the allocation table locations of a compound file.
type Header struct {
	MinorVersion uint16
	MajorVersion uint16
	ByteOrder    uint16

	SectorShift     uint16
	MiniSectorShift uint16
	SectorSize      int
	MiniSectorSize  int

	DirSectorCount     int32
	FATSectorCount     int32
	FirstDirSector     int32
	MiniStreamCutoff   int32
	FirstMiniFATSector int32
	MiniFATSectorCount int32
	FirstDIFATSector   int32
	DIFATSectorCount   int32

	// DIFAT holds the FAT sector locators stored in the header.
	DIFAT [HeaderDIFATSlots]int32
}

// Sane bounds for the sector geometry. Anything outside can not be read without
// allocating absurd amounts of memory.
const (
	minSectorShift = 7
	maxSectorShift = 16
)

// ParseHeader decodes the first 512 bytes of data.
// It fails with a FormatError if data is too short or the signature does not match.
// Unlike a plain field extraction it also rejects a sector shift outside 7..16 and a mini
// sector shift larger than the sector shift, as such files can not be read without absurd
// allocations. No other field is validated.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, &FormatError{Reason: fmt.Sprintf("buffer has %d bytes, a header needs %d", len(data), HeaderSize)}
	}
	if !bytes.Equal(data[:len(Signature)], Signature[:]) {
		return Header{}, &FormatError{Reason: fmt.Sprintf("invalid signature % x", data[:len(Signature)])}
	}

	raw := rawHeader{}
	if err := restruct.Unpack(data[:HeaderSize], binary.LittleEndian, &raw); err != nil {
		return Header{}, &FormatError{Reason: err.Error()}
	}

	if raw.SectorShift < minSectorShift || raw.SectorShift > maxSectorShift {
		return Header{}, &FormatError{Reason: fmt.Sprintf("unsupported sector shift %d", raw.SectorShift)}
	}
	if raw.MiniSectorShift > raw.SectorShift {
		return Header{}, &FormatError{Reason: fmt.Sprintf("mini sector shift %d exceeds sector shift %d", raw.MiniSectorShift, raw.SectorShift)}
	}

	return Header{
		MinorVersion:       raw.MinorVersion,
		MajorVersion:       raw.MajorVersion,
		ByteOrder:          raw.ByteOrder,
		SectorShift:        raw.SectorShift,
		MiniSectorShift:    raw.MiniSectorShift,
		SectorSize:         1 << raw.SectorShift,
		MiniSectorSize:     1 << raw.MiniSectorShift,
		DirSectorCount:     raw.DirSectorCount,
		FATSectorCount:     raw.FATSectorCount,
		FirstDirSector:     raw.FirstDirSector,
		MiniStreamCutoff:   raw.MiniStreamCutoff,
		FirstMiniFATSector: raw.FirstMiniFATSector,
		MiniFATSectorCount: raw.MiniFATSectorCount,
		FirstDIFATSector:   raw.FirstDIFATSector,
		DIFATSectorCount:   raw.DIFATSectorCount,
		DIFAT:              raw.DIFAT,
	}, nil
}

// usesMiniFAT reports whether the header declares a mini-FAT at all.
func (h Header) usesMiniFAT() bool {
	return h.MiniFATSectorCount > 0 && h.FirstMiniFATSector != EndOfChain
}
