package gocfb

import (
	"encoding/binary"
	"errors"
	"testing"
)

// rawTestHeader returns a 512 byte header with the signature and 512 byte sectors.
// modify may patch it further.
func rawTestHeader(modify func(b []byte)) []byte {
	b := make([]byte, HeaderSize)
	copy(b, Signature[:])
	binary.LittleEndian.PutUint16(b[30:], 9)
	binary.LittleEndian.PutUint16(b[32:], 6)
	for i := 0; i < HeaderDIFATSlots; i++ {
		putInt32(b, 76+i*4, FreeSector)
	}
	if modify != nil {
		modify(b)
	}
	return b
}

func putInt32(b []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(b[off:], uint32(v))
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name:    "empty buffer",
			data:    nil,
			wantErr: ErrFormat,
		},
		{
			name:    "buffer shorter than a header",
			data:    rawTestHeader(nil)[:511],
			wantErr: ErrFormat,
		},
		{
			name: "wrong signature",
			data: rawTestHeader(func(b []byte) {
				b[7] = 0xE0
			}),
			wantErr: ErrFormat,
		},
		{
			name: "sector shift too large",
			data: rawTestHeader(func(b []byte) {
				binary.LittleEndian.PutUint16(b[30:], 40)
			}),
			wantErr: ErrFormat,
		},
		{
			name: "mini sector larger than a sector",
			data: rawTestHeader(func(b []byte) {
				binary.LittleEndian.PutUint16(b[32:], 10)
			}),
			wantErr: ErrFormat,
		},
		{
			name:    "minimal valid header",
			data:    rawTestHeader(nil),
			wantErr: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseHeader() error = %v, wantErr %v", err, tt.wantErr)
			}

			var formatErr *FormatError
			if tt.wantErr != nil && !errors.As(err, &formatErr) {
				t.Errorf("ParseHeader() error = %T, want *FormatError", err)
			}
		})
	}
}

func TestParseHeader_Fields(t *testing.T) {
	data := rawTestHeader(func(b []byte) {
		binary.LittleEndian.PutUint16(b[24:], 0x3E)
		binary.LittleEndian.PutUint16(b[26:], 4)
		binary.LittleEndian.PutUint16(b[28:], 0xFFFE)
		binary.LittleEndian.PutUint16(b[30:], 12)
		binary.LittleEndian.PutUint16(b[32:], 6)
		putInt32(b, 40, 3)
		putInt32(b, 44, 0x0102)
		putInt32(b, 48, 0x0304)
		putInt32(b, 56, 4096)
		putInt32(b, 60, 0x0506)
		putInt32(b, 64, 0x0708)
		putInt32(b, 68, 0x090A)
		putInt32(b, 72, 0x0B0C)
		putInt32(b, 76, 17)
		putInt32(b, 76+108*4, 99)
	})

	got, err := ParseHeader(data)
	if err != nil {
		t.Fatalf("ParseHeader() error = %v", err)
	}

	want := Header{
		MinorVersion:       0x3E,
		MajorVersion:       4,
		ByteOrder:          0xFFFE,
		SectorShift:        12,
		MiniSectorShift:    6,
		SectorSize:         4096,
		MiniSectorSize:     64,
		DirSectorCount:     3,
		FATSectorCount:     0x0102,
		FirstDirSector:     0x0304,
		MiniStreamCutoff:   4096,
		FirstMiniFATSector: 0x0506,
		MiniFATSectorCount: 0x0708,
		FirstDIFATSector:   0x090A,
		DIFATSectorCount:   0x0B0C,
	}
	for i := range want.DIFAT {
		want.DIFAT[i] = FreeSector
	}
	want.DIFAT[0] = 17
	want.DIFAT[108] = 99

	if got != want {
		t.Errorf("ParseHeader() = %+v, want %+v", got, want)
	}
}

func TestParseHeader_NegativeFields(t *testing.T) {
	data := rawTestHeader(func(b []byte) {
		putInt32(b, 60, EndOfChain)
		putInt32(b, 68, EndOfChain)
		putInt32(b, 44, -7)
	})

	got, err := ParseHeader(data)
	if err != nil {
		t.Fatalf("ParseHeader() error = %v", err)
	}
	if got.FirstMiniFATSector != EndOfChain || got.FirstDIFATSector != EndOfChain || got.FATSectorCount != -7 {
		t.Errorf("ParseHeader() did not keep the signed values: %+v", got)
	}
}

func TestHeader_usesMiniFAT(t *testing.T) {
	tests := []struct {
		name   string
		header Header
		want   bool
	}{
		{
			name:   "no mini-FAT sectors",
			header: Header{MiniFATSectorCount: 0, FirstMiniFATSector: 3},
			want:   false,
		},
		{
			name:   "end of chain start",
			header: Header{MiniFATSectorCount: 1, FirstMiniFATSector: EndOfChain},
			want:   false,
		},
		{
			name:   "declared mini-FAT",
			header: Header{MiniFATSectorCount: 1, FirstMiniFATSector: 3},
			want:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.header.usesMiniFAT(); got != tt.want {
				t.Errorf("Header.usesMiniFAT() = %v, want %v", got, tt.want)
			}
		})
	}
}
