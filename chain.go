package gocfb

import "encoding/binary"

// sectorSource describes one allocation scheme: a next-link table, the size of the sectors
// it addresses and the bytes those sectors live in.
// The same follower serves the FAT over the file and the mini-FAT over the mini-stream.
type sectorSource struct {
	table      []int32
	sectorSize int
	data       []byte
	// base is the byte offset of sector 0 inside data.
	// Regular sectors start after the header sector, mini sectors at 0.
	base int
}

// chain follows the links starting at start and returns the visited sectors in order.
// It stops on a negative link, an index outside of the table or after len(table)+1 steps.
func (s sectorSource) chain(start int32) []int32 {
	var sectors []int32

	current := start
	for steps := 0; steps <= len(s.table); steps++ {
		if current < 0 || int(current) >= len(s.table) {
			break
		}
		sectors = append(sectors, current)
		current = s.table[current]
	}

	return sectors
}

// offset returns the position of sector id inside data.
func (s sectorSource) offset(id int32) int64 {
	return int64(s.base) + int64(id)*int64(s.sectorSize)
}

// copySector copies sector id into dst. Bytes past the end of data are left untouched.
func (s sectorSource) copySector(dst []byte, id int32) {
	start := s.offset(id)
	if start < 0 || start >= int64(len(s.data)) {
		return
	}
	copy(dst, s.data[start:])
}

// read concatenates the sectors of the chain starting at start.
// Without a declared size it stops at the first repeated sector, a cycle adds no new data.
func (s sectorSource) read(start int32) []byte {
	sectors := s.chain(start)

	seen := make(map[int32]bool, len(sectors))
	for i, id := range sectors {
		if seen[id] {
			sectors = sectors[:i]
			break
		}
		seen[id] = true
	}

	return s.concat(sectors)
}

// readSize reads the chain starting at start and trims the result to size bytes.
// The result is shorter than size if the chain ends early.
func (s sectorSource) readSize(start int32, size int64) []byte {
	if size <= 0 {
		return []byte{}
	}

	sectors := s.chain(start)
	needed := size / int64(s.sectorSize)
	if size%int64(s.sectorSize) != 0 {
		needed++
	}
	if int64(len(sectors)) > needed {
		sectors = sectors[:needed]
	}

	data := s.concat(sectors)
	if int64(len(data)) > size {
		data = data[:size]
	}
	return data
}

func (s sectorSource) concat(sectors []int32) []byte {
	result := make([]byte, len(sectors)*s.sectorSize)
	for i, id := range sectors {
		s.copySector(result[i*s.sectorSize:(i+1)*s.sectorSize], id)
	}
	return result
}

// int32At reads a little endian int32 at off. Positions outside of data read as FreeSector.
func int32At(data []byte, off int64) int32 {
	if off < 0 || off+4 > int64(len(data)) {
		return FreeSector
	}
	return int32(binary.LittleEndian.Uint32(data[off:]))
}

// int32s decodes data as consecutive little endian int32 values.
func int32s(data []byte) []int32 {
	values := make([]int32, len(data)/4)
	for i := range values {
		values[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return values
}
