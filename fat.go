package gocfb

// sectorCount returns the number of (possibly partial) regular sectors after the header.
func sectorCount(h Header, data []byte) int {
	payload := len(data) - h.SectorSize
	if payload <= 0 {
		return 0
	}
	return (payload + h.SectorSize - 1) / h.SectorSize
}

// fatLocators collects the ids of the sectors holding the FAT, in order.
// The header slots come first, the DIFAT chain supplies the rest.
// A file can not have more FAT sectors than sectors, which bounds the result.
func fatLocators(h Header, data []byte) []int32 {
	limit := int(h.FATSectorCount)
	if n := sectorCount(h, data); limit > n {
		limit = n
	}
	if limit <= 0 {
		return nil
	}

	locators := make([]int32, 0, limit)
	for _, locator := range h.DIFAT {
		if len(locators) >= limit || locator < 0 {
			break
		}
		locators = append(locators, locator)
	}

	// Every DIFAT sector holds slots locators and a trailing link to the next DIFAT sector.
	slots := h.SectorSize/4 - 1
	file := sectorSource{sectorSize: h.SectorSize, data: data, base: h.SectorSize}
	visited := make(map[int32]bool)

	next := h.FirstDIFATSector
	for len(locators) < limit && next >= 0 && !visited[next] {
		visited[next] = true

		base := file.offset(next)
		for i := 0; i < slots && len(locators) < limit; i++ {
			locator := int32At(data, base+int64(i*4))
			if locator < 0 {
				continue
			}
			locators = append(locators, locator)
		}

		next = int32At(data, base+int64(slots*4))
	}

	return locators
}

// buildFAT concatenates the located FAT sectors into the flat next-link table.
// Entries that lie past the end of data read as FreeSector.
func buildFAT(h Header, data []byte) []int32 {
	locators := fatLocators(h, data)
	perSector := h.SectorSize / 4
	file := sectorSource{sectorSize: h.SectorSize, data: data, base: h.SectorSize}

	fat := make([]int32, 0, len(locators)*perSector)
	for _, locator := range locators {
		base := file.offset(locator)
		for i := 0; i < perSector; i++ {
			fat = append(fat, int32At(data, base+int64(i*4)))
		}
	}

	return fat
}

// buildMiniFAT reads the mini-FAT chain through the regular FAT.
// It returns nil if the header declares no mini-FAT.
func buildMiniFAT(h Header, file sectorSource) []int32 {
	if !h.usesMiniFAT() {
		return nil
	}

	return int32s(file.read(h.FirstMiniFATSector))
}
