package video

// oamEntry is one selected sprite for the current scanline, holding
// its OAM index and the four raw attribute bytes. OAM order among X
// ties comes from the stable sort in scanOAM, not from index.
type oamEntry struct {
	index int
	y     uint8
	x     uint8
	tile  uint8
	attr  uint8
}

const maxSpritesPerLine = 10

// scanOAM selects up to ten sprites visible on scanline ly, preserving
// OAM order among X ties (spec §4.3: "preserve OAM order of ties in
// x"), then stably sorts the selection by X ascending.
func scanOAM(oam []byte, ly int, tall bool) []oamEntry {
	height := 8
	if tall {
		height = 16
	}

	selected := make([]oamEntry, 0, maxSpritesPerLine)
	for i := 0; i < 40 && len(selected) < maxSpritesPerLine; i++ {
		base := i * 4
		objY := int(oam[base])
		if ly+16 < objY || ly+16 >= objY+height {
			continue
		}
		selected = append(selected, oamEntry{
			index: i,
			y:     oam[base],
			x:     oam[base+1],
			tile:  oam[base+2],
			attr:  oam[base+3],
		})
	}

	stableSortByX(selected)
	return selected
}

// stableSortByX is a small stable insertion sort; the sprite lists are
// at most 10 entries, so this beats pulling in sort.Slice's reflection
// overhead for no real benefit.
func stableSortByX(entries []oamEntry) {
	for i := 1; i < len(entries); i++ {
		j := i
		for j > 0 && entries[j-1].x > entries[j].x {
			entries[j-1], entries[j] = entries[j], entries[j-1]
			j--
		}
	}
}

// spriteClaim records which sprite, if any, owns a given screen column
// during the claim phase of scanline compositing (spec §4.3's
// first-non-transparent-sprite-wins rule).
type spriteClaim struct {
	claimed  bool
	colorID  uint8
	palette  uint8
	priority bool // true => behind non-zero background
}
