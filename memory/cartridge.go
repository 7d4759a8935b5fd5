package memory

import (
	"strings"
	"unicode"
)

const (
	titleAddress         = 0x134
	titleLength          = 16
	cartTypeAddress      = 0x147
	romSizeAddress       = 0x148
	ramSizeAddress       = 0x149
)

// MBCKind identifies which banking controller a cartridge header requests.
type MBCKind uint8

const (
	mbcNone MBCKind = iota
	mbcMBC1
	mbcMBC5
	mbcUnsupported
)

// ramSizeBytes maps the header's ram_size code to a byte count, per the
// standard cartridge header table.
var ramSizeBytes = [6]int{0, 2 * 1024, 8 * 1024, 32 * 1024, 128 * 1024, 64 * 1024}

// Cartridge holds the ROM image and the header fields latched from it.
type Cartridge struct {
	ROM []byte

	Title    string
	CartType uint8
	RomSize  uint8
	RamSize  uint8

	Kind     MBCKind
	RAMBytes int
}

// NewCartridge returns an empty cartridge with no ROM loaded, equivalent
// to a Game Boy with no cartridge in the slot.
func NewCartridge() *Cartridge {
	return &Cartridge{
		ROM:  make([]byte, 0x8000),
		Kind: mbcNone,
	}
}

// NewCartridgeFromROM parses the header fields out of rom (per spec §6:
// cart_type <- rom[0x147], rom_size <- rom[0x148], ram_size <- rom[0x149])
// and copies the data into a new ROM buffer, up to an 8 MiB cap.
func NewCartridgeFromROM(rom []byte) *Cartridge {
	const maxROM = 8 * 1024 * 1024

	data := rom
	if len(data) > maxROM {
		data = data[:maxROM]
	}

	c := &Cartridge{
		ROM: make([]byte, len(data)),
	}
	copy(c.ROM, data)

	if len(rom) > ramSizeAddress {
		c.CartType = rom[cartTypeAddress]
		c.RomSize = rom[romSizeAddress]
		c.RamSize = rom[ramSizeAddress]
	}

	if len(rom) >= titleAddress+titleLength {
		c.Title = cleanTitle(rom[titleAddress : titleAddress+titleLength])
	}

	if int(c.RamSize) < len(ramSizeBytes) {
		c.RAMBytes = ramSizeBytes[c.RamSize]
	}

	switch {
	case c.CartType == 0x00:
		c.Kind = mbcNone
	case c.CartType >= 0x01 && c.CartType <= 0x03:
		c.Kind = mbcMBC1
	case c.CartType >= 0x19 && c.CartType <= 0x1B:
		c.Kind = mbcMBC5
	default:
		c.Kind = mbcUnsupported
	}

	return c
}

// cleanTitle converts a raw Game Boy ROM title to a printable string:
// NUL bytes become the end of the title, and surrounding whitespace is
// trimmed.
func cleanTitle(raw []byte) string {
	runes := make([]rune, 0, len(raw))
	for _, b := range raw {
		if b == 0 {
			break
		}
		r := rune(b)
		if !unicode.IsPrint(r) {
			r = '?'
		}
		runes = append(runes, r)
	}
	return strings.TrimSpace(string(runes))
}
