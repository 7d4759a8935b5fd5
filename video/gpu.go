package video

import (
	"github.com/Div9851/gbemu/addr"
	"github.com/Div9851/gbemu/bit"
	"github.com/Div9851/gbemu/memory"
)

// Mode is one of the PPU's four STAT modes.
type Mode uint8

const (
	ModeHBlank Mode = 0
	ModeVBlank Mode = 1
	ModeOAM    Mode = 2
	ModeDraw   Mode = 3
)

const (
	oamScanCycles  = 80
	drawCycles     = 172
	hblankCycles   = 204
	cyclesPerLine  = 456
	lastVisibleLY  = 143
	lastScanlineLY = 153
)

// PPU is the scanline renderer. Tick advances it by exactly one
// T-cycle; the mode/LY state machine and scanline compositing follow
// spec §4.3.
type PPU struct {
	bus *memory.Bus
	fb  FrameBuffer

	mode           Mode
	cyclesInMode   int
	windowLine     uint8
	windowShownNow bool

	oamSelection []oamEntry
	claims       [ScreenWidth]spriteClaim
}

// NewPPU builds a PPU bound to bus. The post-boot PPU starts in VBlank
// (STAT mode 1, spec §6) with a full line's counter, so the internal
// mode/counter match the seeded STAT rather than starting a fresh OAM
// scan. With LY seeded to 0 it then counts LY 0-153 in VBlank, one
// whole frame, before the first OAM scan.
func NewPPU(bus *memory.Bus) *PPU {
	p := &PPU{mode: ModeVBlank, cyclesInMode: cyclesPerLine, bus: bus}
	return p
}

// FrameBuffer returns the PPU's current framebuffer.
func (p *PPU) FrameBuffer() *FrameBuffer { return &p.fb }

func (p *PPU) lcdc() uint8 { return p.bus.ReadByte(addr.LCDC) }
func (p *PPU) stat() uint8 { return p.bus.ReadByte(addr.STAT) }
func (p *PPU) ly() uint8   { return p.bus.ReadByte(addr.LY) }
func (p *PPU) lyc() uint8  { return p.bus.ReadByte(addr.LYC) }

func (p *PPU) setStat(v uint8) {
	p.bus.SetRawIO(addr.STAT, v)
}

// Tick advances the PPU state machine by one T-cycle.
func (p *PPU) Tick() {
	if !bit.IsSet(7, p.lcdc()) {
		return
	}

	p.cyclesInMode--
	if p.cyclesInMode > 0 {
		return
	}

	switch p.mode {
	case ModeOAM:
		p.beginDraw()
	case ModeDraw:
		p.renderScanline()
		p.beginHBlank()
	case ModeHBlank:
		p.advanceLine()
	case ModeVBlank:
		p.advanceVBlankLine()
	}
}

func (p *PPU) beginDraw() {
	p.mode = ModeDraw
	p.cyclesInMode = drawCycles
	p.updateStatMode()
}

func (p *PPU) beginHBlank() {
	p.mode = ModeHBlank
	p.cyclesInMode = hblankCycles
	p.updateStatMode()
}

func (p *PPU) beginOAMScan() {
	p.mode = ModeOAM
	p.cyclesInMode = oamScanCycles
	p.updateStatMode()

	if p.ly() == p.bus.ReadByte(addr.WY) {
		p.windowShownNow = true
	}
	p.oamSelection = scanOAM(p.oamBytes(), int(p.ly()), bit.IsSet(2, p.lcdc()))
}

func (p *PPU) oamBytes() []byte {
	buf := make([]byte, 0xA0)
	for i := range buf {
		buf[i] = p.bus.ReadByte(addr.OAMStart + uint16(i))
	}
	return buf
}

// advanceLine moves from HBlank on a visible line to either the next
// line's OAM scan or, past line 143, into VBlank.
func (p *PPU) advanceLine() {
	newLY := p.ly() + 1
	p.setLY(newLY)

	if int(newLY) > lastVisibleLY {
		p.mode = ModeVBlank
		p.cyclesInMode = cyclesPerLine
		p.updateStatMode()
		p.bus.RequestInterrupt(addr.VBlankInterrupt)
		return
	}
	p.beginOAMScan()
}

// advanceVBlankLine advances LY through the ten VBlank lines, then
// wraps to a fresh frame.
func (p *PPU) advanceVBlankLine() {
	newLY := p.ly() + 1
	if int(newLY) > lastScanlineLY {
		p.windowLine = 0
		p.windowShownNow = false
		p.setLY(0)
		p.beginOAMScan()
		return
	}
	p.setLY(newLY)
	p.cyclesInMode = cyclesPerLine
}

// setLY stores LY directly (bypassing the CPU-write-ignored path) and
// evaluates the LY==LYC coincidence, per spec §4.3/§9.
func (p *PPU) setLY(value uint8) {
	p.bus.SetRawIO(addr.LY, value)

	stat := p.stat()
	if value == p.lyc() {
		stat = bit.Set(2, stat)
		if bit.IsSet(6, stat) {
			p.bus.RequestInterrupt(addr.LCDSTATInterrupt)
		}
	} else {
		stat = bit.Reset(2, stat)
	}
	p.setStat(stat)
}

// updateStatMode writes the new mode into STAT's low two bits and
// raises a STAT interrupt if the corresponding enable bit is set for
// OAM/VBlank/HBlank (drawing mode never raises a STAT interrupt).
func (p *PPU) updateStatMode() {
	stat := p.stat() &^ 0x03
	stat |= uint8(p.mode) & 0x03
	p.setStat(stat)

	switch p.mode {
	case ModeOAM:
		if bit.IsSet(5, stat) {
			p.bus.RequestInterrupt(addr.LCDSTATInterrupt)
		}
	case ModeVBlank:
		if bit.IsSet(4, stat) {
			p.bus.RequestInterrupt(addr.LCDSTATInterrupt)
		}
	case ModeHBlank:
		if bit.IsSet(3, stat) {
			p.bus.RequestInterrupt(addr.LCDSTATInterrupt)
		}
	}
}

// renderScanline composites background, window, and sprite pixels for
// the current LY into the framebuffer, per spec §4.3.
func (p *PPU) renderScanline() {
	lcdc := p.lcdc()
	ly := p.ly()

	bgColorID := [ScreenWidth]uint8{}
	windowDrewAny := false

	for x := 0; x < ScreenWidth; x++ {
		var colorID uint8
		if bit.IsSet(0, lcdc) {
			colorID = p.backgroundColorID(lcdc, ly, x)

			if p.windowVisible(lcdc) {
				wx := int(p.bus.ReadByte(addr.WX))
				if x+7 >= wx {
					colorID = p.windowColorID(lcdc, x, wx)
					windowDrewAny = true
				}
			}
		}
		bgColorID[x] = colorID
		p.fb.Set(x, int(ly), paletteShade(colorID, p.bus.ReadByte(addr.BGP)))
	}

	if windowDrewAny {
		p.windowLine++
	}

	if bit.IsSet(1, lcdc) {
		p.renderSprites(lcdc, ly, bgColorID[:])
	}
}

func (p *PPU) windowVisible(lcdc uint8) bool {
	return bit.IsSet(5, lcdc) && p.windowShownNow
}

func (p *PPU) backgroundColorID(lcdc uint8, ly uint8, x int) uint8 {
	scy := p.bus.ReadByte(addr.SCY)
	scx := p.bus.ReadByte(addr.SCX)

	bgY := int(ly+scy) % 256
	bgX := (x + int(scx)) % 256

	mapBase := addr.TileMap0
	if bit.IsSet(3, lcdc) {
		mapBase = addr.TileMap1
	}
	tileIndexAddr := mapBase + uint16((bgY/8)*32+(bgX/8))
	tileIndex := p.bus.ReadByte(tileIndexAddr)

	return p.tilePixel(lcdc, tileIndex, bgY%8, bgX%8)
}

func (p *PPU) windowColorID(lcdc uint8, x int, wx int) uint8 {
	col := x + 7 - wx

	mapBase := addr.TileMap0
	if bit.IsSet(6, lcdc) {
		mapBase = addr.TileMap1
	}
	row := int(p.windowLine)
	tileIndexAddr := mapBase + uint16((row/8)*32+(col/8))
	tileIndex := p.bus.ReadByte(tileIndexAddr)

	return p.tilePixel(lcdc, tileIndex, row%8, col%8)
}

// tilePixel reads the 2-bit color id for (rowInTile, colInTile) of
// tileIndex, honoring LCDC's BG/window tile data addressing mode.
func (p *PPU) tilePixel(lcdc uint8, tileIndex uint8, rowInTile, colInTile int) uint8 {
	var tileAddr uint16
	if bit.IsSet(4, lcdc) {
		tileAddr = addr.TileData0 + uint16(tileIndex)*16
	} else {
		tileAddr = uint16(int(addr.TileData2) + int(int8(tileIndex))*16)
	}

	rowAddr := tileAddr + uint16(rowInTile*2)
	low := p.bus.ReadByte(rowAddr)
	high := p.bus.ReadByte(rowAddr + 1)

	shift := uint(7 - colInTile)
	lo := (low >> shift) & 1
	hi := (high >> shift) & 1
	return hi<<1 | lo
}

// renderSprites composites OBJ pixels over bgColorID for the current
// scanline using the two-phase claim-then-render approach: claim pixels
// across all selected sprites first (so the first non-transparent
// sprite at each x wins), then paint only pixels a sprite still owns.
func (p *PPU) renderSprites(lcdc uint8, ly uint8, bgColorID []uint8) {
	for i := range p.claims {
		p.claims[i] = spriteClaim{}
	}

	tall := bit.IsSet(2, lcdc)
	height := 8
	if tall {
		height = 16
	}

	for _, sprite := range p.oamSelection {
		tileIndex := sprite.tile
		if tall {
			tileIndex &^= 0x01
		}

		fineY := int(ly) + 16 - int(sprite.y)
		if bit.IsSet(6, sprite.attr) {
			fineY = height - 1 - fineY
		}
		if tall && fineY >= 8 {
			tileIndex++
			fineY -= 8
		}

		palette := p.bus.ReadByte(addr.OBP0)
		if bit.IsSet(4, sprite.attr) {
			palette = p.bus.ReadByte(addr.OBP1)
		}
		priority := bit.IsSet(7, sprite.attr)

		spriteLeft := int(sprite.x) - 8
		for screenX := spriteLeft; screenX < spriteLeft+8; screenX++ {
			if screenX < 0 || screenX >= ScreenWidth {
				continue
			}
			if p.claims[screenX].claimed {
				continue
			}

			fineX := screenX - spriteLeft
			if bit.IsSet(5, sprite.attr) {
				fineX = 7 - fineX
			}

			colorID := p.tilePixel(0x10, tileIndex, fineY, fineX) // bit4 forced: OBJ tiles always use 0x8000 addressing
			if colorID == 0 {
				continue
			}

			p.claims[screenX] = spriteClaim{claimed: true, colorID: colorID, palette: palette, priority: priority}
		}
	}

	for x := 0; x < ScreenWidth; x++ {
		claim := p.claims[x]
		if !claim.claimed {
			continue
		}
		if claim.priority && bgColorID[x] != 0 {
			continue
		}
		p.fb.Set(x, int(ly), paletteShade(claim.colorID, claim.palette))
	}
}
