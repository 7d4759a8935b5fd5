package video

import (
	"testing"

	"github.com/Div9851/gbemu/addr"
	"github.com/Div9851/gbemu/memory"
)

// newTestPPU builds a PPU and runs it past the post-boot dummy VBlank
// frame NewPPU seeds (mode 1, spec §6), landing it at the start of a
// normal OAM scan on LY 0 so mode-sequence tests see steady-state
// behavior rather than the one-time boot quirk.
func newTestPPU(t *testing.T) (*PPU, *memory.Bus) {
	t.Helper()
	bus := memory.NewBus(nil)
	bus.WriteByte(addr.LCDC, 0x91) // LCD+BG on, tile data 0x8000, BG map 0x9800
	bus.WriteByte(addr.BGP, 0xE4)
	p := NewPPU(bus)
	for i := 0; i < cyclesPerLine*(lastScanlineLY+1); i++ {
		p.Tick()
	}
	bus.WriteByte(addr.IF, 0x00)
	return p, bus
}

func TestNewPPUSeedsVBlankModeMatchingPostBootSTAT(t *testing.T) {
	bus := memory.NewBus(nil)
	p := NewPPU(bus)

	if p.mode != ModeVBlank {
		t.Fatalf("mode = %v, want VBlank to agree with the post-boot STAT=0x85 seed", p.mode)
	}
	if p.cyclesInMode != cyclesPerLine {
		t.Fatalf("cyclesInMode = %d, want %d", p.cyclesInMode, cyclesPerLine)
	}
}

func TestPPULCDDisabledDoesNotAdvance(t *testing.T) {
	p, bus := newTestPPU(t)
	bus.WriteByte(addr.LCDC, 0x00) // LCD off

	for i := 0; i < 1000; i++ {
		p.Tick()
	}

	if p.mode != ModeOAM || p.cyclesInMode != oamScanCycles {
		t.Fatalf("mode/cyclesInMode changed while LCD disabled: mode=%v cycles=%d", p.mode, p.cyclesInMode)
	}
}

func TestPPUModeSequenceWithinOneLine(t *testing.T) {
	p, bus := newTestPPU(t)

	for i := 0; i < oamScanCycles-1; i++ {
		p.Tick()
	}
	if bus.ReadByte(addr.STAT)&0x03 != uint8(ModeOAM) {
		t.Fatalf("expected OAM mode just before boundary")
	}

	p.Tick() // crosses into draw
	if bus.ReadByte(addr.STAT)&0x03 != uint8(ModeDraw) {
		t.Fatalf("expected draw mode after OAM scan completes")
	}

	for i := 0; i < drawCycles-1; i++ {
		p.Tick()
	}
	p.Tick() // crosses into hblank
	if bus.ReadByte(addr.STAT)&0x03 != uint8(ModeHBlank) {
		t.Fatalf("expected hblank mode after draw completes")
	}

	for i := 0; i < hblankCycles-1; i++ {
		p.Tick()
	}
	p.Tick() // crosses into next line's OAM scan
	if bus.ReadByte(addr.STAT)&0x03 != uint8(ModeOAM) {
		t.Fatalf("expected OAM mode on the next scanline")
	}
	if bus.ReadByte(addr.LY) != 1 {
		t.Fatalf("LY = %d, want 1", bus.ReadByte(addr.LY))
	}
}

func TestPPUVBlankInterruptFiresOnceEnteringLine144(t *testing.T) {
	p, bus := newTestPPU(t)

	for line := 0; line < lastVisibleLY; line++ {
		for i := 0; i < cyclesPerLine; i++ {
			p.Tick()
		}
	}
	// 143 full lines elapsed; LY should read 143 and mode should be OAM.
	if bus.ReadByte(addr.LY) != lastVisibleLY {
		t.Fatalf("LY = %d, want %d", bus.ReadByte(addr.LY), lastVisibleLY)
	}

	bus.WriteByte(addr.IF, 0x00)
	for i := 0; i < cyclesPerLine; i++ {
		p.Tick()
	}

	if bus.ReadByte(addr.LY) != 144 {
		t.Fatalf("LY = %d, want 144", bus.ReadByte(addr.LY))
	}
	if p.mode != ModeVBlank {
		t.Fatalf("mode = %v, want VBlank", p.mode)
	}
	if bus.IF()&uint8(addr.VBlankInterrupt) == 0 {
		t.Fatal("expected VBlank interrupt flag set")
	}
}

func TestPPUFrameWrapsLYBackToZero(t *testing.T) {
	p, bus := newTestPPU(t)

	totalLines := lastScanlineLY + 1
	for line := 0; line < totalLines; line++ {
		for i := 0; i < cyclesPerLine; i++ {
			p.Tick()
		}
	}

	if bus.ReadByte(addr.LY) != 0 {
		t.Fatalf("LY = %d, want 0 after a full frame", bus.ReadByte(addr.LY))
	}
	if p.mode != ModeOAM {
		t.Fatalf("mode = %v, want OAM at the start of a new frame", p.mode)
	}
}

func TestPPULYCCoincidenceSetsStatBitAndInterrupt(t *testing.T) {
	p, bus := newTestPPU(t)
	bus.WriteByte(addr.LYC, 0)
	bus.WriteByte(addr.STAT, 0x40) // enable LYC=LY interrupt

	p.setLY(0)

	if bus.ReadByte(addr.STAT)&0x04 == 0 {
		t.Fatal("expected STAT bit 2 (coincidence) set")
	}
	if bus.IF()&uint8(addr.LCDSTATInterrupt) == 0 {
		t.Fatal("expected STAT interrupt requested")
	}
}
