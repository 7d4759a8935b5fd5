package gbemu

import (
	"testing"

	"github.com/Div9851/gbemu/addr"
)

func newTestConsole(program []byte, loadAddr uint16) *Console {
	rom := make([]byte, 0x8000)
	copy(rom[loadAddr:], program)
	c := New()
	c.bus.LoadCartridge(rom)
	c.cpu.Regs.PC = 0x0100
	return c
}

func TestConsoleInitSeedsPostBootState(t *testing.T) {
	c := New()
	regs := c.cpu.Regs

	if regs.A != 0x00 || regs.F != 0x80 || regs.B != 0x00 || regs.C != 0x13 ||
		regs.D != 0x00 || regs.E != 0xD8 || regs.H != 0x01 || regs.L != 0x4D {
		t.Fatalf("unexpected post-boot registers: %+v", regs)
	}
	if regs.PC != 0x0100 {
		t.Fatalf("PC = %#04x, want 0x0100", regs.PC)
	}
	if regs.SP != 0xFFFE {
		t.Fatalf("SP = %#04x, want 0xfffe", regs.SP)
	}
	if got := c.bus.ReadByte(addr.IF); got != 0xE1 {
		t.Fatalf("IF = %#02x, want 0xe1", got)
	}
	if got := c.bus.ReadByte(addr.LCDC); got != 0x91 {
		t.Fatalf("LCDC = %#02x, want 0x91", got)
	}
}

func TestConsoleSimpleADDScenario(t *testing.T) {
	c := newTestConsole([]byte{0x3E, 0x0F, 0xC6, 0x01}, 0x0100) // LD A,0x0F ; ADD A,1
	for i := 0; i < 16; i++ {
		c.Tick()
	}
	if c.cpu.Regs.A != 0x10 {
		t.Fatalf("A = %#02x, want 0x10", c.cpu.Regs.A)
	}
}

func TestConsoleHaltWithIMEOffDoesNotServiceInterrupt(t *testing.T) {
	// HALT with IME off and IE set but IF not yet pending: the CPU
	// halts, and a later pending interrupt wakes it without dispatching
	// since IME is still false.
	c := newTestConsole([]byte{0x76, 0x3C}, 0x0100) // HALT ; INC A
	c.bus.SetIME(false)
	c.bus.WriteByte(addr.IE, 0x01)
	c.bus.WriteByte(addr.IF, 0x00)

	for i := 0; i < 4; i++ {
		c.Tick()
	}
	if c.cpu.Regs.PC != 0x0101 {
		t.Fatalf("PC = %#04x, want 0x0101 right after HALT executes", c.cpu.Regs.PC)
	}

	// While halted, PC must not move even across many further ticks.
	for i := 0; i < 40; i++ {
		c.Tick()
	}
	if c.cpu.Regs.PC != 0x0101 {
		t.Fatalf("PC = %#04x, want 0x0101 while halted with no pending interrupt", c.cpu.Regs.PC)
	}

	c.bus.WriteByte(addr.IF, 0x01) // VBlank becomes pending
	for i := 0; i < 4; i++ {
		c.Tick()
	}
	// IME is false, so execution resumes at the instruction after HALT
	// instead of being vectored to the ISR.
	if c.cpu.Regs.PC != 0x0102 {
		t.Fatalf("PC = %#04x, want 0x0102 (resumed past HALT, no dispatch)", c.cpu.Regs.PC)
	}
}

func TestConsoleConditionalJPCycleCounts(t *testing.T) {
	t.Run("taken", func(t *testing.T) {
		c := newTestConsole([]byte{0xC2, 0x34, 0x12}, 0x0100) // JP NZ,0x1234
		c.cpu.Regs.SetFlagZ(false)
		for i := 0; i < 16; i++ {
			c.Tick()
		}
		if c.cpu.Regs.PC != 0x1234 {
			t.Fatalf("PC = %#04x, want 0x1234", c.cpu.Regs.PC)
		}
	})

	t.Run("not taken", func(t *testing.T) {
		c := newTestConsole([]byte{0xC2, 0x34, 0x12}, 0x0100)
		c.cpu.Regs.SetFlagZ(true)
		for i := 0; i < 12; i++ {
			c.Tick()
		}
		if c.cpu.Regs.PC != 0x0103 {
			t.Fatalf("PC = %#04x, want 0x0103", c.cpu.Regs.PC)
		}
	})
}

func TestConsoleOAMDMACopiesSourceIntoOAM(t *testing.T) {
	c := newTestConsole([]byte{0x00}, 0x0100)
	for i := uint16(0); i < 0xA0; i++ {
		c.bus.WriteByte(0xC000+i, uint8(i^0xFF))
	}
	c.bus.WriteByte(addr.DMA, 0xC0)

	for i := uint16(0); i < 0xA0; i++ {
		want := uint8(i ^ 0xFF)
		if got := c.bus.ReadByte(0xFE00 + i); got != want {
			t.Fatalf("OAM[%d] = %#02x, want %#02x", i, got, want)
		}
	}
}

func TestConsoleFrameProductionBufferSizes(t *testing.T) {
	c := New()
	c.LoadROM(make([]byte, 0x8000))

	c.NextFrame()

	fb := c.FrameBuffer()
	if len(fb) != 160*144*4 {
		t.Fatalf("framebuffer length = %d, want %d", len(fb), 160*144*4)
	}

	audio := c.AudioBuffer()
	wantSamples := CyclesPerFrame / 87
	if len(audio) != wantSamples {
		t.Fatalf("audio buffer length = %d, want %d", len(audio), wantSamples)
	}
}
