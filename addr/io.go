// Package addr names every memory-mapped I/O register address the core
// touches, so that subsystem code never has a bare hex literal standing
// in for a register.
package addr

// LCD / PPU registers.
const (
	LCDC uint16 = 0xFF40
	STAT uint16 = 0xFF41
	SCY  uint16 = 0xFF42
	SCX  uint16 = 0xFF43
	LY   uint16 = 0xFF44
	LYC  uint16 = 0xFF45
	DMA  uint16 = 0xFF46
	BGP  uint16 = 0xFF47
	OBP0 uint16 = 0xFF48
	OBP1 uint16 = 0xFF49
	WY   uint16 = 0xFF4A
	WX   uint16 = 0xFF4B
)

// Audio registers. Reference: https://gbdev.io/pandocs/Audio_Registers.html
const (
	AudioStart uint16 = 0xFF10
	AudioEnd   uint16 = 0xFF3F

	NR10 uint16 = 0xFF10
	NR11 uint16 = 0xFF11
	NR12 uint16 = 0xFF12
	NR13 uint16 = 0xFF13
	NR14 uint16 = 0xFF14

	NR21 uint16 = 0xFF16
	NR22 uint16 = 0xFF17
	NR23 uint16 = 0xFF18
	NR24 uint16 = 0xFF19

	NR30 uint16 = 0xFF1A
	NR31 uint16 = 0xFF1B
	NR32 uint16 = 0xFF1C
	NR33 uint16 = 0xFF1D
	NR34 uint16 = 0xFF1E

	NR41 uint16 = 0xFF20
	NR42 uint16 = 0xFF21
	NR43 uint16 = 0xFF22
	NR44 uint16 = 0xFF23

	NR50 uint16 = 0xFF24
	NR51 uint16 = 0xFF25
	NR52 uint16 = 0xFF26

	WaveRAMStart uint16 = 0xFF30
	WaveRAMEnd   uint16 = 0xFF3F
)

// OAM: 40 sprites * 4 bytes each.
const (
	OAMStart uint16 = 0xFE00
	OAMEnd   uint16 = 0xFE9F
)

// Tile data / tile map base addresses.
const (
	TileData0 uint16 = 0x8000 // unsigned tile indexing
	TileData2 uint16 = 0x9000 // signed tile indexing

	TileMap0 uint16 = 0x9800
	TileMap1 uint16 = 0x9C00
)

// Interrupt registers.
const (
	IF uint16 = 0xFF0F
	IE uint16 = 0xFFFF
)

// Joypad.
const (
	P1 uint16 = 0xFF00
)

// Serial I/O. No link cable emulation; a write to SB only emits a debug
// byte to the host log sink per spec §4.1.
const (
	SB uint16 = 0xFF01
	SC uint16 = 0xFF02
)

// Timer registers.
const (
	DIV  uint16 = 0xFF04
	TIMA uint16 = 0xFF05
	TMA  uint16 = 0xFF06
	TAC  uint16 = 0xFF07
)

// Interrupt is a bitmask selecting one of the five hardware interrupts.
type Interrupt uint8

const (
	VBlankInterrupt  Interrupt = 1 << 0
	LCDSTATInterrupt Interrupt = 1 << 1
	TimerInterrupt   Interrupt = 1 << 2
	SerialInterrupt  Interrupt = 1 << 3
	JoypadInterrupt  Interrupt = 1 << 4
)

// InterruptVectors lists the five interrupt service routine addresses,
// indexed by IF/IE bit position.
var InterruptVectors = [5]uint16{0x40, 0x48, 0x50, 0x58, 0x60}

// InterruptFromBit returns the Interrupt whose IF/IE bit index is i.
func InterruptFromBit(i uint8) Interrupt {
	return Interrupt(1 << i)
}

// InterruptBit returns the IF/IE bit index for an interrupt.
func InterruptBit(i Interrupt) uint8 {
	switch i {
	case VBlankInterrupt:
		return 0
	case LCDSTATInterrupt:
		return 1
	case TimerInterrupt:
		return 2
	case SerialInterrupt:
		return 3
	case JoypadInterrupt:
		return 4
	default:
		panic("addr: unknown interrupt")
	}
}
