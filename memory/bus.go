// Package memory implements the Game Boy's unified address space: work
// RAM, video RAM, OAM, HRAM, cartridge ROM/RAM behind an MBC, the
// interrupt registers, and the Timer/Joypad subsystems that live on the
// I/O page.
package memory

import (
	"log/slog"

	"github.com/Div9851/gbemu/addr"
)

const (
	vramSize = 0x2000
	wramSize = 0x2000
	oamSize  = 0xA0
	hramSize = 0x7F
)

// Bus is the machine's 16-bit address space. All five subsystems share
// one Bus instance for the lifetime of the console.
type Bus struct {
	cart *Cartridge
	mbc  MBC

	vram [vramSize]byte
	wram [wramSize]byte
	oam  [oamSize]byte
	hram [hramSize]byte

	// ioRegs backs the plain-storage I/O registers (PPU, audio, misc)
	// that don't need bespoke Go fields; Timer and Joypad are modeled
	// as their own types since they have tick-driven behavior.
	ioRegs [0x80]byte

	timer  *Timer
	joypad *Joypad

	ifReg uint8
	ieReg uint8
	ime   bool

	log *slog.Logger
}

// NewBus constructs a Bus with an empty cartridge loaded and all RAM
// zeroed. Call LoadCartridge to install a ROM.
func NewBus(log *slog.Logger) *Bus {
	if log == nil {
		log = slog.Default()
	}
	b := &Bus{cart: NewCartridge(), log: log}
	b.mbc = NewMBC(b.cart)
	b.timer = NewTimer(b.RequestInterrupt)
	b.joypad = NewJoypad(b.RequestInterrupt)
	return b
}

// Timer returns the bus's Timer subsystem.
func (b *Bus) Timer() *Timer { return b.timer }

// Joypad returns the bus's Joypad subsystem.
func (b *Bus) Joypad() *Joypad { return b.joypad }

// Cartridge returns the currently loaded cartridge.
func (b *Bus) Cartridge() *Cartridge { return b.cart }

// LoadCartridge installs rom's parsed cartridge and a fresh MBC for it.
func (b *Bus) LoadCartridge(rom []byte) {
	b.cart = NewCartridgeFromROM(rom)
	b.mbc = NewMBC(b.cart)
	if b.cart.Kind == mbcUnsupported {
		b.log.Warn("unsupported cartridge type, falling back to fixed bank 1", "cart_type", b.cart.CartType)
	}
}

// LoadSaveData seeds cartridge RAM from a save blob, when the current
// MBC exposes one.
func (b *Bus) LoadSaveData(data []byte) {
	switch m := b.mbc.(type) {
	case *MBC1:
		copy(m.ram, data)
	case *MBC5:
		copy(m.ram, data)
	case *NoMBC:
		copy(m.ram, data)
	}
}

// SaveData returns a copy of the cartridge's RAM contents, sized to the
// cartridge's declared RAM size but never smaller than 8 KiB.
func (b *Bus) SaveData() []byte {
	var ram []byte
	switch m := b.mbc.(type) {
	case *MBC1:
		ram = m.ram
	case *MBC5:
		ram = m.ram
	case *NoMBC:
		ram = m.ram
	}
	out := make([]byte, len(ram))
	copy(out, ram)
	return out
}

// RequestInterrupt sets the IF bit for i.
func (b *Bus) RequestInterrupt(i addr.Interrupt) {
	b.ifReg = bitOr(b.ifReg, addr.InterruptBit(i))
}

// ClearInterrupt clears the IF bit for i.
func (b *Bus) ClearInterrupt(i addr.Interrupt) {
	b.ifReg &^= 1 << addr.InterruptBit(i)
}

// IF returns the raw interrupt flag register.
func (b *Bus) IF() uint8 { return b.ifReg }

// IE returns the raw interrupt enable register.
func (b *Bus) IE() uint8 { return b.ieReg }

// IME returns the interrupt master enable flag.
func (b *Bus) IME() bool { return b.ime }

// SetIME sets the interrupt master enable flag. IME lives outside the
// addressable memory space, per spec §3.
func (b *Bus) SetIME(v bool) { b.ime = v }

func bitOr(v uint8, bitIndex uint8) uint8 {
	return v | (1 << bitIndex)
}

// ReadByte reads a single byte from address.
func (b *Bus) ReadByte(address uint16) uint8 {
	switch {
	case address <= 0x7FFF:
		return b.mbc.Read(address)
	case address >= 0x8000 && address <= 0x9FFF:
		return b.vram[address-0x8000]
	case address >= 0xA000 && address <= 0xBFFF:
		return b.mbc.Read(address)
	case address >= 0xC000 && address <= 0xDFFF:
		return b.wram[address-0xC000]
	case address >= 0xE000 && address <= 0xFDFF:
		return b.wram[address-0xE000] // echo RAM
	case address >= 0xFE00 && address <= 0xFE9F:
		return b.oam[address-0xFE00]
	case address >= 0xFEA0 && address <= 0xFEFF:
		return 0xFF // unmapped OAM-adjacent region
	case address >= 0xFF00 && address <= 0xFF7F:
		return b.readIO(address)
	case address >= 0xFF80 && address <= 0xFFFE:
		return b.hram[address-0xFF80]
	case address == addr.IE:
		return b.ieReg
	default:
		return 0xFF
	}
}

// WriteByte writes a single byte to address.
func (b *Bus) WriteByte(address uint16, value uint8) {
	switch {
	case address <= 0x7FFF:
		b.mbc.Write(address, value)
	case address >= 0x8000 && address <= 0x9FFF:
		b.vram[address-0x8000] = value
	case address >= 0xA000 && address <= 0xBFFF:
		b.mbc.Write(address, value)
	case address >= 0xC000 && address <= 0xDFFF:
		b.wram[address-0xC000] = value
	case address >= 0xE000 && address <= 0xFDFF:
		b.wram[address-0xE000] = value
	case address >= 0xFE00 && address <= 0xFE9F:
		b.oam[address-0xFE00] = value
	case address >= 0xFEA0 && address <= 0xFEFF:
		// dropped
	case address >= 0xFF00 && address <= 0xFF7F:
		b.writeIO(address, value)
	case address >= 0xFF80 && address <= 0xFFFE:
		b.hram[address-0xFF80] = value
	case address == addr.IE:
		b.ieReg = value
	}
}

// ReadWord reads a little-endian 16 bit value.
func (b *Bus) ReadWord(address uint16) uint16 {
	low := b.ReadByte(address)
	high := b.ReadByte(address + 1)
	return uint16(high)<<8 | uint16(low)
}

// WriteWord writes a little-endian 16 bit value.
func (b *Bus) WriteWord(address uint16, value uint16) {
	b.WriteByte(address, uint8(value))
	b.WriteByte(address+1, uint8(value>>8))
}

// readIO dispatches I/O-page reads to the owning subsystem, applying
// the per-register read-as-1 masks from spec §6.
func (b *Bus) readIO(address uint16) uint8 {
	switch address {
	case addr.P1:
		return b.joypad.Read()
	case addr.DIV, addr.TIMA, addr.TMA, addr.TAC:
		return b.timer.Read(address)
	case addr.IF:
		return b.ifReg | 0xE0
	default:
		if address >= addr.AudioStart && address <= addr.AudioEnd {
			return b.readAudioMasked(address)
		}
		return b.ioRegs[address-0xFF00]
	}
}

// writeIO dispatches I/O-page writes, applying the side effects spec
// §4.1 documents: DIV reset, LY ignored, OAM DMA trigger, NR52/joypad
// partial writes.
func (b *Bus) writeIO(address uint16, value uint8) {
	switch address {
	case addr.P1:
		b.joypad.Write(value)
	case addr.DIV, addr.TIMA, addr.TMA, addr.TAC:
		b.timer.Write(address, value)
	case addr.IF:
		b.ifReg = value & 0x1F
	case addr.LY:
		// read-only, writes ignored
	case addr.DMA:
		b.runOAMDMA(value)
	case addr.SB:
		// No link cable emulation: a write to SB just emits the
		// outgoing byte to the debug log, per spec §4.1.
		b.log.Debug("serial byte", "value", value, "char", string(rune(value)))
	case addr.NR52:
		stored := b.ioRegs[address-0xFF00]
		b.ioRegs[address-0xFF00] = (stored & 0x0F) | (value & 0x80)
	default:
		b.ioRegs[address-0xFF00] = value
	}
}

// runOAMDMA copies 0xA0 bytes from (value<<8) into OAM, synchronously,
// per spec §4.1/§9.
func (b *Bus) runOAMDMA(value uint8) {
	base := uint16(value) << 8
	for i := uint16(0); i < oamSize; i++ {
		b.oam[i] = b.ReadByte(base + i)
	}
}

// readAudioMasked applies the read-as-1 bit masks spec §6 lists for the
// audio register block. Wave RAM and unlisted registers pass through
// unmasked.
func (b *Bus) readAudioMasked(address uint16) uint8 {
	raw := b.ioRegs[address-0xFF00]
	switch address {
	case addr.NR10:
		return raw | 0x80
	case addr.NR11:
		return raw | 0x3F
	case addr.NR13:
		return 0xFF
	case addr.NR14:
		return raw | 0xBF
	case addr.NR21:
		return raw | 0x3F
	case addr.NR23:
		return 0xFF
	case addr.NR24:
		return raw | 0xBF
	case addr.NR30:
		return raw | 0x7F
	case addr.NR32:
		return raw | 0x9F
	case addr.NR33:
		return 0xFF
	case addr.NR34:
		return raw | 0xBF
	case addr.NR41:
		return 0xFF
	case addr.NR44:
		return raw | 0xBF
	case addr.NR52:
		return raw | 0x70
	default:
		return raw
	}
}

// RawIO exposes direct access to an I/O register's storage byte,
// bypassing read masks. Used by the audio package, which owns its own
// channel state machine but still stores register bytes on the bus so
// other subsystems (and savestate/debug tooling) see one source of
// truth for raw register contents.
func (b *Bus) RawIO(address uint16) uint8 {
	if address >= 0xFF00 && address <= 0xFF7F {
		return b.ioRegs[address-0xFF00]
	}
	return 0xFF
}

// SetRawIO stores a raw byte directly into the I/O page without
// triggering writeIO's side effects. Used by the audio package to
// record a channel-enable bit flip into NR52 driven by internal state
// (length expiry, sweep overflow) rather than a CPU store.
func (b *Bus) SetRawIO(address uint16, value uint8) {
	if address >= 0xFF00 && address <= 0xFF7F {
		b.ioRegs[address-0xFF00] = value
	}
}
