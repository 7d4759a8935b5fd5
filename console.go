// Package gbemu drives the five subsystems (Timer, PPU, APU, CPU, and
// the shared Memory/Bus) that make up the emulator core, in the fixed
// per-tick order the hardware requires.
package gbemu

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Div9851/gbemu/addr"
	"github.com/Div9851/gbemu/audio"
	"github.com/Div9851/gbemu/cpu"
	"github.com/Div9851/gbemu/memory"
	"github.com/Div9851/gbemu/video"
)

// CyclesPerFrame is the number of T-cycles in one video frame.
const CyclesPerFrame = 70224

// JoypadState is the host-facing snapshot of which buttons are held.
type JoypadState struct {
	Start, Select, A, B   bool
	Down, Up, Left, Right bool
}

// Console owns the bus and all four ticking subsystems, and drives them
// through one frame at a time.
type Console struct {
	bus *memory.Bus
	cpu *cpu.CPU
	ppu *video.PPU
	apu *audio.APU

	log *slog.Logger
}

// New constructs a Console and seeds post-boot register state (spec
// §6's `init`).
func New() *Console {
	log := slog.Default()
	bus := memory.NewBus(log)
	c := &Console{
		bus: bus,
		cpu: cpu.New(bus),
		ppu: video.NewPPU(bus),
		apu: audio.NewAPU(bus),
		log: log,
	}
	c.init()
	return c
}

// init seeds every post-boot-ROM register value spec §6 lists.
func (c *Console) init() {
	regs := &c.cpu.Regs
	regs.A = 0x00
	regs.F = 0x80 // Z set only
	regs.B = 0x00
	regs.C = 0x13
	regs.D = 0x00
	regs.E = 0xD8
	regs.H = 0x01
	regs.L = 0x4D
	regs.PC = 0x0100
	regs.SP = 0xFFFE

	c.bus.WriteByte(addr.P1, 0xCF)
	c.bus.Timer().SetDiv(0xAB)
	c.bus.Timer().Write(addr.TIMA, 0)
	c.bus.Timer().Write(addr.TMA, 0)
	c.bus.Timer().Write(addr.TAC, 0xF8)
	c.bus.WriteByte(addr.IF, 0xE1)

	c.bus.SetRawIO(addr.NR21, 0x3F)
	c.bus.SetRawIO(addr.NR22, 0x00)
	c.bus.SetRawIO(addr.NR23, 0xFF)
	c.bus.SetRawIO(addr.NR24, 0xBF)
	c.bus.SetRawIO(addr.NR52, 0xF1)

	c.bus.SetRawIO(addr.LCDC, 0x91)
	c.bus.SetRawIO(addr.STAT, 0x85)
	c.bus.SetRawIO(addr.SCY, 0x00)
	c.bus.SetRawIO(addr.SCX, 0x00)
	c.bus.SetRawIO(addr.LY, 0x00)
	c.bus.SetRawIO(addr.LYC, 0x00)
	c.bus.SetRawIO(addr.BGP, 0xFC)
	c.bus.SetRawIO(addr.WY, 0x00)
	c.bus.SetRawIO(addr.WX, 0x00)

	c.log.Debug("console initialized")
}

// LoadROM parses and installs a cartridge image. It returns an error
// only when data is empty.
func (c *Console) LoadROM(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("gbemu: empty ROM data")
	}
	c.bus.LoadCartridge(data)
	c.log.Debug("rom loaded", "title", c.bus.Cartridge().Title, "bytes", len(data))
	return nil
}

// LoadROMFile reads a ROM from disk and loads it.
func (c *Console) LoadROMFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("gbemu: reading rom file: %w", err)
	}
	return c.LoadROM(data)
}

// LoadSaveData seeds cartridge RAM from a save blob.
func (c *Console) LoadSaveData(data []byte) {
	c.bus.LoadSaveData(data)
}

// SaveData returns the current cartridge RAM contents.
func (c *Console) SaveData() []byte {
	return c.bus.SaveData()
}

// UpdateJoypad applies a full joypad snapshot.
func (c *Console) UpdateJoypad(state JoypadState) {
	c.bus.Joypad().SetButton(memory.ButtonStart, state.Start)
	c.bus.Joypad().SetButton(memory.ButtonSelect, state.Select)
	c.bus.Joypad().SetButton(memory.ButtonA, state.A)
	c.bus.Joypad().SetButton(memory.ButtonB, state.B)
	c.bus.Joypad().SetButton(memory.ButtonDown, state.Down)
	c.bus.Joypad().SetButton(memory.ButtonUp, state.Up)
	c.bus.Joypad().SetButton(memory.ButtonLeft, state.Left)
	c.bus.Joypad().SetButton(memory.ButtonRight, state.Right)
}

// Tick advances every subsystem by exactly one T-cycle, in the fixed
// order spec §2 requires: Timer, PPU, APU, CPU. Joypad sampling happens
// on the host side via UpdateJoypad before NextFrame/Tick is called.
func (c *Console) Tick() {
	c.bus.Timer().Tick()
	c.ppu.Tick()
	c.apu.Tick()
	c.cpu.Tick()
}

// NextFrame advances the console by exactly one frame's worth of
// T-cycles (70,224), clearing the audio buffer first.
func (c *Console) NextFrame() {
	c.apu.ResetSamples()
	for i := 0; i < CyclesPerFrame; i++ {
		c.Tick()
	}
	c.log.Debug("frame advanced")
}

// FrameBuffer returns the current 160x144 RGBA8 framebuffer bytes.
func (c *Console) FrameBuffer() []byte {
	return c.ppu.FrameBuffer().Bytes()
}

// AudioBuffer returns the PCM samples accumulated since the last
// NextFrame call.
func (c *Console) AudioBuffer() []float32 {
	return c.apu.Samples()
}
