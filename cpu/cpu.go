package cpu

import (
	"github.com/Div9851/gbemu/addr"
	"github.com/Div9851/gbemu/memory"
)

// opcodeFunc executes one fully-decoded instruction (including any
// immediate operand fetches) and returns the number of T-cycles it
// consumed, extra conditional cycles already folded in.
type opcodeFunc func(c *CPU) int

// CPU is the SM83 execution engine. Tick advances it by exactly one
// T-cycle; a pendingCycles counter tracks how many further ticks the
// currently-committed instruction still occupies before the next fetch.
type CPU struct {
	Regs Registers
	bus  *memory.Bus

	pendingCycles int
	halted        bool
	haltBug       bool
	eiDelay       int
}

// New builds a CPU bound to bus. Register/PC/SP state is left zeroed;
// the console's init step seeds post-boot values.
func New(bus *memory.Bus) *CPU {
	return &CPU{bus: bus}
}

// Tick advances the CPU by one T-cycle.
func (c *CPU) Tick() {
	if c.pendingCycles > 0 {
		c.pendingCycles--
		return
	}
	cycles := c.step()
	c.pendingCycles = cycles - 1
}

// step runs the interrupt-dispatch/halt check and, if neither consumes
// the cycle, fetches and fully executes the next instruction.
func (c *CPU) step() int {
	c.processEIDelay()

	pending := c.bus.IF() & c.bus.IE() & 0x1F

	if c.halted {
		if pending != 0 {
			c.halted = false
		} else {
			return 4
		}
	}

	if c.bus.IME() && pending != 0 {
		return c.dispatchInterrupt(pending)
	}

	opcode := c.fetchByte()
	return primaryTable[opcode](c)
}

func (c *CPU) processEIDelay() {
	if c.eiDelay == 0 {
		return
	}
	c.eiDelay--
	if c.eiDelay == 0 {
		c.bus.SetIME(true)
	}
}

// dispatchInterrupt services the lowest-set pending interrupt bit, per
// spec §4.2.
func (c *CPU) dispatchInterrupt(pending uint8) int {
	var bitIndex uint8
	for bitIndex = 0; bitIndex < 5; bitIndex++ {
		if pending&(1<<bitIndex) != 0 {
			break
		}
	}

	c.bus.SetIME(false)
	c.bus.ClearInterrupt(addr.InterruptFromBit(bitIndex))
	c.pushWord(c.Regs.PC)
	c.Regs.PC = addr.InterruptVectors[bitIndex]
	return 20
}

// fetchByte reads the byte at PC and advances PC, unless a HALT bug is
// latched, in which case the advance is suppressed exactly once (spec
// §4.2).
func (c *CPU) fetchByte() uint8 {
	v := c.bus.ReadByte(c.Regs.PC)
	if c.haltBug {
		c.haltBug = false
	} else {
		c.Regs.PC++
	}
	return v
}

func (c *CPU) fetchWord() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) pushWord(v uint16) {
	c.Regs.SP--
	c.bus.WriteByte(c.Regs.SP, uint8(v>>8))
	c.Regs.SP--
	c.bus.WriteByte(c.Regs.SP, uint8(v))
}

func (c *CPU) popWord() uint16 {
	lo := c.bus.ReadByte(c.Regs.SP)
	c.Regs.SP++
	hi := c.bus.ReadByte(c.Regs.SP)
	c.Regs.SP++
	return uint16(hi)<<8 | uint16(lo)
}
