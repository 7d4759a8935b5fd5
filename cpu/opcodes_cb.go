package cpu

var cbTable [256]opcodeFunc

// init generates the entire CB-prefixed table. Every one of its 256
// opcodes follows the SM83's regular `op<<3 | reg` encoding, so none of
// it needs to be hand-written: rotate/shift/swap (op 0-7), BIT (op
// 8-15), RES (op 16-23), SET (op 24-31), each over the eight `reg`
// targets B,C,D,E,H,L,(HL),A.
func init() {
	for opcode := 0; opcode < 256; opcode++ {
		op := uint8(opcode >> 3)
		reg := uint8(opcode & 0x07)

		switch {
		case op < 8:
			cbTable[opcode] = makeShiftOp(op, reg)
		case op < 16:
			cbTable[opcode] = makeBitOp(op-8, reg)
		case op < 24:
			cbTable[opcode] = makeResOp(op-16, reg)
		default:
			cbTable[opcode] = makeSetOp(op-24, reg)
		}
	}
}

func cbCost(reg uint8, indirectCost, directCost int) int {
	if reg == 6 {
		return indirectCost
	}
	return directCost
}

func makeShiftOp(op uint8, reg uint8) opcodeFunc {
	return func(c *CPU) int {
		v := getReg8(c, reg)
		var result uint8
		var carry bool
		switch op {
		case 0:
			result, carry = rlc(v)
		case 1:
			result, carry = rrc(v)
		case 2:
			result, carry = rl(v, c.Regs.FlagC())
		case 3:
			result, carry = rr(v, c.Regs.FlagC())
		case 4:
			result, carry = sla(v)
		case 5:
			result, carry = sra(v)
		case 6:
			result = swap(v)
			carry = false
		case 7:
			result, carry = srl(v)
		}
		setReg8(c, reg, result)
		c.Regs.SetFlagZ(result == 0)
		c.Regs.SetFlagN(false)
		c.Regs.SetFlagH(false)
		c.Regs.SetFlagC(carry)
		return cbCost(reg, 16, 8)
	}
}

func makeBitOp(bitIndex uint8, reg uint8) opcodeFunc {
	return func(c *CPU) int {
		v := getReg8(c, reg)
		c.Regs.SetFlagZ(v&(1<<bitIndex) == 0)
		c.Regs.SetFlagN(false)
		c.Regs.SetFlagH(true)
		return cbCost(reg, 12, 8)
	}
}

func makeResOp(bitIndex uint8, reg uint8) opcodeFunc {
	return func(c *CPU) int {
		v := getReg8(c, reg) &^ (1 << bitIndex)
		setReg8(c, reg, v)
		return cbCost(reg, 16, 8)
	}
}

func makeSetOp(bitIndex uint8, reg uint8) opcodeFunc {
	return func(c *CPU) int {
		v := getReg8(c, reg) | (1 << bitIndex)
		setReg8(c, reg, v)
		return cbCost(reg, 16, 8)
	}
}
