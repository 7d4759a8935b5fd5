package cpu

var primaryTable [256]opcodeFunc

// init builds the 256-entry primary dispatch table: the regular blocks
// (8-bit loads, ALU A,r, INC/DEC r/rr, 16-bit loads, ADD HL,rr,
// PUSH/POP, RST, and the four conditional-branch families) are
// generated from the SM83's own field encoding; everything left over is
// assigned individually below.
func init() {
	generate8BitLoads()
	generateALUBlock()
	generate8BitIncDec()
	generate16BitLoadImm()
	generate16BitIncDec()
	generateAddHL()
	generatePushPop()
	generateRST()
	generateConditionalBranches()
	assignIrregularOpcodes()
}

// generate8BitLoads fills 0x40-0x7F, the `LD dst,src` block, skipping
// 0x76 (HALT occupies the slot where LD (HL),(HL) would be).
func generate8BitLoads() {
	for opcode := 0x40; opcode <= 0x7F; opcode++ {
		if opcode == 0x76 {
			continue
		}
		dst := uint8((opcode >> 3) & 0x07)
		src := uint8(opcode & 0x07)
		primaryTable[opcode] = makeLD8(dst, src)
	}
}

func makeLD8(dst, src uint8) opcodeFunc {
	return func(c *CPU) int {
		setReg8(c, dst, getReg8(c, src))
		if dst == 6 || src == 6 {
			return 8
		}
		return 4
	}
}

// generateALUBlock fills 0x80-0xBF: ADD/ADC/SUB/SBC/AND/XOR/OR/CP A,r.
func generateALUBlock() {
	for opcode := 0x80; opcode <= 0xBF; opcode++ {
		op := uint8((opcode - 0x80) >> 3)
		reg := uint8(opcode & 0x07)
		primaryTable[opcode] = makeALU(op, reg)
	}
}

func makeALU(op, reg uint8) opcodeFunc {
	return func(c *CPU) int {
		v := getReg8(c, reg)
		applyALU(c, op, v)
		if reg == 6 {
			return 8
		}
		return 4
	}
}

// applyALU performs the op-indexed 8-bit ALU operation against A.
func applyALU(c *CPU, op uint8, v uint8) {
	r := &c.Regs
	switch op {
	case 0: // ADD
		r.A = aluAdd(r, v, 0)
	case 1: // ADC
		r.A = aluAdd(r, v, carryBit(r))
	case 2: // SUB
		r.A = aluSub(r, v, 0)
	case 3: // SBC
		r.A = aluSub(r, v, carryBit(r))
	case 4: // AND
		r.A = aluAnd(r, v)
	case 5: // XOR
		r.A = aluXor(r, v)
	case 6: // OR
		r.A = aluOr(r, v)
	case 7: // CP
		aluSub(r, v, 0)
	}
}

func carryBit(r *Registers) uint8 {
	if r.FlagC() {
		return 1
	}
	return 0
}

// generate8BitIncDec fills the INC r/DEC r opcodes at 0x04+8r and
// 0x05+8r for r in 0-7.
func generate8BitIncDec() {
	for reg := uint8(0); reg < 8; reg++ {
		regCopy := reg
		incOp := 0x04 + int(reg)*8
		decOp := 0x05 + int(reg)*8
		primaryTable[incOp] = func(c *CPU) int {
			setReg8(c, regCopy, incVal(&c.Regs, getReg8(c, regCopy)))
			if regCopy == 6 {
				return 12
			}
			return 4
		}
		primaryTable[decOp] = func(c *CPU) int {
			setReg8(c, regCopy, decVal(&c.Regs, getReg8(c, regCopy)))
			if regCopy == 6 {
				return 12
			}
			return 4
		}
	}
}

// generate16BitLoadImm fills LD rr,d16 at 0x01 + 0x10*idx.
func generate16BitLoadImm() {
	for idx := uint8(0); idx < 4; idx++ {
		i := idx
		primaryTable[0x01+int(idx)*0x10] = func(c *CPU) int {
			setReg16(c, i, c.fetchWord())
			return 12
		}
	}
}

// generate16BitIncDec fills INC rr/DEC rr at 0x03/0x0B + 0x10*idx.
func generate16BitIncDec() {
	for idx := uint8(0); idx < 4; idx++ {
		i := idx
		primaryTable[0x03+int(idx)*0x10] = func(c *CPU) int {
			setReg16(c, i, getReg16(c, i)+1)
			return 8
		}
		primaryTable[0x0B+int(idx)*0x10] = func(c *CPU) int {
			setReg16(c, i, getReg16(c, i)-1)
			return 8
		}
	}
}

// generateAddHL fills ADD HL,rr at 0x09 + 0x10*idx.
func generateAddHL() {
	for idx := uint8(0); idx < 4; idx++ {
		i := idx
		primaryTable[0x09+int(idx)*0x10] = func(c *CPU) int {
			addHL16(&c.Regs, getReg16(c, i))
			return 8
		}
	}
}

// getReg16Stack/setReg16Stack decode the PUSH/POP register-pair field,
// which substitutes AF for SP at index 3.
func getReg16Stack(c *CPU, idx uint8) uint16 {
	if idx == 3 {
		return c.Regs.GetAF()
	}
	return getReg16(c, idx)
}

func setReg16Stack(c *CPU, idx uint8, v uint16) {
	if idx == 3 {
		c.Regs.SetAF(v)
		return
	}
	setReg16(c, idx, v)
}

// generatePushPop fills PUSH rr at 0xC5+0x10*idx and POP rr at
// 0xC1+0x10*idx.
func generatePushPop() {
	for idx := uint8(0); idx < 4; idx++ {
		i := idx
		primaryTable[0xC1+int(idx)*0x10] = func(c *CPU) int {
			setReg16Stack(c, i, c.popWord())
			return 12
		}
		primaryTable[0xC5+int(idx)*0x10] = func(c *CPU) int {
			c.pushWord(getReg16Stack(c, i))
			return 16
		}
	}
}

// generateRST fills the eight RST n opcodes at 0xC7 + 8k.
func generateRST() {
	for k := uint8(0); k < 8; k++ {
		vector := uint16(k) * 0x08
		primaryTable[0xC7+int(k)*8] = func(c *CPU) int {
			c.pushWord(c.Regs.PC)
			c.Regs.PC = vector
			return 16
		}
	}
}

// condMet decodes the 2-bit branch-condition field used by JR/JP/CALL/
// RET cc: 0=NZ 1=Z 2=NC 3=C.
func condMet(c *CPU, idx uint8) bool {
	switch idx {
	case 0:
		return !c.Regs.FlagZ()
	case 1:
		return c.Regs.FlagZ()
	case 2:
		return !c.Regs.FlagC()
	default:
		return c.Regs.FlagC()
	}
}

// generateConditionalBranches fills JR cc,JP cc,CALL cc,RET cc for the
// four conditions at their regular opcode offsets (spec §4.2's
// equivalent "compute extra cycles directly" strategy: each handler
// just returns the base or extended cost as appropriate).
func generateConditionalBranches() {
	for idx := uint8(0); idx < 4; idx++ {
		i := idx
		primaryTable[0x20+int(idx)*0x08] = func(c *CPU) int {
			d := int8(c.fetchByte())
			if condMet(c, i) {
				c.Regs.PC = uint16(int32(c.Regs.PC) + int32(d))
				return 12
			}
			return 8
		}
		primaryTable[0xC2+int(idx)*0x08] = func(c *CPU) int {
			target := c.fetchWord()
			if condMet(c, i) {
				c.Regs.PC = target
				return 16
			}
			return 12
		}
		primaryTable[0xC4+int(idx)*0x08] = func(c *CPU) int {
			target := c.fetchWord()
			if condMet(c, i) {
				c.pushWord(c.Regs.PC)
				c.Regs.PC = target
				return 24
			}
			return 12
		}
		primaryTable[0xC0+int(idx)*0x08] = func(c *CPU) int {
			if condMet(c, i) {
				c.Regs.PC = c.popWord()
				return 20
			}
			return 8
		}
	}
}

// assignIrregularOpcodes hand-assigns every opcode that doesn't belong
// to one of the regular blocks above: control flow without a
// condition, 16-bit stack/SP-relative loads, accumulator rotates,
// single-purpose instructions, and the undefined opcodes (which panic
// per spec §7).
func assignIrregularOpcodes() {
	t := &primaryTable

	t[0x00] = func(c *CPU) int { return 4 } // NOP

	t[0x02] = func(c *CPU) int { c.bus.WriteByte(c.Regs.GetBC(), c.Regs.A); return 8 }
	t[0x12] = func(c *CPU) int { c.bus.WriteByte(c.Regs.GetDE(), c.Regs.A); return 8 }
	t[0x0A] = func(c *CPU) int { c.Regs.A = c.bus.ReadByte(c.Regs.GetBC()); return 8 }
	t[0x1A] = func(c *CPU) int { c.Regs.A = c.bus.ReadByte(c.Regs.GetDE()); return 8 }

	t[0x22] = func(c *CPU) int { // LD (HL+),A
		hl := c.Regs.GetHL()
		c.bus.WriteByte(hl, c.Regs.A)
		c.Regs.SetHL(hl + 1)
		return 8
	}
	t[0x32] = func(c *CPU) int { // LD (HL-),A
		hl := c.Regs.GetHL()
		c.bus.WriteByte(hl, c.Regs.A)
		c.Regs.SetHL(hl - 1)
		return 8
	}
	t[0x2A] = func(c *CPU) int { // LD A,(HL+)
		hl := c.Regs.GetHL()
		c.Regs.A = c.bus.ReadByte(hl)
		c.Regs.SetHL(hl + 1)
		return 8
	}
	t[0x3A] = func(c *CPU) int { // LD A,(HL-)
		hl := c.Regs.GetHL()
		c.Regs.A = c.bus.ReadByte(hl)
		c.Regs.SetHL(hl - 1)
		return 8
	}

	t[0x06] = func(c *CPU) int { c.Regs.B = c.fetchByte(); return 8 }
	t[0x0E] = func(c *CPU) int { c.Regs.C = c.fetchByte(); return 8 }
	t[0x16] = func(c *CPU) int { c.Regs.D = c.fetchByte(); return 8 }
	t[0x1E] = func(c *CPU) int { c.Regs.E = c.fetchByte(); return 8 }
	t[0x26] = func(c *CPU) int { c.Regs.H = c.fetchByte(); return 8 }
	t[0x2E] = func(c *CPU) int { c.Regs.L = c.fetchByte(); return 8 }
	t[0x36] = func(c *CPU) int { c.bus.WriteByte(c.Regs.GetHL(), c.fetchByte()); return 12 }
	t[0x3E] = func(c *CPU) int { c.Regs.A = c.fetchByte(); return 8 }

	t[0x07] = func(c *CPU) int { // RLCA
		result, carry := rlc(c.Regs.A)
		c.Regs.A = result
		c.Regs.SetFlagZ(false)
		c.Regs.SetFlagN(false)
		c.Regs.SetFlagH(false)
		c.Regs.SetFlagC(carry)
		return 4
	}
	t[0x0F] = func(c *CPU) int { // RRCA
		result, carry := rrc(c.Regs.A)
		c.Regs.A = result
		c.Regs.SetFlagZ(false)
		c.Regs.SetFlagN(false)
		c.Regs.SetFlagH(false)
		c.Regs.SetFlagC(carry)
		return 4
	}
	t[0x17] = func(c *CPU) int { // RLA
		result, carry := rl(c.Regs.A, c.Regs.FlagC())
		c.Regs.A = result
		c.Regs.SetFlagZ(false)
		c.Regs.SetFlagN(false)
		c.Regs.SetFlagH(false)
		c.Regs.SetFlagC(carry)
		return 4
	}
	t[0x1F] = func(c *CPU) int { // RRA
		result, carry := rr(c.Regs.A, c.Regs.FlagC())
		c.Regs.A = result
		c.Regs.SetFlagZ(false)
		c.Regs.SetFlagN(false)
		c.Regs.SetFlagH(false)
		c.Regs.SetFlagC(carry)
		return 4
	}

	t[0x08] = func(c *CPU) int { // LD (a16),SP
		addr := c.fetchWord()
		c.bus.WriteWord(addr, c.Regs.SP)
		return 20
	}

	t[0x10] = func(c *CPU) int { c.fetchByte(); return 4 } // STOP, treated as 4-cycle no-op (spec §4.2)
	t[0x76] = func(c *CPU) int { // HALT
		pending := c.bus.IF() & c.bus.IE() & 0x1F
		if !c.bus.IME() && pending != 0 {
			// Halt bug: IME is off and an interrupt is already
			// pending, so the CPU never actually halts — instead
			// the next opcode fetch fails to advance PC (spec §4.2).
			c.haltBug = true
		} else {
			c.halted = true
		}
		return 4
	}
	t[0x18] = func(c *CPU) int { // JR r8
		d := int8(c.fetchByte())
		c.Regs.PC = uint16(int32(c.Regs.PC) + int32(d))
		return 12
	}

	t[0x27] = func(c *CPU) int { daa(&c.Regs); return 4 }
	t[0x2F] = func(c *CPU) int { // CPL
		c.Regs.A = ^c.Regs.A
		c.Regs.SetFlagN(true)
		c.Regs.SetFlagH(true)
		return 4
	}
	t[0x37] = func(c *CPU) int { // SCF
		c.Regs.SetFlagN(false)
		c.Regs.SetFlagH(false)
		c.Regs.SetFlagC(true)
		return 4
	}
	t[0x3F] = func(c *CPU) int { // CCF
		c.Regs.SetFlagN(false)
		c.Regs.SetFlagH(false)
		c.Regs.SetFlagC(!c.Regs.FlagC())
		return 4
	}

	t[0xC3] = func(c *CPU) int { c.Regs.PC = c.fetchWord(); return 16 } // JP nn
	t[0xE9] = func(c *CPU) int { c.Regs.PC = c.Regs.GetHL(); return 4 } // JP HL
	t[0xCD] = func(c *CPU) int { // CALL nn
		target := c.fetchWord()
		c.pushWord(c.Regs.PC)
		c.Regs.PC = target
		return 24
	}
	t[0xC9] = func(c *CPU) int { c.Regs.PC = c.popWord(); return 16 } // RET
	t[0xD9] = func(c *CPU) int { // RETI
		c.Regs.PC = c.popWord()
		c.bus.SetIME(true)
		c.eiDelay = 0
		return 16
	}

	t[0xC6] = func(c *CPU) int { applyALU(c, 0, c.fetchByte()); return 8 } // ADD A,d8
	t[0xCE] = func(c *CPU) int { applyALU(c, 1, c.fetchByte()); return 8 } // ADC A,d8
	t[0xD6] = func(c *CPU) int { applyALU(c, 2, c.fetchByte()); return 8 } // SUB d8
	t[0xDE] = func(c *CPU) int { applyALU(c, 3, c.fetchByte()); return 8 } // SBC A,d8
	t[0xE6] = func(c *CPU) int { applyALU(c, 4, c.fetchByte()); return 8 } // AND d8
	t[0xEE] = func(c *CPU) int { applyALU(c, 5, c.fetchByte()); return 8 } // XOR d8
	t[0xF6] = func(c *CPU) int { applyALU(c, 6, c.fetchByte()); return 8 } // OR d8
	t[0xFE] = func(c *CPU) int { applyALU(c, 7, c.fetchByte()); return 8 } // CP d8

	t[0xCB] = func(c *CPU) int { return cbTable[c.fetchByte()](c) }

	t[0xE0] = func(c *CPU) int { c.bus.WriteByte(0xFF00+uint16(c.fetchByte()), c.Regs.A); return 12 } // LDH (a8),A
	t[0xF0] = func(c *CPU) int { c.Regs.A = c.bus.ReadByte(0xFF00 + uint16(c.fetchByte())); return 12 } // LDH A,(a8)
	t[0xE2] = func(c *CPU) int { c.bus.WriteByte(0xFF00+uint16(c.Regs.C), c.Regs.A); return 8 }        // LD (C),A
	t[0xF2] = func(c *CPU) int { c.Regs.A = c.bus.ReadByte(0xFF00 + uint16(c.Regs.C)); return 8 }       // LD A,(C)
	t[0xEA] = func(c *CPU) int { c.bus.WriteByte(c.fetchWord(), c.Regs.A); return 16 }                  // LD (a16),A
	t[0xFA] = func(c *CPU) int { c.Regs.A = c.bus.ReadByte(c.fetchWord()); return 16 }                  // LD A,(a16)

	t[0xE8] = func(c *CPU) int { // ADD SP,r8
		d := int8(c.fetchByte())
		c.Regs.SP = addSPDisplacement(&c.Regs, d)
		return 16
	}
	t[0xF8] = func(c *CPU) int { // LD HL,SP+r8
		d := int8(c.fetchByte())
		c.Regs.SetHL(addSPDisplacement(&c.Regs, d))
		return 12
	}
	t[0xF9] = func(c *CPU) int { c.Regs.SP = c.Regs.GetHL(); return 8 } // LD SP,HL

	t[0xF3] = func(c *CPU) int { c.bus.SetIME(false); c.eiDelay = 0; return 4 } // DI
	t[0xFB] = func(c *CPU) int { c.eiDelay = 2; return 4 }                      // EI

	for _, opcode := range []int{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		t[opcode] = func(c *CPU) int {
			panic("cpu: unknown opcode")
		}
	}
}
