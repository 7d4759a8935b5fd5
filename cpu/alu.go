package cpu

// aluAdd adds value and carryIn to A, returning the result and updating
// ZNHC per spec §4.2's ADD/ADC table.
func aluAdd(r *Registers, value uint8, carryIn uint8) uint8 {
	a := r.A
	sum := int(a) + int(value) + int(carryIn)
	result := uint8(sum)
	r.SetFlagZ(result == 0)
	r.SetFlagN(false)
	r.SetFlagH((a&0x0F)+(value&0x0F)+carryIn > 0x0F)
	r.SetFlagC(sum > 0xFF)
	return result
}

// aluSub subtracts value and carryIn from A, returning the result and
// updating ZNHC per spec §4.2's SUB/SBC table. CP calls this and
// discards the result, keeping only the flags.
func aluSub(r *Registers, value uint8, carryIn uint8) uint8 {
	a := r.A
	result := a - value - carryIn
	r.SetFlagZ(result == 0)
	r.SetFlagN(true)
	r.SetFlagH(int(a&0x0F)-int(value&0x0F)-int(carryIn) < 0)
	r.SetFlagC(int(a)-int(value)-int(carryIn) < 0)
	return result
}

func aluAnd(r *Registers, value uint8) uint8 {
	result := r.A & value
	r.SetFlagZ(result == 0)
	r.SetFlagN(false)
	r.SetFlagH(true)
	r.SetFlagC(false)
	return result
}

func aluOr(r *Registers, value uint8) uint8 {
	result := r.A | value
	r.SetFlagZ(result == 0)
	r.SetFlagN(false)
	r.SetFlagH(false)
	r.SetFlagC(false)
	return result
}

func aluXor(r *Registers, value uint8) uint8 {
	result := r.A ^ value
	r.SetFlagZ(result == 0)
	r.SetFlagN(false)
	r.SetFlagH(false)
	r.SetFlagC(false)
	return result
}

func incVal(r *Registers, v uint8) uint8 {
	result := v + 1
	r.SetFlagZ(result == 0)
	r.SetFlagN(false)
	r.SetFlagH(v&0x0F == 0x0F)
	return result
}

func decVal(r *Registers, v uint8) uint8 {
	result := v - 1
	r.SetFlagZ(result == 0)
	r.SetFlagN(true)
	r.SetFlagH(v&0x0F == 0)
	return result
}

// addHL16 adds value to HL, setting flags -0HC where H is carry out of
// bit 11, per spec §4.2.
func addHL16(r *Registers, value uint16) {
	hl := r.GetHL()
	sum := uint32(hl) + uint32(value)
	r.SetFlagN(false)
	r.SetFlagH((hl&0x0FFF)+(value&0x0FFF) > 0x0FFF)
	r.SetFlagC(sum > 0xFFFF)
	r.SetHL(uint16(sum))
}

// addSPDisplacement computes SP + a signed 8-bit displacement, setting
// flags 00HC computed on the low byte (spec §4.2).
func addSPDisplacement(r *Registers, disp int8) uint16 {
	sp := r.SP
	d := uint16(int16(disp))
	result := sp + d

	low := uint8(sp)
	db := uint8(disp)
	r.SetFlagZ(false)
	r.SetFlagN(false)
	r.SetFlagH((low&0x0F)+(db&0x0F) > 0x0F)
	r.SetFlagC(uint16(low)+uint16(db) > 0xFF)
	return result
}

func daa(r *Registers) {
	a := r.A
	var adjust uint8
	carry := r.FlagC()

	if !r.FlagN() {
		if r.FlagC() || a > 0x99 {
			adjust |= 0x60
			carry = true
		}
		if r.FlagH() || a&0x0F > 0x09 {
			adjust |= 0x06
		}
		a += adjust
	} else {
		if r.FlagC() {
			adjust |= 0x60
		}
		if r.FlagH() {
			adjust |= 0x06
		}
		a -= adjust
	}

	r.A = a
	r.SetFlagZ(a == 0)
	r.SetFlagH(false)
	r.SetFlagC(carry)
}

func rlc(v uint8) (uint8, bool) {
	carry := v&0x80 != 0
	result := v << 1
	if carry {
		result |= 0x01
	}
	return result, carry
}

func rrc(v uint8) (uint8, bool) {
	carry := v&0x01 != 0
	result := v >> 1
	if carry {
		result |= 0x80
	}
	return result, carry
}

func rl(v uint8, carryIn bool) (uint8, bool) {
	carry := v&0x80 != 0
	result := v << 1
	if carryIn {
		result |= 0x01
	}
	return result, carry
}

func rr(v uint8, carryIn bool) (uint8, bool) {
	carry := v&0x01 != 0
	result := v >> 1
	if carryIn {
		result |= 0x80
	}
	return result, carry
}

func sla(v uint8) (uint8, bool) {
	carry := v&0x80 != 0
	return v << 1, carry
}

func sra(v uint8) (uint8, bool) {
	carry := v&0x01 != 0
	return (v >> 1) | (v & 0x80), carry
}

func srl(v uint8) (uint8, bool) {
	carry := v&0x01 != 0
	return v >> 1, carry
}

func swap(v uint8) uint8 {
	return v<<4 | v>>4
}
