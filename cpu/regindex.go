package cpu

// getReg8/setReg8 decode the SM83's standard 3-bit register field:
// 0=B 1=C 2=D 3=E 4=H 5=L 6=(HL) 7=A. This regularity is what lets the
// LD r,r', ALU A,r, INC/DEC r, and CB rotate/BIT/RES/SET blocks be
// generated mechanically instead of hand-spelled per opcode.
func getReg8(c *CPU, idx uint8) uint8 {
	switch idx {
	case 0:
		return c.Regs.B
	case 1:
		return c.Regs.C
	case 2:
		return c.Regs.D
	case 3:
		return c.Regs.E
	case 4:
		return c.Regs.H
	case 5:
		return c.Regs.L
	case 6:
		return c.bus.ReadByte(c.Regs.GetHL())
	default:
		return c.Regs.A
	}
}

func setReg8(c *CPU, idx uint8, v uint8) {
	switch idx {
	case 0:
		c.Regs.B = v
	case 1:
		c.Regs.C = v
	case 2:
		c.Regs.D = v
	case 3:
		c.Regs.E = v
	case 4:
		c.Regs.H = v
	case 5:
		c.Regs.L = v
	case 6:
		c.bus.WriteByte(c.Regs.GetHL(), v)
	default:
		c.Regs.A = v
	}
}

// getReg16/setReg16 decode the 2-bit register-pair field used by the 16-bit
// load/ADD HL/INC/DEC rr blocks: 0=BC 1=DE 2=HL 3=SP.
func getReg16(c *CPU, idx uint8) uint16 {
	switch idx {
	case 0:
		return c.Regs.GetBC()
	case 1:
		return c.Regs.GetDE()
	case 2:
		return c.Regs.GetHL()
	default:
		return c.Regs.SP
	}
}

func setReg16(c *CPU, idx uint8, v uint16) {
	switch idx {
	case 0:
		c.Regs.SetBC(v)
	case 1:
		c.Regs.SetDE(v)
	case 2:
		c.Regs.SetHL(v)
	default:
		c.Regs.SP = v
	}
}
