package cpu

import "testing"

func TestRegisterPairRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		set  func(r *Registers, v uint16)
		get  func(r *Registers) uint16
	}{
		{"BC", (*Registers).SetBC, (*Registers).GetBC},
		{"DE", (*Registers).SetDE, (*Registers).GetDE},
		{"HL", (*Registers).SetHL, (*Registers).GetHL},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var r Registers
			tc.set(&r, 0xBEEF)
			if got := tc.get(&r); got != 0xBEEF {
				t.Errorf("got %#04x, want 0xbeef", got)
			}
		})
	}
}

func TestFlagLowNibbleAlwaysZero(t *testing.T) {
	var r Registers
	r.F = 0xFF
	r.SetFlagZ(true)
	if r.F&0x0F != 0 {
		t.Errorf("F low nibble = %#02x, want 0", r.F&0x0F)
	}
}

func TestSetAFMasksLowNibble(t *testing.T) {
	var r Registers
	r.SetAF(0x12FF)
	if r.F != 0xF0 {
		t.Errorf("F = %#02x, want 0xf0", r.F)
	}
	if r.GetAF() != 0x12F0 {
		t.Errorf("GetAF() = %#04x, want 0x12f0", r.GetAF())
	}
}

func TestFlagAccessors(t *testing.T) {
	var r Registers
	r.SetFlagZ(true)
	r.SetFlagC(true)
	if !r.FlagZ() || !r.FlagC() {
		t.Fatal("expected Z and C set")
	}
	if r.FlagN() || r.FlagH() {
		t.Fatal("expected N and H clear")
	}
	r.SetFlagZ(false)
	if r.FlagZ() {
		t.Fatal("expected Z clear after SetFlagZ(false)")
	}
}
