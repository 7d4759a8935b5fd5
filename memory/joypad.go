package memory

import "github.com/Div9851/gbemu/addr"

// Button identifies one of the eight Game Boy input buttons.
type Button uint8

const (
	ButtonA Button = iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonRight
	ButtonLeft
	ButtonUp
	ButtonDown
)

// Joypad tracks button state and serves the P1 register. Button and
// direction lines are selected independently through P1 bits 4 and 5;
// a line reads 0 when the corresponding button is held down.
type Joypad struct {
	buttons [8]bool

	selectButtons   bool
	selectDirection bool

	requestInterrupt func(addr.Interrupt)
}

// NewJoypad builds a Joypad with all buttons released.
func NewJoypad(requestInterrupt func(addr.Interrupt)) *Joypad {
	return &Joypad{requestInterrupt: requestInterrupt}
}

// SetButton updates a single button's held state, raising the joypad
// interrupt on a release-to-press transition of a currently selected
// line, per real hardware's edge-triggered P1 input.
func (j *Joypad) SetButton(b Button, pressed bool) {
	wasPressed := j.buttons[b]
	j.buttons[b] = pressed
	if pressed && !wasPressed && j.lineSelected(b) {
		j.requestInterrupt(addr.JoypadInterrupt)
	}
}

func (j *Joypad) lineSelected(b Button) bool {
	if b <= ButtonStart {
		return j.selectButtons
	}
	return j.selectDirection
}

// Read returns the current P1 register value.
func (j *Joypad) Read() uint8 {
	result := uint8(0xFF)
	if j.selectButtons {
		result &^= 1 << 5
		result = applyLine(result, j.buttons[ButtonA], 0)
		result = applyLine(result, j.buttons[ButtonB], 1)
		result = applyLine(result, j.buttons[ButtonSelect], 2)
		result = applyLine(result, j.buttons[ButtonStart], 3)
	}
	if j.selectDirection {
		result &^= 1 << 4
		result = applyLine(result, j.buttons[ButtonRight], 0)
		result = applyLine(result, j.buttons[ButtonLeft], 1)
		result = applyLine(result, j.buttons[ButtonUp], 2)
		result = applyLine(result, j.buttons[ButtonDown], 3)
	}
	return result
}

func applyLine(reg uint8, pressed bool, bit uint8) uint8 {
	if pressed {
		return reg &^ (1 << bit)
	}
	return reg
}

// Write updates the P1 selection bits. Bits 0-3 are read-only from the
// CPU's perspective.
func (j *Joypad) Write(value uint8) {
	j.selectButtons = value&(1<<5) == 0
	j.selectDirection = value&(1<<4) == 0
}
