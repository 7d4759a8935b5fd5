package memory

import (
	"testing"

	"github.com/Div9851/gbemu/addr"
)

func newTestTimer(t *testing.T) (*Timer, *int) {
	t.Helper()
	fired := 0
	timer := NewTimer(func(i addr.Interrupt) {
		if i != addr.TimerInterrupt {
			t.Fatalf("unexpected interrupt: %v", i)
		}
		fired++
	})
	return timer, &fired
}

func TestTimerDivIncrementsEvery256Cycles(t *testing.T) {
	timer, _ := newTestTimer(t)
	for i := 0; i < 256; i++ {
		timer.Tick()
	}
	if got := timer.Read(addr.DIV); got != 1 {
		t.Errorf("DIV = %d, want 1 after 256 ticks", got)
	}
}

func TestTimerDivWriteResets(t *testing.T) {
	timer, _ := newTestTimer(t)
	for i := 0; i < 300; i++ {
		timer.Tick()
	}
	timer.Write(addr.DIV, 0x42) // any written value resets DIV to 0
	if got := timer.Read(addr.DIV); got != 0 {
		t.Errorf("DIV = %d, want 0 after write", got)
	}
}

func TestTimerSetDivSeedsHighByte(t *testing.T) {
	timer, _ := newTestTimer(t)
	timer.SetDiv(0xAB)
	if got := timer.Read(addr.DIV); got != 0xAB {
		t.Errorf("DIV = %#02x, want 0xab", got)
	}
}

func TestTimerTIMAOverflowReloadsAndInterrupts(t *testing.T) {
	timer, fired := newTestTimer(t)
	timer.Write(addr.TMA, 0x05)
	timer.Write(addr.TAC, 0x05) // enabled, period 16
	timer.Write(addr.TIMA, 0xFF)

	for i := 0; i < 16; i++ {
		timer.Tick()
	}

	if timer.Read(addr.TIMA) != 0x05 {
		t.Errorf("TIMA = %#02x, want 0x05 after reload", timer.Read(addr.TIMA))
	}
	if *fired != 1 {
		t.Errorf("interrupt fired %d times, want 1", *fired)
	}
}

func TestTimerDisabledDoesNotIncrementTIMA(t *testing.T) {
	timer, _ := newTestTimer(t)
	timer.Write(addr.TAC, 0x00) // disabled
	timer.Write(addr.TIMA, 0x00)

	for i := 0; i < 2048; i++ {
		timer.Tick()
	}

	if timer.Read(addr.TIMA) != 0 {
		t.Errorf("TIMA = %d, want 0 while disabled", timer.Read(addr.TIMA))
	}
}

func TestTimerTACReadMasksUpperBits(t *testing.T) {
	timer, _ := newTestTimer(t)
	timer.Write(addr.TAC, 0x07)
	if got := timer.Read(addr.TAC); got != 0xFF {
		t.Errorf("TAC read = %#02x, want 0xff", got)
	}
}
