package audio

import (
	"github.com/Div9851/gbemu/addr"
	"github.com/Div9851/gbemu/bit"
	"github.com/Div9851/gbemu/memory"
)

// channel holds the state shared by all four generators: a frequency
// timer driving the waveform/LFSR position, a length counter, and
// (channels 1/2/4) an envelope, plus (channel 1 only) a sweep unit.
// Fields unused by a given channel simply stay zero.
type channel struct {
	enabled bool

	freqTimer int
	dutyPos   uint8
	waveIndex uint8
	lfsr      uint16

	lengthTimer int

	envelopeVolume int
	envelopePeriod int
	envelopeUp     bool
	envelopeTimer  int

	sweepEnabled bool
	sweepPeriod  int
	sweepTimer   int
	sweepShift   int
	sweepNegate  bool
	sweepShadow  int
}

// channelConfig names the register addresses and bit-width constants
// that distinguish one channel from another; the generator logic itself
// is shared.
type channelConfig struct {
	sweepReg  uint16 // 0 if the channel has no sweep unit
	reg1      uint16
	reg2      uint16
	reg3      uint16
	reg4      uint16
	lengthMax int
	enableBit uint8
}

var channelConfigs = [4]channelConfig{
	{sweepReg: addr.NR10, reg1: addr.NR11, reg2: addr.NR12, reg3: addr.NR13, reg4: addr.NR14, lengthMax: 64, enableBit: 0},
	{reg1: addr.NR21, reg2: addr.NR22, reg3: addr.NR23, reg4: addr.NR24, lengthMax: 64, enableBit: 1},
	{reg1: addr.NR31, reg2: addr.NR32, reg3: addr.NR33, reg4: addr.NR34, lengthMax: 256, enableBit: 2},
	{reg1: addr.NR41, reg2: addr.NR42, reg3: addr.NR43, reg4: addr.NR44, lengthMax: 64, enableBit: 3},
}

// APU is the four-channel synthesizer. Tick advances it by one T-cycle;
// a sample is appended to the output buffer every 87 T-cycles.
type APU struct {
	bus *memory.Bus

	channels [4]channel

	seqCounter int
	seqStep    int

	sampleCounter int
	samples       []float32
}

// NewAPU builds an APU bound to bus.
func NewAPU(bus *memory.Bus) *APU {
	return &APU{bus: bus}
}

// Samples returns the accumulated output buffer.
func (a *APU) Samples() []float32 { return a.samples }

// ResetSamples clears the output buffer; called at the start of each
// frame by the driver.
func (a *APU) ResetSamples() { a.samples = a.samples[:0] }

// Tick advances every channel, the frame sequencer, and the sampling
// divider by one T-cycle.
func (a *APU) Tick() {
	for i := range a.channels {
		a.checkTrigger(i)
	}

	a.tickChannel1()
	a.tickChannel2()
	a.tickChannel3()
	a.tickChannel4()

	a.seqCounter++
	if a.seqCounter >= sequencerPeriod {
		a.seqCounter = 0
		a.tickSequencerStep()
	}

	a.sampleCounter++
	if a.sampleCounter >= samplingPeriod {
		a.sampleCounter = 0
		a.emitSample()
	}
}

// checkTrigger detects a pending trigger bit (NRx4 bit 7) left set by a
// CPU write during the previous tick, fires it, and clears the bit —
// matching spec §4.4's "clear that bit" requirement without needing a
// write-observer hook into the bus.
func (a *APU) checkTrigger(i int) {
	cfg := channelConfigs[i]
	v := a.bus.RawIO(cfg.reg4)
	if !bit.IsSet(7, v) {
		return
	}
	a.bus.SetRawIO(cfg.reg4, bit.Reset(7, v))
	a.trigger(i)
}

// trigger reinitializes channel i: reload frequency timer, length
// timer, envelope, and (channel 1) sweep shadow/timer, then mark it
// enabled in NR52.
func (a *APU) trigger(i int) {
	cfg := channelConfigs[i]
	c := &a.channels[i]

	c.enabled = true
	a.setNR52Bit(cfg.enableBit, true)

	lengthMask := uint8(0x3F)
	if i == 2 {
		lengthMask = 0xFF
	}
	reg1 := a.bus.RawIO(cfg.reg1)
	c.lengthTimer = cfg.lengthMax - int(reg1&lengthMask)

	switch i {
	case 0, 1:
		c.freqTimer = a.periodSquare(i)
		a.reloadEnvelope(c, cfg)
	case 2:
		c.waveIndex = 0
		c.freqTimer = a.periodWave()
	case 3:
		a.reloadEnvelope(c, cfg)
		nr43 := a.bus.RawIO(addr.NR43)
		c.freqTimer = noiseDivisors[nr43&0x07] << (nr43 >> 4)
		c.lfsr = 0x7FFF
	}

	if i == 0 {
		sweepReg := a.bus.RawIO(cfg.sweepReg)
		c.sweepPeriod = int((sweepReg >> 4) & 0x07)
		c.sweepShift = int(sweepReg & 0x07)
		c.sweepNegate = bit.IsSet(3, sweepReg)
		c.sweepShadow = a.frequency(cfg)
		c.sweepTimer = c.sweepPeriod
		if c.sweepTimer == 0 {
			c.sweepTimer = 8
		}
		c.sweepEnabled = c.sweepPeriod != 0 || c.sweepShift != 0
		if c.sweepShift != 0 {
			a.computeSweep(c, false)
		}
	}
}

// reloadEnvelope latches the envelope volume/direction/period from NRx2
// on trigger, for the three channels (1, 2, 4) that have an envelope.
func (a *APU) reloadEnvelope(c *channel, cfg channelConfig) {
	reg2 := a.bus.RawIO(cfg.reg2)
	c.envelopeVolume = int(reg2 >> 4)
	c.envelopePeriod = int(reg2 & 0x07)
	c.envelopeUp = bit.IsSet(3, reg2)
	c.envelopeTimer = c.envelopePeriod
}

func (a *APU) frequency(cfg channelConfig) int {
	lo := a.bus.RawIO(cfg.reg3)
	hi := a.bus.RawIO(cfg.reg4) & 0x07
	return int(hi)<<8 | int(lo)
}

func (a *APU) setFrequency(cfg channelConfig, f int) {
	a.bus.SetRawIO(cfg.reg3, uint8(f&0xFF))
	hi := a.bus.RawIO(cfg.reg4)&0xF8 | uint8((f>>8)&0x07)
	a.bus.SetRawIO(cfg.reg4, hi)
}

func (a *APU) periodSquare(i int) int {
	f := a.frequency(channelConfigs[i])
	return (2048 - f) * 4
}

func (a *APU) periodWave() int {
	f := a.frequency(channelConfigs[2])
	return (2048 - f) * 4
}

func (a *APU) setNR52Bit(bitIndex uint8, enabled bool) {
	v := a.bus.RawIO(addr.NR52)
	if enabled {
		v = bit.Set(bitIndex, v)
	} else {
		v = bit.Reset(bitIndex, v)
	}
	a.bus.SetRawIO(addr.NR52, v)
}

func (a *APU) tickChannel1() {
	c := &a.channels[0]
	if !c.enabled {
		return
	}
	c.freqTimer--
	if c.freqTimer <= 0 {
		c.freqTimer = a.periodSquare(0)
		c.dutyPos = (c.dutyPos + 1) % 8
	}
}

func (a *APU) tickChannel2() {
	c := &a.channels[1]
	if !c.enabled {
		return
	}
	c.freqTimer--
	if c.freqTimer <= 0 {
		c.freqTimer = a.periodSquare(1)
		c.dutyPos = (c.dutyPos + 1) % 8
	}
}

func (a *APU) tickChannel3() {
	c := &a.channels[2]
	if !c.enabled {
		return
	}
	c.freqTimer--
	if c.freqTimer <= 0 {
		c.freqTimer = a.periodWave()
		c.waveIndex = (c.waveIndex + 1) % waveSampleCount
	}
}

func (a *APU) tickChannel4() {
	c := &a.channels[3]
	if !c.enabled {
		return
	}
	c.freqTimer--
	if c.freqTimer <= 0 {
		nr43 := a.bus.RawIO(addr.NR43)
		c.freqTimer = noiseDivisors[nr43&0x07] << (nr43 >> 4)

		x := (c.lfsr & 1) ^ ((c.lfsr >> 1) & 1)
		c.lfsr = (c.lfsr >> 1) | (x << 14)
		if bit.IsSet(3, nr43) {
			c.lfsr &^= 1 << 6
			c.lfsr |= x << 6
		}
	}
}

// tickSequencerStep advances the 0-7 frame sequencer step and fires the
// length/sweep/envelope clocks that gate on it.
func (a *APU) tickSequencerStep() {
	a.seqStep = (a.seqStep + 1) % sequencerSteps

	switch a.seqStep {
	case 0, 2, 4, 6:
		a.clockLength()
		if a.seqStep == 2 || a.seqStep == 6 {
			a.clockSweep()
		}
	case 7:
		a.clockEnvelope()
	}
}

func (a *APU) clockLength() {
	for i := range a.channels {
		c := &a.channels[i]
		if !c.enabled || !c.lengthEnabledFor(i, a) {
			continue
		}
		if c.lengthTimer == 0 {
			continue
		}
		c.lengthTimer--
		if c.lengthTimer == 0 {
			c.enabled = false
			a.setNR52Bit(channelConfigs[i].enableBit, false)
		}
	}
}

// lengthEnabledFor reports whether channel i has length counting
// enabled (NRx4 bit 6).
func (c *channel) lengthEnabledFor(i int, a *APU) bool {
	return bit.IsSet(6, a.bus.RawIO(channelConfigs[i].reg4))
}

func (a *APU) clockEnvelope() {
	for _, idx := range []int{0, 1, 3} {
		c := &a.channels[idx]
		if !c.enabled || c.envelopePeriod == 0 {
			continue
		}
		c.envelopeTimer--
		if c.envelopeTimer > 0 {
			continue
		}
		c.envelopeTimer = c.envelopePeriod
		if c.envelopeUp && c.envelopeVolume < maxEnvelopeLevel {
			c.envelopeVolume++
		} else if !c.envelopeUp && c.envelopeVolume > 0 {
			c.envelopeVolume--
		}
	}
}

func (a *APU) clockSweep() {
	c := &a.channels[0]
	if c.sweepTimer > 0 {
		c.sweepTimer--
	}
	if c.sweepTimer != 0 {
		return
	}
	c.sweepTimer = c.sweepPeriod
	if c.sweepTimer == 0 {
		c.sweepTimer = 8
	}
	if !c.sweepEnabled || c.sweepPeriod == 0 {
		return
	}
	a.computeSweep(c, true)
}

// computeSweep runs one sweep frequency calculation. writeBack controls
// whether a successful (non-overflowing) calculation commits the new
// frequency, per spec §4.4's trigger-time vs periodic-tick distinction.
func (a *APU) computeSweep(c *channel, writeBack bool) {
	cfg := channelConfigs[0]
	delta := c.sweepShadow >> uint(c.sweepShift)
	newFreq := c.sweepShadow + delta
	if c.sweepNegate {
		newFreq = c.sweepShadow - delta
	}

	if newFreq > 2047 {
		c.enabled = false
		a.setNR52Bit(cfg.enableBit, false)
		return
	}

	if writeBack && c.sweepShift > 0 {
		c.sweepShadow = newFreq
		a.setFrequency(cfg, newFreq)

		// Second overflow-only check against the freshly written value.
		delta2 := c.sweepShadow >> uint(c.sweepShift)
		check := c.sweepShadow + delta2
		if c.sweepNegate {
			check = c.sweepShadow - delta2
		}
		if check > 2047 {
			c.enabled = false
			a.setNR52Bit(cfg.enableBit, false)
		}
	}
}

// channelLevel returns channel i's current DAC input, an integer in
// [0, 15].
func (a *APU) channelLevel(i int) int {
	c := &a.channels[i]
	if !c.enabled {
		return 0
	}
	switch i {
	case 0, 1:
		dutyReg := a.bus.RawIO(channelConfigs[i].reg1)
		duty := dutyReg >> 6
		if dutyTable[duty][c.dutyPos] == 0 {
			return 0
		}
		return c.envelopeVolume
	case 2:
		if !bit.IsSet(7, a.bus.RawIO(addr.NR30)) {
			return 0
		}
		sample := a.bus.RawIO(addr.WaveRAMStart + uint16(c.waveIndex/2))
		var nibble uint8
		if c.waveIndex%2 == 0 {
			nibble = sample >> 4
		} else {
			nibble = sample & 0x0F
		}
		shift := (a.bus.RawIO(addr.NR32) >> 5) & 0x03
		switch shift {
		case 0:
			return 0
		case 1:
			return int(nibble)
		case 2:
			return int(nibble >> 1)
		default:
			return int(nibble >> 2)
		}
	case 3:
		if c.lfsr&1 == 0 {
			return c.envelopeVolume
		}
		return 0
	default:
		return 0
	}
}

// emitSample mixes the four channels into one float32 sample, per spec
// §4.4: DAC level in [0,15] maps to (v/7.5 - 1.0), summed and averaged.
func (a *APU) emitSample() {
	nr52 := a.bus.RawIO(addr.NR52)
	if !bit.IsSet(7, nr52) {
		a.samples = append(a.samples, 0)
		return
	}

	var sum float32
	for i := 0; i < 4; i++ {
		if !bit.IsSet(channelConfigs[i].enableBit, nr52) {
			continue
		}
		level := a.channelLevel(i)
		sum += float32(level)/7.5 - 1.0
	}
	a.samples = append(a.samples, sum/4)
}
