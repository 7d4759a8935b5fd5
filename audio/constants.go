// Package audio implements the APU: four channel generators, the 512 Hz
// frame sequencer, and the sampling/mixing stage that downsamples to a
// PCM stream.
package audio

// dutyTable holds the eight-step waveform for each of the four square
// wave duty cycles (12.5%, 25%, 50%, 75%).
var dutyTable = [4][8]uint8{
	{0, 0, 0, 0, 0, 0, 0, 1},
	{1, 0, 0, 0, 0, 0, 0, 1},
	{1, 0, 0, 0, 0, 1, 1, 1},
	{0, 1, 1, 1, 1, 1, 1, 0},
}

// noiseDivisors maps NR43's low 3 bits to the noise channel's base
// period divisor.
var noiseDivisors = [8]int{8, 16, 32, 48, 64, 80, 96, 112}

const (
	waveRAMSize      = 16
	waveSampleCount  = 32
	samplingPeriod   = 87 // T-cycles between emitted PCM samples
	sequencerPeriod  = 8192
	sequencerSteps   = 8
	maxEnvelopeLevel = 15
)
