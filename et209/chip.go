// Package et209 describes the ET209 sound chip as seen by the baker: its
// constants, the register interface the playback engine drives every frame,
// and two implementations of that interface (an approximate synthesiser and a
// register-write recorder).
package et209

// SampleRate is the output rate of the chip in samples per second. At 60
// frames per second this is 781.25 samples per frame.
const SampleRate = 46875

const NumVoices = 7

// NoiseChannel is the channel index the playback engine uses for the noise
// generator.
const NoiseChannel = NumVoices

const (
	// VolumeResetFlag in a volume write restarts the voice's phase.
	VolumeResetFlag = 1 << 7

	// Pan bits in a voice waveform write. With neither set the voice plays on
	// both sides.
	WaveformPanLeft  = 1 << 7
	WaveformPanRight = 1 << 6
)

const maxVoiceRate = (1 << 14) - 1 // Rate bits, the top two are hardware slide.
const maxVolume = (1 << 7) - 1

// Chip is the register-level interface of one ET209. Calls for a session must
// be strictly sequential: register writes for all active channels, then one
// generate call per frame. A Chip must never be shared between two bakes.
type Chip interface {
	WriteVoiceVolume(channel int, value uint8)
	WriteVoiceRate(channel int, value uint16)
	WriteVoiceWaveform(channel int, value uint8)
	WriteNoiseVolume(value uint8)
	WriteNoisePeriod(value uint16)
	WriteNoiseWaveform(value uint8)

	// GenerateStereo fills left and right, which have equal length.
	GenerateStereo(left, right []float32)

	// GenerateHeadphone is like GenerateStereo with the headphone filter
	// applied.
	GenerateHeadphone(left, right []float32)
}
