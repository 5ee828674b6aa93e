package et209

// Synth is an approximate software model of the ET209, good enough to
// preview a bake. It is not sample-exact: hardware slide is ignored and the
// waveform set is reduced to four shapes.
type Synth struct {
	voices [NumVoices]voice

	noiseVolume   uint8
	noisePeriod   uint16
	noiseWaveform uint8
	noiseCounter  uint16
	lfsr          uint16
}

type voice struct {
	volume   uint8
	rate     uint16
	waveform uint8
	phase    uint16
}

const (
	waveSquare = iota
	wavePulse25
	wavePulse12
	waveSaw
)

// Full scale output of a single channel.
const channelGain = 1.0 / (NumVoices + 1)

// NewSynth is the preferred method of initialisation for the Synth type.
func NewSynth() *Synth {
	return &Synth{lfsr: 1}
}

func (s *Synth) WriteVoiceVolume(channel int, value uint8) {
	if channel < 0 || channel >= NumVoices {
		return
	}
	v := &s.voices[channel]
	if value&VolumeResetFlag != 0 {
		v.phase = 0
	}
	v.volume = value & maxVolume
}

func (s *Synth) WriteVoiceRate(channel int, value uint16) {
	if channel < 0 || channel >= NumVoices {
		return
	}
	s.voices[channel].rate = value
}

func (s *Synth) WriteVoiceWaveform(channel int, value uint8) {
	if channel < 0 || channel >= NumVoices {
		return
	}
	s.voices[channel].waveform = value
}

func (s *Synth) WriteNoiseVolume(value uint8) {
	if value&VolumeResetFlag != 0 {
		s.lfsr = 1
		s.noiseCounter = 0
	}
	s.noiseVolume = value & maxVolume
}

func (s *Synth) WriteNoisePeriod(value uint16) {
	s.noisePeriod = value
}

func (s *Synth) WriteNoiseWaveform(value uint8) {
	s.noiseWaveform = value
}

func (v *voice) sample() float32 {
	var out float32
	switch v.waveform & 3 {
	case waveSquare:
		out = pulse(v.phase < 0x8000)
	case wavePulse25:
		out = pulse(v.phase < 0x4000)
	case wavePulse12:
		out = pulse(v.phase < 0x2000)
	case waveSaw:
		out = float32(v.phase)/0x8000 - 1
	}
	v.phase += v.rate & maxVoiceRate
	return out * float32(v.volume) / 64
}

func pulse(high bool) float32 {
	if high {
		return 1
	}
	return -1
}

func (s *Synth) noiseSample() float32 {
	out := pulse(s.lfsr&1 != 0) * float32(s.noiseVolume) / 64
	s.noiseCounter++
	if s.noiseCounter > s.noisePeriod {
		s.noiseCounter = 0
		bit := (s.lfsr ^ s.lfsr>>1) & 1
		s.lfsr = s.lfsr>>1 | bit<<14
		if s.noiseWaveform&1 != 0 {
			s.lfsr = s.lfsr&^(1<<6) | bit<<6
		}
	}
	return out
}

func (s *Synth) GenerateStereo(left, right []float32) {
	for i := range left {
		var l, r float32
		for n := range s.voices {
			v := &s.voices[n]
			out := v.sample()
			switch v.waveform & (WaveformPanLeft | WaveformPanRight) {
			case WaveformPanLeft:
				l += out
			case WaveformPanRight:
				r += out
			default:
				l += out
				r += out
			}
		}
		noise := s.noiseSample()
		left[i] = (l + noise) * channelGain
		right[i] = (r + noise) * channelGain
	}
}

// GenerateHeadphone crossfeeds a quarter of each side into the other, which
// takes the edge off hard-panned voices.
func (s *Synth) GenerateHeadphone(left, right []float32) {
	s.GenerateStereo(left, right)
	for i := range left {
		l, r := left[i], right[i]
		left[i] = l*0.75 + r*0.25
		right[i] = r*0.75 + l*0.25
	}
}
