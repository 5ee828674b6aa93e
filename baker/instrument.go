package baker

import (
	"fmt"
	"math"

	"github.com/QEStudios/ArsBaker/et209"
	"github.com/QEStudios/ArsBaker/tracker"
)

// Fallback sequence texts for instruments that omit a sequence.
const (
	defaultVolumeSequence   = "| 15 / 0"
	defaultArpeggioSequence = "0"
	defaultPitchSequence    = "0"
	defaultWaveformSequence = "0"
)

const (
	baseFreq = 440
	baseNote = 57

	// A voice rate at or above this has been bent out of range.
	rateOverflow = 1 << 14
	maxRate      = rateOverflow - 1
	bendSignBit  = 1 << 15
)

// NoteToFreq converts a note number (60 = C4) to an ET209 voice rate.
func NoteToFreq(note int) int {
	return int(math.Floor(baseFreq*math.Pow(2, float64(note-baseNote)/12)*65536/et209.SampleRate+0.5)) - 1
}

// Instrument is a parsed ars-tracker instrument.
type Instrument struct {
	Name     string
	Volume   *Sequence
	Arpeggio *Sequence
	Pitch    *Sequence
	Waveform *Sequence
}

// NewInstrument parses the four sequences of an instrument definition.
func NewInstrument(def *tracker.InstrumentDef) (*Instrument, error) {
	ins := &Instrument{Name: def.Name}

	var err error
	if ins.Volume, err = ParseSequence(def.Volume, defaultVolumeSequence); err != nil {
		return nil, fmt.Errorf("volume: %w", err)
	}
	if ins.Arpeggio, err = ParseSequence(def.Arpeggio, defaultArpeggioSequence); err != nil {
		return nil, fmt.Errorf("arpeggio: %w", err)
	}
	if ins.Pitch, err = ParseSequence(def.Pitch, defaultPitchSequence); err != nil {
		return nil, fmt.Errorf("pitch: %w", err)
	}
	if ins.Waveform, err = ParseSequence(def.Waveform, defaultWaveformSequence); err != nil {
		return nil, fmt.Errorf("waveform: %w", err)
	}
	return ins, nil
}

// Begin returns a new InstrumentState playing note. Used for every note on.
func (ins *Instrument) Begin(note int) *InstrumentState {
	return &InstrumentState{
		ins:       ins,
		note:      note,
		volume:    ins.Volume.Begin(),
		arpeggio:  ins.Arpeggio.Begin(),
		pitch:     ins.Pitch.Begin(),
		waveform:  ins.Waveform.Begin(),
		bentPitch: 0,
		fresh:     true,
	}
}

// InstrumentState is an Instrument playing one note on one channel.
type InstrumentState struct {
	ins  *Instrument
	note int

	volume   *SequenceState
	arpeggio *SequenceState
	pitch    *SequenceState
	waveform *SequenceState

	// Accumulated pitch bend. Wraps at 16 bits like the playback driver.
	bentPitch uint16

	// True until the first frame has been played.
	fresh bool
}

// bendRate adds the bend to a base rate with 16-bit wraparound. A result out
// of range is clamped to whichever end the sign bit of the bend points at,
// which is what the driver does. A bend far enough in one direction
// therefore flips to the other extreme.
func bendRate(base int, bentPitch uint16) uint16 {
	freq := uint16(base) + bentPitch
	if freq >= rateOverflow {
		if bentPitch&bendSignBit != 0 {
			return 0
		}
		return maxRate
	}
	return freq
}

// nextVolume scales the volume sequence by the channel volume and sets the
// reset flag on the first frame of a note, unless the sequence asks to
// invert that.
func (st *InstrumentState) nextVolume(channelVolume uint8) uint8 {
	masked := uint8(st.volume.Next() & 15)
	overrideReset := masked&et209.VolumeResetFlag != 0
	out := (channelVolume * masked) >> 2
	if st.fresh != overrideReset {
		out |= et209.VolumeResetFlag
	}
	return out
}

// FrobVoice plays one frame of the instrument on a voice channel.
func (st *InstrumentState) FrobVoice(chip et209.Chip, channel int, volume uint8, hwslide uint16, pan uint8) {
	note := st.note + st.arpeggio.Next()
	st.bentPitch += uint16(st.pitch.Next())
	freq := bendRate(NoteToFreq(note), st.bentPitch)

	chip.WriteVoiceVolume(channel, st.nextVolume(volume))
	chip.WriteVoiceRate(channel, freq|hwslide)
	if st.fresh {
		chip.WriteVoiceWaveform(channel, uint8(st.waveform.Next())|pan)
	}
	st.fresh = false
}

// FrobNoise plays one frame of the instrument on the noise channel. The note
// is the noise period; arpeggio and pitch are not used.
func (st *InstrumentState) FrobNoise(chip et209.Chip, volume uint8) {
	chip.WriteNoiseVolume(st.nextVolume(volume))
	chip.WriteNoisePeriod(uint16(st.note))
	if st.fresh {
		chip.WriteNoiseWaveform(uint8(st.waveform.Next()))
	}
	st.fresh = false
}

// Release releases the "piano key": all four sequences stop looping.
func (st *InstrumentState) Release() {
	st.volume.Release()
	st.arpeggio.Release()
	st.pitch.Release()
	st.waveform.Release()
}
