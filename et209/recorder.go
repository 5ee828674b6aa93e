package et209

import (
	"fmt"
	"strings"
)

// Recorder implements Chip and keeps a history of every register write. If
// Inner is set, writes and generate calls are forwarded to it; otherwise
// generate calls produce silence.
type Recorder struct {
	Inner Chip

	commands []Command

	// Number of samples requested by each generate call, in order.
	generated []int
	headphone int
}

// NewRecorder is the preferred method of initialisation for the Recorder
// type. inner may be nil.
func NewRecorder(inner Chip) *Recorder {
	return &Recorder{
		Inner:    inner,
		commands: make([]Command, 0, 1024),
	}
}

func (r *Recorder) record(t CommandType, channel int, value uint16) {
	r.commands = append(r.commands, Command{
		Frame:   len(r.generated),
		Type:    t,
		Channel: channel,
		Value:   value,
	})
}

func (r *Recorder) WriteVoiceVolume(channel int, value uint8) {
	r.record(SetVoiceVolumeCommand, channel, uint16(value))
	if r.Inner != nil {
		r.Inner.WriteVoiceVolume(channel, value)
	}
}

func (r *Recorder) WriteVoiceRate(channel int, value uint16) {
	r.record(SetVoiceRateCommand, channel, value)
	if r.Inner != nil {
		r.Inner.WriteVoiceRate(channel, value)
	}
}

func (r *Recorder) WriteVoiceWaveform(channel int, value uint8) {
	r.record(SetVoiceWaveformCommand, channel, uint16(value))
	if r.Inner != nil {
		r.Inner.WriteVoiceWaveform(channel, value)
	}
}

func (r *Recorder) WriteNoiseVolume(value uint8) {
	r.record(SetNoiseVolumeCommand, NoiseChannel, uint16(value))
	if r.Inner != nil {
		r.Inner.WriteNoiseVolume(value)
	}
}

func (r *Recorder) WriteNoisePeriod(value uint16) {
	r.record(SetNoisePeriodCommand, NoiseChannel, value)
	if r.Inner != nil {
		r.Inner.WriteNoisePeriod(value)
	}
}

func (r *Recorder) WriteNoiseWaveform(value uint8) {
	r.record(SetNoiseWaveformCommand, NoiseChannel, uint16(value))
	if r.Inner != nil {
		r.Inner.WriteNoiseWaveform(value)
	}
}

func (r *Recorder) GenerateStereo(left, right []float32) {
	r.generated = append(r.generated, len(left))
	if r.Inner != nil {
		r.Inner.GenerateStereo(left, right)
		return
	}
	clear(left)
	clear(right)
}

func (r *Recorder) GenerateHeadphone(left, right []float32) {
	r.generated = append(r.generated, len(left))
	r.headphone++
	if r.Inner != nil {
		r.Inner.GenerateHeadphone(left, right)
		return
	}
	clear(left)
	clear(right)
}

// Commands returns every register write recorded so far.
func (r *Recorder) Commands() []Command {
	return r.commands
}

// FrameCommands returns the register writes made before the generate call
// for frame.
func (r *Recorder) FrameCommands(frame int) []Command {
	var ret []Command
	for _, c := range r.commands {
		if c.Frame == frame {
			ret = append(ret, c)
		}
	}
	return ret
}

// Frames returns the number of generate calls made so far.
func (r *Recorder) Frames() int {
	return len(r.generated)
}

// Generated returns the sample count of each generate call.
func (r *Recorder) Generated() []int {
	return r.generated
}

// HeadphoneFrames returns how many generate calls used the headphone filter.
func (r *Recorder) HeadphoneFrames() int {
	return r.headphone
}

// Pretty-print. Frames without register writes are skipped.
func (r *Recorder) String() string {
	var b strings.Builder
	b.WriteString("ET209 register trace:\n")

	start := 0
	for start < len(r.commands) {
		frame := r.commands[start].Frame
		end := start
		for end < len(r.commands) && r.commands[end].Frame == frame {
			end++
		}
		fmt.Fprintf(&b, "\n  - Frame #%d:\n", frame)
		b.WriteString(formatCommandsByChannel(r.commands[start:end], NumVoices+1, channelHeaders, 4))
		start = end
	}

	fmt.Fprintf(&b, "[%d register writes over %d frames]\n", len(r.commands), len(r.generated))
	return b.String()
}
