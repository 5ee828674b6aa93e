package baker

import (
	"fmt"
	"log"
	"math"

	"github.com/QEStudios/ArsBaker/et209"
	"github.com/QEStudios/ArsBaker/tracker"
)

// Not rounded. The fraction spills over into the next frame.
const samplesPerFrame = float64(et209.SampleRate) / 60

// Frames per tick are 150/tempo.
const tempoBase = 150

const defaultChannelVolume = 15

type channel struct {
	// Voice channels only.
	slide uint16 // Hardware slide, already shifted into the top two rate bits.
	pan   uint8

	volume uint8 // 0-15.

	instrument *Instrument
	state      *InstrumentState
}

// playbackState is a fresh instance of the playback engine for one song. It
// is owned by a single bake and is never shared.
type playbackState struct {
	chip   et209.Chip
	module *tracker.Module
	song   *tracker.Song
	opts   Options
	logger *log.Logger

	// Parsed lazily the first time an instrument is used.
	instruments map[int]*Instrument

	speed int
	tempo int

	framesUntilNextTick float64
	ticksUntilNextRow   int

	orderIndex   int
	order        tracker.Order
	nextRowIndex int
	patterns     [tracker.NumChannels][]*tracker.Row

	// Incremented on every order switch, so the stitcher can tell when an
	// order has ended.
	orderCookie int

	halting bool
	halted  bool

	channels [tracker.NumChannels]channel

	spilloverSamples float64
	outLeft          [][]float32
	outRight         [][]float32
	sampleCount      int
	frameCount       int
}

func newPlaybackState(module *tracker.Module, song *tracker.Song, opts Options, chip et209.Chip, logger *log.Logger) *playbackState {
	p := &playbackState{
		chip:                chip,
		module:              module,
		song:                song,
		opts:                opts,
		logger:              logger,
		instruments:         make(map[int]*Instrument),
		speed:               song.InitialSpeed(),
		tempo:               song.InitialTempo(),
		framesUntilNextTick: 1,
		ticksUntilNextRow:   1,
	}
	for n := range p.channels {
		p.channels[n].volume = defaultChannelVolume
	}
	return p
}

// switchOrder moves playback to the start of an order. Indices wrap around
// the order list.
func (p *playbackState) switchOrder(index int) {
	p.orderCookie++
	n := len(p.song.Orders)
	p.orderIndex = ((index % n) + n) % n
	p.order = p.song.Orders[p.orderIndex]
	p.nextRowIndex = 0
	for ch := range p.patterns {
		pattern, _ := p.module.Pattern(ch, p.order[ch])
		p.patterns[ch] = decompress(pattern)
	}
}

// instrument returns the parsed instrument for id, parsing and caching it on
// first use. ok is false if the module has no such instrument.
func (p *playbackState) instrument(id int) (ins *Instrument, ok bool, err error) {
	if ins, ok := p.instruments[id]; ok {
		return ins, true, nil
	}
	def := p.module.Instrument(id)
	if def == nil {
		return nil, false, nil
	}
	ins, err = NewInstrument(def)
	if err != nil {
		return nil, false, fmt.Errorf("instrument %d: %w", id, err)
	}
	p.instruments[id] = ins
	return ins, true, nil
}

// handleFx applies one effect command to a channel.
func (p *playbackState) handleFx(ch *channel, channelIndex int, fx tracker.Effect) error {
	switch fx.Type {
	case tracker.EffectWaveform:
		if channelIndex == tracker.NoiseChannel {
			p.chip.WriteNoiseWaveform(uint8(fx.Value))
		} else {
			p.chip.WriteVoiceWaveform(channelIndex, uint8(fx.Value))
		}

	case tracker.EffectHWSlide:
		if channelIndex == tracker.NoiseChannel {
			return fmt.Errorf("%w: hwslide on the noise channel", ErrInvalidEffect)
		}
		ch.slide = uint16(fx.Value&3) << 14

	case tracker.EffectBranch:
		p.switchOrder(fx.Value)

	case tracker.EffectPan:
		if channelIndex == tracker.NoiseChannel {
			return fmt.Errorf("%w: pan on the noise channel", ErrInvalidEffect)
		}
		ch.pan = 0
		if fx.Value&0x0F != 0 {
			ch.pan |= et209.WaveformPanRight
		}
		if fx.Value&0xF0 != 0 {
			ch.pan |= et209.WaveformPanLeft
		}

	case tracker.EffectFastness:
		// Tempo or speed depending on the value, a leftover from ProTracker.
		if fx.Value >= 64 {
			p.tempo = fx.Value
		} else {
			p.speed = fx.Value
		}

	case tracker.EffectTempo:
		// Would stop the tick counter for good.
		if fx.Value <= 0 {
			return fmt.Errorf("%w: tempo %d", ErrInvalidEffect, fx.Value)
		}
		p.tempo = fx.Value

	case tracker.EffectSpeed:
		p.speed = fx.Value

	case tracker.EffectHalt:
		// The song halts the next time processOneRow is called.
		p.halting = true
	}
	return nil
}

func (p *playbackState) processOneRow() error {
	if p.halting {
		// Playing notes are left as they are.
		if !p.halted {
			p.logger.Printf("Song halted in order %d after %d samples", p.orderIndex, p.sampleCount)
		}
		p.halted = true
		return nil
	}

	// Set aside so that the whole row is processed against the same patterns
	// even if a branch effect switches order part way through.
	patterns := p.patterns
	rowIndex := p.nextRowIndex
	p.nextRowIndex++

	for channelIndex := range p.channels {
		ch := &p.channels[channelIndex]
		row := rowAt(patterns[channelIndex], rowIndex)
		if row == nil {
			continue
		}

		if row.HasInstrument {
			ins, ok, err := p.instrument(row.Instrument)
			if err != nil {
				return err
			}
			if ok {
				ch.instrument = ins
			}
		}

		for _, fx := range row.Effects {
			if err := p.handleFx(ch, channelIndex, fx); err != nil {
				return fmt.Errorf("order %d, row %d, channel %d: %w", p.orderIndex, rowIndex, channelIndex, err)
			}
		}

		if row.HasVolume {
			ch.volume = row.Volume
		}

		switch row.Note.Kind {
		case tracker.NoteOff:
			if ch.state != nil {
				ch.state.Release()
			}
		case tracker.NoteCut:
			ch.state = nil
			if channelIndex == tracker.NoiseChannel {
				p.chip.WriteNoiseVolume(0)
			} else {
				p.chip.WriteVoiceVolume(channelIndex, 0)
			}
		case tracker.NoteOn:
			// Note ons without an instrument are ignored.
			if ch.instrument != nil {
				ch.state = ch.instrument.Begin(row.Note.Pitch)
			}
		}
	}

	if p.nextRowIndex >= p.song.Rows {
		p.switchOrder(p.orderIndex + 1)
	}
	return nil
}

func (p *playbackState) processOneTick() error {
	p.ticksUntilNextRow--
	if p.ticksUntilNextRow <= 0 {
		if err := p.processOneRow(); err != nil {
			return err
		}
		p.ticksUntilNextRow = p.speed
	}
	return nil
}

// nextSampleCount returns the number of samples in the next frame, carrying
// the fractional part over.
func (p *playbackState) nextSampleCount() int {
	samples := p.spilloverSamples + samplesPerFrame
	count := math.Floor(samples)
	p.spilloverSamples = samples - count
	return int(count)
}

// renderFrame advances playback by one frame and renders its samples. Once
// the song has halted frames are silent and the chip is not touched.
func (p *playbackState) renderFrame() error {
	if p.opts.MaxFrames > 0 && p.frameCount >= p.opts.MaxFrames {
		return fmt.Errorf("%w after %d frames", ErrFrameBudget, p.frameCount)
	}
	p.frameCount++

	p.framesUntilNextTick--
	if p.framesUntilNextTick <= 0 {
		if err := p.processOneTick(); err != nil {
			return err
		}
		// Added rather than reset, so fractional frames per tick accumulate.
		p.framesUntilNextTick += tempoBase / float64(p.tempo)
	}

	count := p.nextSampleCount()
	left := make([]float32, count)
	right := make([]float32, count)

	if !p.halted {
		for n := range p.channels {
			ch := &p.channels[n]
			if ch.state == nil {
				continue
			}
			if n == tracker.NoiseChannel {
				ch.state.FrobNoise(p.chip, ch.volume)
			} else {
				ch.state.FrobVoice(p.chip, n, ch.volume, ch.slide, ch.pan)
			}
		}

		if p.opts.Headphones {
			p.chip.GenerateHeadphone(left, right)
		} else {
			p.chip.GenerateStereo(left, right)
		}
	}

	p.sampleCount += count
	p.outLeft = append(p.outLeft, left)
	p.outRight = append(p.outRight, right)
	return nil
}

// renderOrder renders frames until playback moves to another order, or the
// song halts.
func (p *playbackState) renderOrder() error {
	cookie := p.orderCookie
	for {
		if err := p.renderFrame(); err != nil {
			return err
		}
		if p.orderCookie != cookie || p.halted {
			return nil
		}
	}
}
