// Package baker renders a song of an ars-tracker module into stereo PCM, the
// way the ET209 playback driver would play it.
//
// Bake drives a fresh playback engine order by order until the song loops
// back on itself or halts. For looping songs it keeps rendering past the loop
// point so that the result can either be looped seamlessly between LoopLeft
// and LoopRight, or played once and faded out.
package baker

import (
	"fmt"
	"log"
	"math"

	"github.com/QEStudios/ArsBaker/et209"
	"github.com/QEStudios/ArsBaker/tracker"
)

// Options control a bake. Start from DefaultOptions; the zero value does not
// loop.
type Options struct {
	// Whether to try to loop the song.
	Loop bool `yaml:"loop"`

	// If looping, seconds of extra audio rendered past the natural loop so
	// that the loop is clean.
	LoopOverlapTime float64 `yaml:"loopOverlapTime"`

	// If looping, seconds of fade out added after the loop, for consumers
	// that play the result once.
	LoopFadeTime float64 `yaml:"loopFadeTime"`

	// The order index to start at.
	StartOrder int `yaml:"startOrder"`

	// Whether to enable the headphone filter.
	Headphones bool `yaml:"headphones"`

	// Abort with ErrFrameBudget after this many frames. Zero means no limit.
	MaxFrames int `yaml:"maxFrames"`
}

// DefaultOptions returns the options used when a caller sets none.
func DefaultOptions() Options {
	return Options{
		Loop:            true,
		LoopOverlapTime: 2,
		LoopFadeTime:    5,
		StartOrder:      0,
		Headphones:      false,
	}
}

// Result is a baked song.
type Result struct {
	SampleRate  int
	SampleCount int
	Left        []float32
	Right       []float32

	// Only valid if HasLoop. Playing [LoopLeft, LoopRight) repeatedly after
	// the samples before LoopLeft gives a seamless loop.
	HasLoop   bool
	LoopLeft  int
	LoopRight int

	// The song ended with a halt effect.
	Halted bool
}

// roundHalfUp rounds to the nearest integer, halves going up.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Bake renders song songIndex of module through chip. The chip must be fresh
// and is used by this bake only. A nil chip uses an et209.Synth and a nil
// logger uses log.Default().
func Bake(module *tracker.Module, songIndex int, opts Options, chip et209.Chip, logger *log.Logger) (*Result, error) {
	if songIndex < 0 || songIndex >= len(module.Songs) {
		return nil, fmt.Errorf("%w: %d (module has %d songs)", ErrInvalidSongIndex, songIndex, len(module.Songs))
	}
	song := module.Songs[songIndex]
	if len(song.Orders) == 0 {
		return nil, fmt.Errorf("song %d: %w", songIndex, ErrNoOrders)
	}
	if chip == nil {
		chip = et209.NewSynth()
	}
	if logger == nil {
		logger = log.Default()
	}

	logger.Printf("Baking song %d: %v", songIndex, song)

	p := newPlaybackState(module, song, opts, chip, logger)
	p.switchOrder(opts.StartOrder)

	// Render whole orders until one comes round a second time.
	orderStartSamples := make(map[int]int)
	for !p.halted {
		if _, seen := orderStartSamples[p.orderIndex]; seen {
			break
		}
		orderStartSamples[p.orderIndex] = p.sampleCount
		if err := p.renderOrder(); err != nil {
			return nil, fmt.Errorf("song %d: %w", songIndex, err)
		}
	}

	ret := &Result{
		SampleRate: et209.SampleRate,
	}

	fadeStart, fadeEnd := -1, -1
	if opts.Loop && !p.halted {
		overlap := opts.LoopOverlapTime * et209.SampleRate
		ret.HasLoop = true
		ret.LoopLeft = roundHalfUp(float64(orderStartSamples[p.orderIndex]) + overlap)
		ret.LoopRight = roundHalfUp(float64(p.sampleCount) + overlap)
		logger.Printf("Loop found at order %d, looping samples %d-%d", p.orderIndex, ret.LoopLeft, ret.LoopRight)

		fadeStart = ret.LoopRight
		fadeEnd = roundHalfUp(float64(fadeStart) + opts.LoopFadeTime*et209.SampleRate)
		for p.sampleCount < fadeEnd && !p.halted {
			if err := p.renderFrame(); err != nil {
				return nil, fmt.Errorf("song %d: %w", songIndex, err)
			}
		}
	}

	ret.Halted = p.halted
	ret.Left = cookSamples(p.outLeft, p.sampleCount, fadeStart, fadeEnd)
	ret.Right = cookSamples(p.outRight, p.sampleCount, fadeStart, fadeEnd)
	ret.SampleCount = len(ret.Left)
	return ret, nil
}

// cookSamples joins the per-frame buffers, truncating at fadeEnd and fading
// linearly to silence over [fadeStart, fadeEnd). Negative bounds mean no
// fade.
func cookSamples(frames [][]float32, sampleCount, fadeStart, fadeEnd int) []float32 {
	fade := fadeStart >= 0 && fadeEnd >= 0

	length := sampleCount
	if fade && fadeEnd < sampleCount {
		length = fadeEnd
	}

	ret := make([]float32, 0, length)
	for _, frame := range frames {
		if len(ret)+len(frame) > length {
			ret = append(ret, frame[:length-len(ret)]...)
			break
		}
		ret = append(ret, frame...)
	}

	if fade {
		span := float64(fadeEnd - fadeStart)
		for o := fadeStart; o < fadeEnd && o < len(ret); o++ {
			ret[o] = float32(float64(ret[o]) * (1 - float64(o-fadeStart)/span))
		}
	}
	return ret
}
