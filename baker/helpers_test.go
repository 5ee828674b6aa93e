package baker

import (
	"io"
	"log"

	"github.com/QEStudios/ArsBaker/et209"
	"github.com/QEStudios/ArsBaker/tracker"
)

// levelChip records register writes like et209.Recorder and outputs a
// constant level, which makes fades easy to measure.
type levelChip struct {
	*et209.Recorder
	level float32
}

func newLevelChip(level float32) *levelChip {
	return &levelChip{Recorder: et209.NewRecorder(nil), level: level}
}

func (c *levelChip) fill(left, right []float32) {
	for i := range left {
		left[i] = c.level
		right[i] = c.level
	}
}

func (c *levelChip) GenerateStereo(left, right []float32) {
	c.Recorder.GenerateStereo(left, right)
	c.fill(left, right)
}

func (c *levelChip) GenerateHeadphone(left, right []float32) {
	c.Recorder.GenerateHeadphone(left, right)
	c.fill(left, right)
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// newTestModule returns a module with a single song at speed 1, so that
// every frame plays one row. Instrument 1 uses the default sequences.
func newTestModule(rows int, orders ...tracker.Order) *tracker.Module {
	m := &tracker.Module{
		Songs: []*tracker.Song{
			{Name: "test", Speed: 1, Rows: rows, Orders: orders},
		},
		Instruments: map[int]*tracker.InstrumentDef{
			1: {Name: "plain"},
		},
	}
	for ch := range m.Patterns {
		m.Patterns[ch] = make(map[int]tracker.Pattern)
	}
	return m
}

func newTestState(m *tracker.Module, opts Options, chip et209.Chip) *playbackState {
	p := newPlaybackState(m, m.Songs[0], opts, chip, discardLogger())
	p.switchOrder(opts.StartOrder)
	return p
}

func noteOn(instrument, pitch int) tracker.RowRecord {
	return tracker.RowRecord{Row: tracker.Row{
		Note:          tracker.Note{Kind: tracker.NoteOn, Pitch: pitch},
		Instrument:    instrument,
		HasInstrument: instrument != 0,
	}}
}

func effectRow(effects ...tracker.Effect) tracker.RowRecord {
	return tracker.RowRecord{Row: tracker.Row{Effects: effects}}
}

func order(id int) tracker.Order {
	var o tracker.Order
	for ch := range o {
		o[ch] = id
	}
	return o
}
