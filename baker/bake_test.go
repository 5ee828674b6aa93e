package baker

import (
	"errors"
	"testing"

	"github.com/QEStudios/ArsBaker/et209"
	"github.com/QEStudios/ArsBaker/tracker"
)

const fadeEpsilon = 1e-5

func TestBakeInvalidSongIndex(t *testing.T) {
	m := newTestModule(4, order(0))
	for _, index := range []int{-1, 1} {
		_, err := Bake(m, index, DefaultOptions(), et209.NewRecorder(nil), discardLogger())
		if !errors.Is(err, ErrInvalidSongIndex) {
			t.Errorf("song %d: expected ErrInvalidSongIndex, got %v", index, err)
		}
	}
}

func TestBakeNoOrders(t *testing.T) {
	m := newTestModule(4)
	_, err := Bake(m, 0, DefaultOptions(), et209.NewRecorder(nil), discardLogger())
	if !errors.Is(err, ErrNoOrders) {
		t.Errorf("expected ErrNoOrders, got %v", err)
	}
}

func TestBakeLoopAndFade(t *testing.T) {
	// Two orders of four one-frame rows, then back to order 0.
	m := newTestModule(4, order(0), order(1))
	m.Patterns[0][0] = tracker.Pattern{noteOn(1, 60)}
	chip := newLevelChip(1)

	res, err := Bake(m, 0, DefaultOptions(), chip, discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	if !res.HasLoop || res.Halted {
		t.Fatalf("expected a loop: %+v", res.HasLoop)
	}
	if res.SampleRate != et209.SampleRate {
		t.Errorf("sample rate %d", res.SampleRate)
	}
	// Order 0 starts at sample 0 and comes back at 8 frames, 6250 samples.
	if res.LoopLeft != 93750 || res.LoopRight != 100000 {
		t.Errorf("loop [%d, %d), wanted [93750, 100000)", res.LoopLeft, res.LoopRight)
	}
	if res.LoopRight <= res.LoopLeft {
		t.Errorf("empty loop")
	}

	fadeEnd := 100000 + 5*et209.SampleRate
	if res.SampleCount != fadeEnd || len(res.Left) != fadeEnd || len(res.Right) != fadeEnd {
		t.Fatalf("sample count %d (%d, %d), wanted %d", res.SampleCount, len(res.Left), len(res.Right), fadeEnd)
	}

	for _, buf := range [][]float32{res.Left, res.Right} {
		if buf[res.LoopRight-1] != 1 || buf[res.LoopRight] != 1 {
			t.Errorf("fade starts too early: %v %v", buf[res.LoopRight-1], buf[res.LoopRight])
		}
		last := buf[fadeEnd-1]
		if last <= 0 || last > fadeEpsilon {
			t.Errorf("fade does not end at silence: %v", last)
		}
		mid := buf[res.LoopRight+(fadeEnd-res.LoopRight)/2]
		if mid < 0.49 || mid > 0.51 {
			t.Errorf("fade is not linear: %v half way", mid)
		}
	}
}

func TestBakeBranchLoop(t *testing.T) {
	// Order 2 branches back to order 1 on its first row.
	m := newTestModule(4, order(0), order(1), order(2))
	m.Patterns[0][2] = tracker.Pattern{
		effectRow(tracker.Effect{Type: tracker.EffectBranch, Value: 1}),
	}

	res, err := Bake(m, 0, DefaultOptions(), et209.NewRecorder(nil), discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	// Order 1 starts at 4 frames (3125 samples); the branch comes at 9
	// frames (7031 samples).
	if res.LoopLeft != 3125+93750 || res.LoopRight != 7031+93750 {
		t.Errorf("loop [%d, %d)", res.LoopLeft, res.LoopRight)
	}
	if res.SampleCount != 7031+93750+234375 {
		t.Errorf("sample count %d", res.SampleCount)
	}
}

func TestBakeStartOrder(t *testing.T) {
	m := newTestModule(4, order(0), order(1), order(2))
	opts := DefaultOptions()
	opts.StartOrder = 1

	res, err := Bake(m, 0, opts, et209.NewRecorder(nil), discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if res.LoopLeft != 93750 || res.LoopRight != 3*3125+93750 {
		t.Errorf("loop [%d, %d)", res.LoopLeft, res.LoopRight)
	}
}

func TestBakeWithoutLoop(t *testing.T) {
	m := newTestModule(4, order(0), order(1))
	opts := DefaultOptions()
	opts.Loop = false

	res, err := Bake(m, 0, opts, newLevelChip(0.5), discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if res.HasLoop {
		t.Errorf("unexpected loop")
	}
	if res.SampleCount != 6250 {
		t.Errorf("expected both orders once, got %d samples", res.SampleCount)
	}
	for i, v := range res.Left {
		if v != 0.5 {
			t.Fatalf("sample %d faded: %v", i, v)
		}
	}
}

func TestBakeHalt(t *testing.T) {
	m := newTestModule(8, order(0), order(1))
	m.Patterns[0][0] = tracker.Pattern{
		noteOn(1, 60),
		{},
		effectRow(tracker.Effect{Type: tracker.EffectHalt}),
	}
	chip := newLevelChip(1)

	res, err := Bake(m, 0, DefaultOptions(), chip, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Halted || res.HasLoop {
		t.Fatalf("halted %v, loop %v", res.Halted, res.HasLoop)
	}

	// Three frames of audio then the silent frame the halt took effect in.
	if res.SampleCount != 3125 {
		t.Errorf("sample count %d", res.SampleCount)
	}
	if res.Left[2342] != 1 {
		t.Errorf("audio before the halt is missing")
	}
	for i := 2343; i < res.SampleCount; i++ {
		if res.Left[i] != 0 || res.Right[i] != 0 {
			t.Fatalf("sample %d after the halt is not silent", i)
		}
	}
	if chip.Frames() != 3 {
		t.Errorf("chip rendered %d frames", chip.Frames())
	}
}

func TestBakeHeadphones(t *testing.T) {
	m := newTestModule(4, order(0))
	opts := DefaultOptions()
	opts.Headphones = true
	chip := et209.NewRecorder(nil)

	if _, err := Bake(m, 0, opts, chip, discardLogger()); err != nil {
		t.Fatal(err)
	}
	if chip.Frames() == 0 || chip.HeadphoneFrames() != chip.Frames() {
		t.Errorf("headphone frames %d of %d", chip.HeadphoneFrames(), chip.Frames())
	}
}

func TestBakeFrameBudget(t *testing.T) {
	m := newTestModule(4, order(0))
	opts := DefaultOptions()
	opts.MaxFrames = 100

	_, err := Bake(m, 0, opts, et209.NewRecorder(nil), discardLogger())
	if !errors.Is(err, ErrFrameBudget) {
		t.Errorf("expected ErrFrameBudget, got %v", err)
	}
}

func TestBakeInvalidEffect(t *testing.T) {
	m := newTestModule(4, order(0))
	m.Patterns[tracker.NoiseChannel][0] = tracker.Pattern{
		{},
		effectRow(tracker.Effect{Type: tracker.EffectHWSlide, Value: 1}),
	}
	_, err := Bake(m, 0, DefaultOptions(), et209.NewRecorder(nil), discardLogger())
	if !errors.Is(err, ErrInvalidEffect) {
		t.Errorf("expected ErrInvalidEffect, got %v", err)
	}
}

func TestBakeEmptySequence(t *testing.T) {
	m := newTestModule(4, order(0))
	m.Instruments[2] = &tracker.InstrumentDef{Volume: strp("/")}
	m.Patterns[3][0] = tracker.Pattern{noteOn(2, 60)}

	_, err := Bake(m, 0, DefaultOptions(), et209.NewRecorder(nil), discardLogger())
	if !errors.Is(err, ErrEmptySequence) {
		t.Errorf("expected ErrEmptySequence, got %v", err)
	}
}

func TestBakeIsRepeatable(t *testing.T) {
	m := newTestModule(4, order(0), order(1))
	m.Instruments[2] = &tracker.InstrumentDef{
		Volume:   strp("15 14 | 12 10 / 6 0"),
		Arpeggio: strp("| 0 4 7"),
		Pitch:    strp("0 | 3"),
		Waveform: strp("1"),
	}
	m.Patterns[0][0] = tracker.Pattern{noteOn(2, 57), {Repeat: 2}, {Row: tracker.Row{Note: tracker.Note{Kind: tracker.NoteOff}}}}
	m.Patterns[tracker.NoiseChannel][1] = tracker.Pattern{noteOn(1, 5)}

	opts := DefaultOptions()
	opts.LoopOverlapTime = 0.1
	opts.LoopFadeTime = 0.1

	a, err := Bake(m, 0, opts, nil, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Bake(m, 0, opts, nil, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if a.SampleCount != b.SampleCount {
		t.Fatalf("sample counts differ: %d and %d", a.SampleCount, b.SampleCount)
	}
	var audible bool
	for i := range a.Left {
		if a.Left[i] != b.Left[i] || a.Right[i] != b.Right[i] {
			t.Fatalf("bakes differ at sample %d", i)
		}
		audible = audible || a.Left[i] != 0
	}
	if !audible {
		t.Errorf("bake is silent")
	}
}
