package tracker

import "testing"

func TestParseEffectType(t *testing.T) {
	for typ, name := range effectNames {
		got, ok := ParseEffectType(name)
		if !ok || got != typ {
			t.Errorf("ParseEffectType(%q) = %v, %v", name, got, ok)
		}
		if typ.String() != name {
			t.Errorf("%d.String() = %q", typ, typ.String())
		}
	}

	if got, ok := ParseEffectType("vibrato"); ok || got != EffectUnknown {
		t.Errorf("unknown tag parsed as %v", got)
	}
	if EffectUnknown.String() != "unknown" {
		t.Errorf("EffectUnknown.String() = %q", EffectUnknown.String())
	}
}

func TestRowRecordCount(t *testing.T) {
	for _, tt := range []struct{ repeat, want int }{{-1, 1}, {0, 1}, {1, 1}, {4, 4}} {
		if got := (RowRecord{Repeat: tt.repeat}).Count(); got != tt.want {
			t.Errorf("repeat %d: count %d, want %d", tt.repeat, got, tt.want)
		}
	}
}

func TestSongDefaults(t *testing.T) {
	s := &Song{Rows: 64}
	if s.InitialSpeed() != DefaultSpeed || s.InitialTempo() != DefaultTempo {
		t.Errorf("defaults: speed %d, tempo %d", s.InitialSpeed(), s.InitialTempo())
	}
	s.Speed, s.Tempo = 3, 125
	if s.InitialSpeed() != 3 || s.InitialTempo() != 125 {
		t.Errorf("explicit: speed %d, tempo %d", s.InitialSpeed(), s.InitialTempo())
	}
}

func TestModuleLookups(t *testing.T) {
	var m Module
	if _, ok := m.Pattern(0, 0); ok {
		t.Errorf("empty module has a pattern")
	}
	if m.Instrument(0) != nil {
		t.Errorf("empty module has an instrument")
	}

	m.Patterns[2] = map[int]Pattern{5: {{Repeat: 3}}}
	m.Instruments = map[int]*InstrumentDef{1: {Name: "lead"}}
	if p, ok := m.Pattern(2, 5); !ok || len(p) != 1 {
		t.Errorf("pattern 5 on channel 2: %v, %v", p, ok)
	}
	for _, ch := range []int{-1, NumChannels} {
		if _, ok := m.Pattern(ch, 5); ok {
			t.Errorf("channel %d has a pattern", ch)
		}
	}
	if ins := m.Instrument(1); ins == nil || ins.Name != "lead" {
		t.Errorf("instrument 1: %v", ins)
	}
}

func TestNoteString(t *testing.T) {
	tests := map[Note]string{
		{}:                        "...",
		{Kind: NoteOn, Pitch: 60}: "60",
		{Kind: NoteOff}:           "off",
		{Kind: NoteCut}:           "cut",
	}
	for n, want := range tests {
		if n.String() != want {
			t.Errorf("%#v.String() = %q, want %q", n, n.String(), want)
		}
	}
}
