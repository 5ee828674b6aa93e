package tracker

import "fmt"

type NoteKind int

const (
	NoNote  NoteKind = iota // Row carries no note command.
	NoteOn                  // Start a note at Pitch.
	NoteOff                 // Release the playing note.
	NoteCut                 // Stop the playing note immediately.
)

// Note is a note command. Pitch is only meaningful for NoteOn and is a MIDI
// style note number (60 = C4).
type Note struct {
	Kind  NoteKind
	Pitch int
}

func (n Note) String() string {
	switch n.Kind {
	case NoteOn:
		return fmt.Sprintf("%d", n.Pitch)
	case NoteOff:
		return "off"
	case NoteCut:
		return "cut"
	default:
		return "..."
	}
}

// Row is one step of a pattern on one channel. Rows are shared between the
// repeated positions of a run-length encoded pattern so they must never be
// modified after loading.
type Row struct {
	Note Note

	Instrument    int
	HasInstrument bool

	Volume    uint8 // 0-15.
	HasVolume bool

	Effects []Effect
}

type EffectType int

const (
	EffectUnknown EffectType = iota // Unrecognised tag, ignored during playback.
	EffectWaveform
	EffectHWSlide
	EffectBranch
	EffectPan
	EffectFastness
	EffectTempo
	EffectSpeed
	EffectHalt
)

var effectNames = map[EffectType]string{
	EffectWaveform: "waveform",
	EffectHWSlide:  "hwslide",
	EffectBranch:   "branch",
	EffectPan:      "pan",
	EffectFastness: "fastness",
	EffectTempo:    "tempo",
	EffectSpeed:    "speed",
	EffectHalt:     "halt",
}

func (t EffectType) String() string {
	if s, ok := effectNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseEffectType maps an effect tag to its type. Unrecognised tags return
// EffectUnknown and false.
func ParseEffectType(tag string) (EffectType, bool) {
	for t, s := range effectNames {
		if s == tag {
			return t, true
		}
	}
	return EffectUnknown, false
}

// Effect is one effect command on a row.
type Effect struct {
	Type  EffectType
	Value int
}

func (e Effect) String() string {
	return fmt.Sprintf("%s(%d)", e.Type, e.Value)
}
