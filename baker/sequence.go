package baker

import (
	"fmt"
	"strconv"
	"strings"
)

// Sequence is one envelope of an instrument: volume, arpeggio, pitch or
// waveform. Values between LoopLeft and LoopRight (exclusive) repeat for as
// long as the note is held.
type Sequence struct {
	Values    []int
	LoopLeft  int
	LoopRight int
}

// ParseSequence parses sequence text such as "| 15 12 / 8 0". A "|" marks the
// start of the loop and a "/" its end; everything else is a signed integer.
// If text is nil, def is parsed instead.
//
// Without a "|" the loop starts at the last value. Without a "/" the loop
// runs to the end of the values.
func ParseSequence(text *string, def string) (*Sequence, error) {
	source := def
	if text != nil {
		source = *text
	}

	seq := &Sequence{LoopLeft: -1, LoopRight: -1}
	for _, token := range strings.Fields(source) {
		switch token {
		case "|":
			seq.LoopLeft = len(seq.Values)
		case "/":
			seq.LoopRight = len(seq.Values)
		default:
			v, err := strconv.Atoi(token)
			if err != nil {
				return nil, fmt.Errorf("%w %q in %q", ErrInvalidSequence, token, source)
			}
			seq.Values = append(seq.Values, v)
		}
	}

	if len(seq.Values) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptySequence, source)
	}
	if seq.LoopLeft < 0 {
		seq.LoopLeft = len(seq.Values) - 1
	}
	if seq.LoopRight < 0 {
		seq.LoopRight = len(seq.Values)
	}
	return seq, nil
}

// Begin returns a new SequenceState positioned at the first value.
func (s *Sequence) Begin() *SequenceState {
	return &SequenceState{seq: s, sustain: true}
}

// SequenceState is a Sequence in playback. It belongs to a single
// InstrumentState.
type SequenceState struct {
	seq     *Sequence
	cursor  int
	sustain bool
}

// Next returns the current value and advances. It must be called exactly
// once per frame the value is used in.
func (st *SequenceState) Next() int {
	ret := st.seq.Values[st.cursor]
	st.cursor++
	if st.sustain && st.cursor >= st.seq.LoopRight {
		st.cursor = st.seq.LoopLeft
	}
	if last := len(st.seq.Values) - 1; st.cursor > last {
		st.cursor = last
	}
	return ret
}

// Release stops the sequence looping. It plays on to its last value and
// holds it.
func (st *SequenceState) Release() {
	st.sustain = false
}
