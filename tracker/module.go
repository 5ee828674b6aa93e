// Package tracker holds the data model of an ars-tracker module, as produced
// by a loader and consumed by the baker. Everything here is plain data; once
// a Module has been loaded it is treated as immutable.
package tracker

import "fmt"

// NumChannels is the number of channels in every order: seven voices and one
// noise channel.
const NumChannels = 8

// NoiseChannel is the index of the noise channel.
const NoiseChannel = NumChannels - 1

// Defaults used when a song leaves speed or tempo unset.
const (
	DefaultSpeed = 6
	DefaultTempo = 150
)

// Module is a full song collection with shared instrument and pattern data.
type Module struct {
	Name string

	Songs []*Song

	// Sparse, addressed by instrument id.
	Instruments map[int]*InstrumentDef

	// One collection per channel, addressed by pattern id. A missing pattern
	// is played as an empty one.
	Patterns [NumChannels]map[int]Pattern
}

// Song is one composition inside a module.
type Song struct {
	Name  string
	Speed int // Ticks per row. Zero means DefaultSpeed.
	Tempo int // Zero means DefaultTempo.
	Rows  int // Fixed row count of every pattern in this song.

	Orders []Order
}

// InitialSpeed returns the speed the song starts at.
func (s *Song) InitialSpeed() int {
	if s.Speed == 0 {
		return DefaultSpeed
	}
	return s.Speed
}

// InitialTempo returns the tempo the song starts at.
func (s *Song) InitialTempo() int {
	if s.Tempo == 0 {
		return DefaultTempo
	}
	return s.Tempo
}

// Order names one pattern per channel.
type Order [NumChannels]int

// InstrumentDef is the unparsed form of an instrument. A nil sequence text
// means the module omitted it and the baker falls back to a default.
type InstrumentDef struct {
	Name     string
	Volume   *string
	Arpeggio *string
	Pitch    *string
	Waveform *string
}

// Pattern is a run-length encoded list of rows.
type Pattern []RowRecord

// RowRecord is one row, optionally repeated.
type RowRecord struct {
	Row
	Repeat int // Zero or one means the row appears once.
}

// Count returns the number of rows this record expands to.
func (r RowRecord) Count() int {
	if r.Repeat < 1 {
		return 1
	}
	return r.Repeat
}

// Pattern returns the pattern used by a channel for a given pattern id, and
// whether the module defines it.
func (m *Module) Pattern(channel, id int) (Pattern, bool) {
	if channel < 0 || channel >= NumChannels || m.Patterns[channel] == nil {
		return nil, false
	}
	p, ok := m.Patterns[channel][id]
	return p, ok
}

// Instrument returns the definition for an instrument id, or nil.
func (m *Module) Instrument(id int) *InstrumentDef {
	if m.Instruments == nil {
		return nil
	}
	return m.Instruments[id]
}

func (s *Song) String() string {
	return fmt.Sprintf("%q: %d rows, %d orders, speed %d, tempo %d",
		s.Name, s.Rows, len(s.Orders), s.InitialSpeed(), s.InitialTempo())
}
