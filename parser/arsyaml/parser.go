// Package arsyaml loads ars-tracker modules written as YAML (or JSON) into
// tracker.Module values.
package arsyaml

import (
	"fmt"
	"io"
	"log"
	"maps"
	"slices"
	"strings"

	"github.com/QEStudios/ArsBaker/tracker"
	"gopkg.in/yaml.v2"
)

const maxVolume = (1 << 4) - 1

// Small struct for non-fatal warnings
type ParseWarning struct {
	Location string
	Message  string
}

func (pw ParseWarning) String() string {
	return fmt.Sprintf("%s: %s", pw.Location, pw.Message)
}

type Parser struct {
	r      io.Reader
	logger *log.Logger

	// Collect any warnings whilst parsing.
	warnings []ParseWarning

	// Whether or not the parser has already been used.
	// Parsing can only be done once per Parser.
	used bool
}

type ParseResult struct {
	Module   *tracker.Module
	Warnings []ParseWarning
}

// NewParser creates a new parser to parse a module document.
func NewParser(r io.Reader, logger *log.Logger) *Parser {
	if logger == nil {
		logger = log.Default()
	}
	return &Parser{
		r:      r,
		logger: logger,
	}
}

// addWarning adds to the list of warnings encountered when parsing.
func (p *Parser) addWarning(location string, format string, args ...any) {
	p.warnings = append(p.warnings, ParseWarning{
		Location: location,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (p *Parser) parseInternal() (*ParseResult, error) {
	if p.used {
		return nil, fmt.Errorf("parser has already been used")
	}
	p.used = true

	data, err := io.ReadAll(p.r)
	if err != nil {
		return nil, fmt.Errorf("error reading module: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error decoding module: %w", err)
	}

	if len(doc.Songs) == 0 {
		return nil, fmt.Errorf("module has no songs")
	}
	if len(doc.Patterns) > tracker.NumChannels {
		return nil, fmt.Errorf("module has patterns for %d channels, at most %d are allowed", len(doc.Patterns), tracker.NumChannels)
	}

	module := &tracker.Module{
		Name:        doc.Name,
		Instruments: make(map[int]*tracker.InstrumentDef, len(doc.Instruments)),
	}

	for id, ins := range doc.Instruments {
		module.Instruments[id] = &tracker.InstrumentDef{
			Name:     ins.Name,
			Volume:   ins.Volume.text(),
			Arpeggio: ins.Arpeggio.text(),
			Pitch:    ins.Pitch.text(),
			Waveform: ins.Waveform.text(),
		}
	}

	for ch, patterns := range doc.Patterns {
		module.Patterns[ch] = make(map[int]tracker.Pattern, len(patterns))
		for _, id := range slices.Sorted(maps.Keys(patterns)) {
			rows := patterns[id]
			location := fmt.Sprintf("channel %d, pattern %d", ch, id)
			pattern, err := p.parsePattern(location, ch, rows, module)
			if err != nil {
				return nil, err
			}
			module.Patterns[ch][id] = pattern
		}
	}

	for i, s := range doc.Songs {
		song, err := p.parseSong(i, s, module)
		if err != nil {
			return nil, err
		}
		module.Songs = append(module.Songs, song)
	}

	return &ParseResult{Module: module, Warnings: p.warnings}, nil
}

func (s *sequenceText) text() *string {
	if s == nil {
		return nil
	}
	t := string(*s)
	return &t
}

func (p *Parser) parseSong(index int, s songDoc, module *tracker.Module) (*tracker.Song, error) {
	location := fmt.Sprintf("song %d", index)

	if s.Speed < 0 || s.Tempo < 0 {
		return nil, fmt.Errorf("%s: negative speed or tempo", location)
	}
	if s.Rows <= 0 {
		return nil, fmt.Errorf("%s: row count must be positive, got %d", location, s.Rows)
	}
	if len(s.Orders) == 0 {
		return nil, fmt.Errorf("%s: no orders", location)
	}

	song := &tracker.Song{
		Name:  s.Name,
		Speed: s.Speed,
		Tempo: s.Tempo,
		Rows:  s.Rows,
	}

	for i, o := range s.Orders {
		if len(o) != tracker.NumChannels {
			return nil, fmt.Errorf("%s, order %d: expected %d pattern ids, got %d", location, i, tracker.NumChannels, len(o))
		}
		var order tracker.Order
		for ch, id := range o {
			order[ch] = id
			if _, ok := module.Pattern(ch, id); !ok {
				p.addWarning(fmt.Sprintf("%s, order %d", location, i), "channel %d uses undefined pattern %d, it will be silent", ch, id)
			}
		}
		song.Orders = append(song.Orders, order)
	}

	return song, nil
}

func (p *Parser) parsePattern(location string, channel int, rows []rowDoc, module *tracker.Module) (tracker.Pattern, error) {
	pattern := make(tracker.Pattern, 0, len(rows))

	for i, r := range rows {
		rowLocation := fmt.Sprintf("%s, row record %d", location, i)

		if r.Repeat < 0 {
			return nil, fmt.Errorf("%s: negative repeat count %d", rowLocation, r.Repeat)
		}
		rec := tracker.RowRecord{Repeat: r.Repeat}

		if r.HasNote {
			note, err := parseNote(r.Note)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", rowLocation, err)
			}
			rec.Note = note
		}

		if r.Instrument != nil {
			rec.Instrument = *r.Instrument
			rec.HasInstrument = true
			if module.Instrument(*r.Instrument) == nil {
				p.addWarning(rowLocation, "undefined instrument %d", *r.Instrument)
			}
		}

		if r.Volume != nil {
			if *r.Volume < 0 || *r.Volume > maxVolume {
				return nil, fmt.Errorf("%s: volume must be 0-%d, got %d", rowLocation, maxVolume, *r.Volume)
			}
			rec.Volume = uint8(*r.Volume)
			rec.HasVolume = true
		}

		for _, fx := range r.Fx {
			typ, ok := tracker.ParseEffectType(strings.ToLower(fx.Type))
			if !ok {
				p.addWarning(rowLocation, "unrecognised effect %q, ignoring", fx.Type)
			}
			if channel == tracker.NoiseChannel && (typ == tracker.EffectHWSlide || typ == tracker.EffectPan) {
				p.addWarning(rowLocation, "%s effect is invalid on the noise channel and will stop the bake", typ)
			}
			rec.Effects = append(rec.Effects, tracker.Effect{Type: typ, Value: fx.Value})
		}

		pattern = append(pattern, rec)
	}

	return pattern, nil
}

// Parse parses the document into a module, logging any warnings.
func (p *Parser) Parse() (*tracker.Module, error) {
	result, err := p.parseInternal()
	if err != nil {
		return nil, err
	}

	if len(result.Warnings) > 0 {
		p.logger.Println("Warnings produced while parsing module:")
		for _, warning := range result.Warnings {
			p.logger.Printf("%v", warning)
		}
	}

	return result.Module, nil
}

// ParseWithWarnings is like Parse but returns the warnings instead of logging
// them.
func (p *Parser) ParseWithWarnings() (*ParseResult, error) {
	return p.parseInternal()
}
