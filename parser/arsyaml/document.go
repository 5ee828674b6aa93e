package arsyaml

import (
	"fmt"
	"strconv"
)

// The on-disk shape of a module. JSON is accepted too, as a subset of YAML.
type document struct {
	Name        string                 `yaml:"name"`
	Instruments indexed[instrumentDoc] `yaml:"instruments"`
	Songs       []songDoc              `yaml:"songs"`
	Patterns    []indexed[[]rowDoc]    `yaml:"patterns"` // One entry per channel.
}

type instrumentDoc struct {
	Name     string        `yaml:"name"`
	Volume   *sequenceText `yaml:"volume"`
	Arpeggio *sequenceText `yaml:"arpeggio"`
	Pitch    *sequenceText `yaml:"pitch"`
	Waveform *sequenceText `yaml:"waveform"`
}

type songDoc struct {
	Name   string  `yaml:"name"`
	Speed  int     `yaml:"speed"`
	Tempo  int     `yaml:"tempo"`
	Rows   int     `yaml:"rows"`
	Orders [][]int `yaml:"orders"`
}

type effectDoc struct {
	Type  string `yaml:"type"`
	Value int    `yaml:"value"`
}

type rowDoc struct {
	Instrument *int        `yaml:"instrument"`
	Volume     *int        `yaml:"volume"`
	Fx         []effectDoc `yaml:"fx"`
	Repeat     int         `yaml:"repeat"`

	// A present but null note is a note cut, so presence is tracked apart
	// from the value.
	Note    any  `yaml:"-"`
	HasNote bool `yaml:"-"`
}

func (r *rowDoc) UnmarshalYAML(unmarshal func(any) error) error {
	type plain rowDoc
	if err := unmarshal((*plain)(r)); err != nil {
		return err
	}

	var raw map[string]any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	r.Note, r.HasNote = raw["note"]
	return nil
}

// sequenceText accepts a sequence written as a string or as a bare number.
type sequenceText string

func (s *sequenceText) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}
	switch v := v.(type) {
	case string:
		*s = sequenceText(v)
	case int, float64:
		*s = sequenceText(fmt.Sprint(v))
	default:
		return fmt.Errorf("sequence must be text, got %T", v)
	}
	return nil
}

// indexed decodes a collection addressed by id, written either as a list
// (the id is the position and nulls are holes) or as a mapping from id.
type indexed[T any] map[int]T

func (ix *indexed[T]) UnmarshalYAML(unmarshal func(any) error) error {
	var probe any
	if err := unmarshal(&probe); err != nil {
		return err
	}

	if _, isList := probe.([]any); isList {
		var list []*T
		if err := unmarshal(&list); err != nil {
			return err
		}
		*ix = make(indexed[T], len(list))
		for id, v := range list {
			if v != nil {
				(*ix)[id] = *v
			}
		}
		return nil
	}

	var m map[any]T
	if err := unmarshal(&m); err != nil {
		return err
	}
	*ix = make(indexed[T], len(m))
	for k, v := range m {
		id, err := parseID(k)
		if err != nil {
			return err
		}
		(*ix)[id] = v
	}
	return nil
}

// parseID accepts integer keys, and integers written as strings (as JSON
// object keys always are).
func parseID(k any) (int, error) {
	switch k := k.(type) {
	case int:
		return k, nil
	case string:
		id, err := strconv.Atoi(k)
		if err != nil {
			return 0, fmt.Errorf("invalid id %q", k)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("invalid id %v", k)
	}
}
