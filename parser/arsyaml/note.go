package arsyaml

import (
	"fmt"
	"strings"

	"github.com/QEStudios/ArsBaker/tracker"
)

var noteBase = map[byte]int{
	'C': 0,
	'D': 2,
	'E': 4,
	'F': 5,
	'G': 7,
	'A': 9,
	'B': 11,
}

/*
isValidPitchString returns true if the given pitch string is valid, otherwise returns false.

The pitch string is always 3 characters.
The first character of the pitch string should be a letter in the range of A-G.
The second character should be '#' if the pitch is sharp, or '-' if it is natural.
The third character is a digit '0'..'9' representing the octave.
*/
func isValidPitchString(pitchString string) bool {
	if len(pitchString) != 3 {
		return false
	}

	upperString := strings.ToUpper(pitchString)
	first := upperString[0]
	second := upperString[1]
	third := upperString[2]

	if !(first >= 'A' && first <= 'G') {
		return false
	}
	if second != '#' && second != '-' {
		return false
	}
	if third < '0' || third > '9' {
		return false
	}
	return true
}

// parsePitchString parses a pitch string into a note number (60 = C-4).
func parsePitchString(pitchString string) (int, error) {
	if !isValidPitchString(pitchString) {
		return 0, fmt.Errorf("invalid pitch string '%s'", pitchString)
	}

	upperString := strings.ToUpper(pitchString)
	octave := int(upperString[2] - '0')

	accidental := 0
	if upperString[1] == '#' {
		accidental = 1
	}

	return (octave+1)*12 + noteBase[upperString[0]] + accidental, nil
}

// parseNote converts the value of a row's note field. The forms mirror the
// JSON modules ars-tracker writes: a number is a note on, false is a note
// off and null is a note cut. "off", "cut" and pitch strings such as "C#4"
// are accepted as well. Note that an unquoted off in YAML is false.
func parseNote(v any) (tracker.Note, error) {
	switch v := v.(type) {
	case nil:
		return tracker.Note{Kind: tracker.NoteCut}, nil

	case bool:
		if v {
			return tracker.Note{}, fmt.Errorf("invalid note 'true'")
		}
		return tracker.Note{Kind: tracker.NoteOff}, nil

	case int:
		return tracker.Note{Kind: tracker.NoteOn, Pitch: v}, nil

	case float64:
		if v != float64(int(v)) {
			return tracker.Note{}, fmt.Errorf("invalid note %v", v)
		}
		return tracker.Note{Kind: tracker.NoteOn, Pitch: int(v)}, nil

	case string:
		switch strings.ToLower(v) {
		case "off":
			return tracker.Note{Kind: tracker.NoteOff}, nil
		case "cut":
			return tracker.Note{Kind: tracker.NoteCut}, nil
		}
		pitch, err := parsePitchString(v)
		if err != nil {
			return tracker.Note{}, err
		}
		return tracker.Note{Kind: tracker.NoteOn, Pitch: pitch}, nil

	default:
		return tracker.Note{}, fmt.Errorf("invalid note %v", v)
	}
}
