package et209

import (
	"fmt"
	"strings"
)

type CommandType int

const (
	SetVoiceVolumeCommand CommandType = iota
	SetVoiceRateCommand
	SetVoiceWaveformCommand
	SetNoiseVolumeCommand
	SetNoisePeriodCommand
	SetNoiseWaveformCommand
)

// A single register write, tagged with the frame it happened in.
type Command struct {
	Frame   int
	Type    CommandType
	Channel int    // NoiseChannel for the noise commands.
	Value   uint16 // 8-bit for volume and waveform writes.
}

func (c Command) String() string {
	switch c.Type {
	case SetVoiceVolumeCommand, SetNoiseVolumeCommand:
		s := fmt.Sprintf("Volume %d", c.Value&maxVolume)
		if c.Value&VolumeResetFlag != 0 {
			s += " (reset)"
		}
		return s

	case SetVoiceRateCommand:
		s := fmt.Sprintf("Rate %d", c.Value&maxVoiceRate)
		if slide := c.Value >> 14; slide != 0 {
			s += fmt.Sprintf(" slide %d", slide)
		}
		return s

	case SetVoiceWaveformCommand:
		var pan string
		switch c.Value & (WaveformPanLeft | WaveformPanRight) {
		case WaveformPanLeft:
			pan = " L"
		case WaveformPanRight:
			pan = " R"
		case WaveformPanLeft | WaveformPanRight:
			pan = " LR"
		}
		return fmt.Sprintf("Wave %d%s", c.Value&^(WaveformPanLeft|WaveformPanRight), pan)

	case SetNoisePeriodCommand:
		return fmt.Sprintf("Period %d", c.Value)

	case SetNoiseWaveformCommand:
		return fmt.Sprintf("Wave %d", c.Value)

	default:
		return ""
	}
}

// formatCommandsByChannel formats commands into a table with numChannels columns.
// headerNames: optional names for each channel (if nil or empty entry, "Channel i" is used).
// indent: number of spaces to indent the table
func formatCommandsByChannel(commands []Command, numChannels int, headerNames []string, indent int) string {
	if numChannels <= 0 {
		numChannels = NumVoices + 1
	}

	// Group by channel
	cols := make([][]Command, numChannels)
	for _, c := range commands {
		if c.Channel < 0 || c.Channel >= numChannels {
			continue
		}
		cols[c.Channel] = append(cols[c.Channel], c)
	}

	maxRows := 0
	for _, col := range cols {
		maxRows = max(maxRows, len(col))
	}

	header := func(i int) string {
		if i < len(headerNames) && headerNames[i] != "" {
			return headerNames[i]
		}
		return fmt.Sprintf("Channel %d", i)
	}

	widths := make([]int, numChannels)
	for i := range numChannels {
		widths[i] = len(header(i))
		for _, cmd := range cols[i] {
			widths[i] = max(widths[i], len(cmd.String()))
		}
		widths[i] = max(widths[i], 12)
	}

	padRight := func(s string, w int) string {
		if len(s) >= w {
			return s
		}
		return s + strings.Repeat(" ", w-len(s))
	}

	var b strings.Builder

	separator := func() {
		b.WriteString(strings.Repeat(" ", indent))
		for i := range numChannels {
			b.WriteString("+")
			b.WriteString(strings.Repeat("-", widths[i]+2)) // +2 for the space padding either side
		}
		b.WriteString("+\n")
	}

	separator()
	b.WriteString(strings.Repeat(" ", indent))
	for i := range numChannels {
		b.WriteString("| ")
		b.WriteString(padRight(header(i), widths[i]))
		b.WriteString(" ")
	}
	b.WriteString("|\n")
	separator()

	for row := range maxRows {
		b.WriteString(strings.Repeat(" ", indent))
		for channel := range numChannels {
			cell := ""
			if row < len(cols[channel]) {
				cell = cols[channel][row].String()
			}
			b.WriteString("| ")
			b.WriteString(padRight(cell, widths[channel]))
			b.WriteString(" ")
		}
		b.WriteString("|\n")
	}
	separator()

	return b.String()
}

var channelHeaders = []string{
	"Voice 0",
	"Voice 1",
	"Voice 2",
	"Voice 3",
	"Voice 4",
	"Voice 5",
	"Voice 6",
	"Noise",
}
