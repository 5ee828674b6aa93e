// Package wavwriter writes baked songs to disk as 16-bit stereo WAV files.
package wavwriter

import (
	"fmt"
	"os"

	"github.com/QEStudios/ArsBaker/baker"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth    = 16
	numChannels = 2
	pcmFormat   = 1
	maxSample   = (1 << (bitDepth - 1)) - 1
)

// Write encodes res to a WAV file at path, replacing any existing file.
// Samples outside [-1, 1] are clipped.
func Write(path string, res *baker.Result) (rerr error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("wavwriter: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, res.SampleRate, bitDepth, numChannels, pcmFormat)
	if err := enc.Write(Buffer(res)); err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	return nil
}

// Buffer interleaves the two channels of res into a 16-bit PCM buffer.
func Buffer(res *baker.Result) *audio.IntBuffer {
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  res.SampleRate,
		},
		Data:           make([]int, res.SampleCount*numChannels),
		SourceBitDepth: bitDepth,
	}
	for i := 0; i < res.SampleCount; i++ {
		buf.Data[i*2] = toPCM(res.Left[i])
		buf.Data[i*2+1] = toPCM(res.Right[i])
	}
	return buf
}

func toPCM(v float32) int {
	v = max(-1, min(1, v))
	return int(v * maxSample)
}
