// Package player plays baked songs through the default audio device.
package player

import (
	"context"
	"fmt"
	"time"

	"github.com/QEStudios/ArsBaker/baker"
	"github.com/ebitengine/oto/v3"
)

const pollInterval = 50 * time.Millisecond

// Play plays res once and blocks until it has finished or ctx is cancelled.
// Only one audio context can exist per process, so Play should not be
// called concurrently.
func Play(ctx context.Context, res *baker.Result) error {
	if res.SampleCount == 0 {
		return nil
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   res.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("player: %w", err)
	}
	<-ready

	p := otoCtx.NewPlayer(&resultReader{res: res})
	defer p.Close()
	p.Play()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for p.IsPlaying() {
		select {
		case <-ctx.Done():
			p.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return p.Err()
}
