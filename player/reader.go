package player

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/QEStudios/ArsBaker/baker"
)

const bytesPerFrame = 2 * 4 // Two float32 channels.

// resultReader streams a baked result as interleaved little endian float32
// stereo frames.
type resultReader struct {
	res *baker.Result
	pos int
}

func (r *resultReader) Read(p []byte) (int, error) {
	n := 0
	for ; r.pos < r.res.SampleCount && len(p)-n >= bytesPerFrame; r.pos++ {
		binary.LittleEndian.PutUint32(p[n:], math.Float32bits(r.res.Left[r.pos]))
		binary.LittleEndian.PutUint32(p[n+4:], math.Float32bits(r.res.Right[r.pos]))
		n += bytesPerFrame
	}
	if n == 0 && r.pos >= r.res.SampleCount {
		return 0, io.EOF
	}
	return n, nil
}
