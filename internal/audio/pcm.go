package audio

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/gopxl/beep"
)

// bytesPerFrame is one stereo float32 frame.
const bytesPerFrame = 8

// pcmReader adapts a beep stream to the interleaved little-endian float32
// stereo format of ebiten's NewPlayerF32.
type pcmReader struct {
	streamer beep.Streamer
	buf      [][2]float64
}

func newPCMReader(s beep.Streamer) *pcmReader {
	return &pcmReader{streamer: s}
}

func (r *pcmReader) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	if cap(r.buf) < frames {
		r.buf = make([][2]float64, frames)
	}
	buf := r.buf[:frames]
	n, ok := r.streamer.Stream(buf)
	for i := 0; i < n; i++ {
		off := i * bytesPerFrame
		binary.LittleEndian.PutUint32(p[off:], math.Float32bits(float32(clampSample(buf[i][0]))))
		binary.LittleEndian.PutUint32(p[off+4:], math.Float32bits(float32(clampSample(buf[i][1]))))
	}
	if n == 0 && !ok {
		if err := r.streamer.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}
	return n * bytesPerFrame, nil
}

func clampSample(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
