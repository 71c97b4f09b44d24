package audio

import (
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPCMReader_EncodesFloat32LE(t *testing.T) {
	r := newPCMReader(constStreamer(0.25))
	p := make([]byte, 4*bytesPerFrame+3) // trailing partial frame is ignored
	n, err := r.Read(p)
	require.NoError(t, err)
	require.Equal(t, 4*bytesPerFrame, n)

	for off := 0; off < n; off += 4 {
		v := math.Float32frombits(binary.LittleEndian.Uint32(p[off:]))
		assert.Equal(t, float32(0.25), v)
	}
}

func TestPCMReader_ClampsOverdrive(t *testing.T) {
	r := newPCMReader(constStreamer(-3))
	p := make([]byte, bytesPerFrame)
	_, err := r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, float32(-1), math.Float32frombits(binary.LittleEndian.Uint32(p)))
}

func TestPCMReader_EOFAfterFiniteStream(t *testing.T) {
	r := newPCMReader(beep.Silence(3))
	p := make([]byte, 8*bytesPerFrame)
	n, err := r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 3*bytesPerFrame, n)

	n, err = r.Read(p)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestPCMReader_ShortBuffer(t *testing.T) {
	r := newPCMReader(constStreamer(1))
	n, err := r.Read(make([]byte, bytesPerFrame-1))
	assert.NoError(t, err)
	assert.Zero(t, n)
}
