// Package playback plays a rendering source through the system audio device.
package playback

import (
	"encoding/binary"
	"math"
	"sync/atomic"
)

const bytesPerFrame = 8 // two float32 channels

// Source renders the next len(left) stereo frames. It is called from the
// audio device goroutine only.
type Source interface {
	Render(left, right []float64)
}

type sourceBox struct{ src Source }

// Stream adapts a [Source] to an io.Reader of interleaved float32
// little-endian stereo frames. The source can be swapped while the stream is
// being read; without a source the stream yields silence.
type Stream struct {
	src   atomic.Pointer[sourceBox]
	left  []float64
	right []float64
}

// NewStream returns a stream reading from src, which may be nil.
func NewStream(src Source) *Stream {
	s := &Stream{}
	s.SetSource(src)
	return s
}

// SetSource replaces the source. Safe to call from any goroutine.
func (s *Stream) SetSource(src Source) {
	if src == nil {
		s.src.Store(nil)
		return
	}
	s.src.Store(&sourceBox{src: src})
}

// Read fills p with whole frames and returns the number of bytes written.
func (s *Stream) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}

	if cap(s.left) < frames {
		s.left = make([]float64, frames)
		s.right = make([]float64, frames)
	}
	left, right := s.left[:frames], s.right[:frames]

	if box := s.src.Load(); box != nil {
		box.src.Render(left, right)
	} else {
		clear(left)
		clear(right)
	}

	for i := range frames {
		binary.LittleEndian.PutUint32(p[i*bytesPerFrame:], math.Float32bits(float32(left[i])))
		binary.LittleEndian.PutUint32(p[i*bytesPerFrame+4:], math.Float32bits(float32(right[i])))
	}
	return frames * bytesPerFrame, nil
}
