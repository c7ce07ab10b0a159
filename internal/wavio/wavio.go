// Package wavio reads and writes stereo PCM WAV files as float64 channels.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-gate/dsp/core"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// ErrInvalidFile is returned for input that is not a PCM WAV stream.
var ErrInvalidFile = errors.New("wavio: not a PCM WAV file")

// Stereo holds two equally long channels with samples in [-1, 1].
type Stereo struct {
	Left  []float64
	Right []float64
}

// NewStereo allocates n silent frames.
func NewStereo(n int) Stereo {
	return Stereo{Left: make([]float64, n), Right: make([]float64, n)}
}

// Len returns the frame count.
func (s Stereo) Len() int { return min(len(s.Left), len(s.Right)) }

// Duration returns the length in seconds at sampleRate.
func (s Stereo) Duration(sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(s.Len()) / float64(sampleRate)
}

// Read decodes the WAV file at path. Mono files are copied to both channels;
// channels beyond the second are dropped.
func Read(path string) (Stereo, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stereo{}, 0, err
	}
	defer f.Close()

	s, sr, err := Decode(f)
	if err != nil {
		return Stereo{}, 0, fmt.Errorf("%s: %w", path, err)
	}
	return s, sr, nil
}

// Decode reads a WAV stream from r.
func Decode(r io.ReadSeeker) (Stereo, int, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Stereo{}, 0, ErrInvalidFile
	}
	if dec.WavAudioFormat != formatPCM && dec.WavAudioFormat != formatExtensible {
		return Stereo{}, 0, fmt.Errorf("%w: audio format %d", ErrInvalidFile, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Stereo{}, 0, fmt.Errorf("wavio: decode: %w", err)
	}

	bitDepth := int(dec.SampleBitDepth())
	if bitDepth <= 0 {
		return Stereo{}, 0, fmt.Errorf("wavio: unknown bit depth")
	}
	nch := buf.Format.NumChannels
	if nch <= 0 {
		return Stereo{}, 0, fmt.Errorf("wavio: no channels")
	}

	data := buf.AsFloatBuffer().Data
	factor := math.Pow(2, float64(bitDepth-1))
	for i := range data {
		data[i] /= factor
	}

	frames := len(data) / nch
	out := NewStereo(frames)
	switch nch {
	case 1:
		copy(out.Left, data)
		copy(out.Right, data)
	case 2:
		core.Deinterleave(out.Left, out.Right, data)
	default:
		for i := 0; i < frames; i++ {
			out.Left[i] = data[i*nch]
			out.Right[i] = data[i*nch+1]
		}
	}

	return out, buf.Format.SampleRate, nil
}

// Write encodes s as a stereo PCM WAV file at path. bitDepth is 16 or 24.
func Write(path string, s Stereo, sampleRate, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Encode(f, s, sampleRate, bitDepth); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// Encode writes s to w. Samples outside [-1, 1] are clipped.
func Encode(w io.WriteSeeker, s Stereo, sampleRate, bitDepth int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("wavio: sample rate must be > 0: %d", sampleRate)
	}
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("wavio: unsupported bit depth %d", bitDepth)
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, 2, formatPCM)

	n := s.Len()
	scale := math.Pow(2, float64(bitDepth-1)) - 1
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 2,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, 2*n),
		SourceBitDepth: bitDepth,
	}
	frames := make([]float64, 2*n)
	core.Interleave(frames, s.Left, s.Right)
	for i, x := range frames {
		buf.Data[i] = quantize(x, scale)
	}

	if err := enc.Write(buf); err != nil {
		enc.Close()
		return fmt.Errorf("wavio: encode: %w", err)
	}
	return enc.Close()
}

func quantize(x, scale float64) int {
	if math.IsNaN(x) {
		return 0
	}
	x = math.Max(-1, math.Min(1, x))
	return int(math.Round(x * scale))
}
