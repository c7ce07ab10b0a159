package wavio

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-gate/internal/testutil"
)

func TestWriteReadRoundTrip(t *testing.T) {
	for _, depth := range []int{16, 24} {
		path := filepath.Join(t.TempDir(), "tone.wav")
		in := Stereo{
			Left:  testutil.DeterministicSine(440, 44100, 0.5, 4410),
			Right: testutil.DeterministicNoise(2, 0.25, 4410),
		}
		if err := Write(path, in, 44100, depth); err != nil {
			t.Fatalf("Write(%d bit) error = %v", depth, err)
		}

		got, sr, err := Read(path)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if sr != 44100 {
			t.Fatalf("sample rate = %d, want 44100", sr)
		}
		if got.Len() != in.Len() {
			t.Fatalf("frames = %d, want %d", got.Len(), in.Len())
		}

		eps := 2 / math.Pow(2, float64(depth-1))
		testutil.RequireSliceNearlyEqual(t, got.Left, in.Left, eps)
		testutil.RequireSliceNearlyEqual(t, got.Right, in.Right, eps)
	}
}

func TestEncodeClipsOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hot.wav")
	in := Stereo{Left: []float64{2, -3, math.NaN()}, Right: []float64{0.5, 1, -1}}
	if err := Write(path, in, 48000, 16); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, _, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	testutil.RequireWithin(t, got.Left, -1, 1)
	if got.Left[2] != 0 {
		t.Fatalf("NaN sample decoded as %v, want 0", got.Left[2])
	}
}

func TestReadMonoDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	enc := wav.NewEncoder(f, 22050, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 22050},
		Data:           []int{0, 16384, -16384, 32767},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	got, sr, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if sr != 22050 || got.Len() != 4 {
		t.Fatalf("got %d frames at %d Hz", got.Len(), sr)
	}
	testutil.RequireSliceEqual(t, got.Left, got.Right)
	if got.Left[1] != 0.5 {
		t.Fatalf("Left[1] = %v, want 0.5", got.Left[1])
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("definitely not a wav file")))
	if !errors.Is(err, ErrInvalidFile) {
		t.Fatalf("Decode() error = %v, want ErrInvalidFile", err)
	}
}

func TestEncodeValidation(t *testing.T) {
	dir := t.TempDir()
	if err := Write(filepath.Join(dir, "a.wav"), NewStereo(4), 0, 16); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if err := Write(filepath.Join(dir, "b.wav"), NewStereo(4), 48000, 12); err == nil {
		t.Fatal("expected error for 12-bit output")
	}
	if _, _, err := Read(filepath.Join(dir, "missing.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestStereoDuration(t *testing.T) {
	s := NewStereo(24000)
	if s.Duration(48000) != 0.5 {
		t.Fatalf("Duration = %v, want 0.5", s.Duration(48000))
	}
	if s.Duration(0) != 0 {
		t.Fatal("Duration at zero rate should be 0")
	}
}
