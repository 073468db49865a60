package probe

import (
	"errors"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// sine returns frames of a 440 Hz tone at half scale, interleaved.
func sine(frames, channels, rate int) []int {
	data := make([]int, frames*channels)
	for i := 0; i < frames; i++ {
		v := int(16000 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
		for c := 0; c < channels; c++ {
			data[i*channels+c] = v
		}
	}
	return data
}

func writeWAV(t *testing.T, path string, rate, channels, frames int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           sine(frames, channels, rate),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("wav write: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("wav close: %v", err)
	}
}

func writeAIFF(t *testing.T, path string, rate, channels, frames int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	enc := aiff.NewEncoder(f, rate, 16, channels)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           sine(frames, channels, rate),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("aiff write: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("aiff close: %v", err)
	}
}

func TestInspect_WAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Tone.WAV")
	writeWAV(t, path, 44100, 2, 44100/2)

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.Container != "wav" || info.Channels != 2 || info.SampleRate != 44100 || info.BitDepth != 16 {
		t.Errorf("info = %+v", info)
	}
	if d := info.Duration; d < 490*time.Millisecond || d > 510*time.Millisecond {
		t.Errorf("Duration = %v, want ~500ms", d)
	}
	if info.Size <= 44 {
		t.Errorf("Size = %d", info.Size)
	}
}

func TestInspect_AIFF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pad.aif")
	writeAIFF(t, path, 48000, 1, 48000)

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.Container != "aiff" || info.Channels != 1 || info.SampleRate != 48000 || info.BitDepth != 16 {
		t.Errorf("info = %+v", info)
	}
	if d := info.Duration; d < 990*time.Millisecond || d > 1010*time.Millisecond {
		t.Errorf("Duration = %v, want ~1s", d)
	}
}

func TestInspect_MP3(t *testing.T) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		t.Skip("ffmpeg not found in PATH")
	}
	path := filepath.Join(t.TempDir(), "tone.mp3")
	cmd := exec.Command(ffmpegPath, "-hide_banner", "-nostdin", "-f", "lavfi",
		"-i", "sine=frequency=440:duration=2", "-ar", "44100", "-c:a", "libmp3lame", "-b:a", "128k", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("ffmpeg cannot encode mp3 here: %v\n%s", err, out)
	}

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.Container != "mp3" || info.SampleRate != 44100 {
		t.Errorf("info = %+v, want mp3 at 44100 Hz", info)
	}
	// Encoder padding adds a few frames.
	if d := info.Duration; d < 1900*time.Millisecond || d > 2200*time.Millisecond {
		t.Errorf("Duration = %v, want ~2s", d)
	}
}

func TestInspect_Errors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "fake.wav")
	if err := os.WriteFile(garbage, []byte("definitely not riff data"), 0o644); err != nil {
		t.Fatal(err)
	}
	fakeMP3 := filepath.Join(dir, "fake.mp3")
	if err := os.WriteFile(fakeMP3, []byte("plain text, no frame sync"), 0o644); err != nil {
		t.Fatal(err)
	}
	flac := filepath.Join(dir, "x.flac")
	if err := os.WriteFile(flac, []byte("fLaC"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want error
	}{
		{"invalid header", garbage, ErrInvalidHeader},
		{"mp3 without frames", fakeMP3, ErrInvalidHeader},
		{"unsupported format", flac, ErrUnsupported},
		{"missing file", filepath.Join(dir, "nope.wav"), os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Inspect(tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("Inspect error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSourceInfoSummary(t *testing.T) {
	tests := []struct {
		info SourceInfo
		want string
	}{
		{SourceInfo{Container: "wav", Channels: 2, SampleRate: 44100, BitDepth: 16, Duration: 1500 * time.Millisecond},
			"wav | stereo | 44100 Hz | 16-bit | 1.50s"},
		{SourceInfo{Container: "aiff", Channels: 1, SampleRate: 48000, BitDepth: 24},
			"aiff | mono | 48000 Hz | 24-bit"},
		{SourceInfo{Container: "wav", Channels: 6}, "wav | 6 ch"},
	}
	for _, tt := range tests {
		if got := tt.info.Summary(); got != tt.want {
			t.Errorf("Summary() = %q, want %q", got, tt.want)
		}
	}
}
