package probe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/aiff"
	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
)

// go-mp3 always decodes to 16-bit little-endian stereo.
const mp3FrameBytes = 4

var (
	// ErrUnsupported is returned for extensions without a header reader.
	ErrUnsupported = errors.New("no header reader for this format")

	// ErrInvalidHeader is returned when the file does not carry a valid
	// header for its extension.
	ErrInvalidHeader = errors.New("invalid audio header")
)

// headerDecoder is the subset shared by the go-audio wav and aiff decoders.
type headerDecoder interface {
	IsValidFile() bool
	ReadInfo()
	Duration() (time.Duration, error)
}

// Inspect reads the header of a wav, aiff or mp3 file.
func Inspect(path string) (*SourceInfo, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav", ".aif", ".aiff", ".mp3":
	default:
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info := &SourceInfo{Path: path}
	if fi, err := f.Stat(); err == nil {
		info.Size = fi.Size()
	}

	if ext == ".mp3" {
		return inspectMP3(f, info)
	}

	var dec headerDecoder
	if ext == ".wav" {
		d := wav.NewDecoder(f)
		dec = d
		info.Container = "wav"
		if err := readHeader(dec, path); err != nil {
			return nil, err
		}
		info.Channels = int(d.NumChans)
		info.SampleRate = int(d.SampleRate)
		info.BitDepth = int(d.BitDepth)
	} else {
		d := aiff.NewDecoder(f)
		dec = d
		info.Container = "aiff"
		if err := readHeader(dec, path); err != nil {
			return nil, err
		}
		info.Channels = int(d.NumChans)
		info.SampleRate = int(d.SampleRate)
		info.BitDepth = int(d.BitDepth)
	}

	// Duration needs the data chunk size; a truncated file still yields
	// the format fields above.
	if dur, err := dec.Duration(); err == nil {
		info.Duration = dur
	}
	return info, nil
}

func readHeader(dec headerDecoder, path string) error {
	if !dec.IsValidFile() {
		return fmt.Errorf("%s: %w", filepath.Base(path), ErrInvalidHeader)
	}
	dec.ReadInfo()
	return nil
}

// inspectMP3 walks the frame headers for rate and length. The channel count
// and bit depth of the source are not exposed by the decoder and stay zero.
func inspectMP3(f *os.File, info *SourceInfo) (*SourceInfo, error) {
	d, err := gomp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", filepath.Base(info.Path), ErrInvalidHeader, err)
	}
	info.Container = "mp3"
	info.SampleRate = d.SampleRate()
	if n := d.Length(); n > 0 && info.SampleRate > 0 {
		frames := n / mp3FrameBytes
		info.Duration = time.Duration(frames) * time.Second / time.Duration(info.SampleRate)
	}
	return info, nil
}
