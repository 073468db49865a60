package probe

import (
	"fmt"
	"strings"
	"time"
)

// SourceInfo holds the header fields of one source file.
type SourceInfo struct {
	Path       string
	Container  string // "wav", "aiff" or "mp3".
	Channels   int
	SampleRate int
	BitDepth   int
	Duration   time.Duration
	Size       int64
}

// ChannelLabel returns "mono", "stereo" or "<n> ch".
func (s *SourceInfo) ChannelLabel() string {
	switch s.Channels {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	}
	return fmt.Sprintf("%d ch", s.Channels)
}

// Summary returns a one-line description for verbose logs. Zero fields are
// omitted.
func (s *SourceInfo) Summary() string {
	parts := []string{s.Container}
	if s.Channels > 0 {
		parts = append(parts, s.ChannelLabel())
	}
	if s.SampleRate > 0 {
		parts = append(parts, fmt.Sprintf("%d Hz", s.SampleRate))
	}
	if s.BitDepth > 0 {
		parts = append(parts, fmt.Sprintf("%d-bit", s.BitDepth))
	}
	if s.Duration > 0 {
		parts = append(parts, fmt.Sprintf("%.2fs", s.Duration.Seconds()))
	}
	return strings.Join(parts, " | ")
}
