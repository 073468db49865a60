// Package probe reads source audio headers without decoding sample data.
// It is informational only: the pipeline never depends on it, and a file
// probe cannot read is still handed to ffmpeg.
//
// Types:
//   - SourceInfo (container, channels, sample rate, bit depth, duration)
//
// Functions:
//   - Inspect(path) → *SourceInfo
//     WAV via go-audio/wav, AIFF via go-audio/aiff, MP3 frame headers via
//     hajimehoshi/go-mp3. Other formats return ErrUnsupported.
//   - (*SourceInfo).Summary() → "wav | 2 ch | 44100 Hz | 16-bit | 1.50s"
package probe
