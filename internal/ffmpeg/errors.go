package ffmpeg

import (
	"regexp"
	"strings"
)

// Pre-compiled regexes for classifying ffmpeg stderr output. Checked in
// order by [Diagnose]; the first match wins.
var (
	reOutputExists = regexp.MustCompile(
		`(?m)File '.*' already exists\. Exiting\.|already exists\. Overwrite\?`)

	reInvalidData = regexp.MustCompile(
		`Invalid data found when processing input|` +
			`could not find codec parameters|` +
			`moov atom not found|` +
			`Header missing`)

	rePermission = regexp.MustCompile(`(?i)Permission denied`)

	reNoSpace = regexp.MustCompile(`(?i)No space left on device`)

	reUnknownEncoder = regexp.MustCompile(
		`Unknown encoder|Encoder not found|` +
			`Unable to find a suitable output format|` +
			`Requested output format '.*' is not a suitable output format`)

	reFilterIssue = regexp.MustCompile(
		`No such filter|Error (initializing|reinitializing) filters?|` +
			`Error parsing a filter description|Invalid argument.*filter`)
)

// MatchOutputExists reports whether ffmpeg refused to overwrite its output.
// In that case the output file predates the job and must be left alone.
func MatchOutputExists(stderr string) bool {
	return reOutputExists.MatchString(stderr)
}

// MatchInvalidData reports whether the input could not be decoded.
func MatchInvalidData(stderr string) bool {
	return reInvalidData.MatchString(stderr)
}

// Diagnose returns a short cause for a failed run, or "" when stderr
// matches no known pattern.
func Diagnose(stderr string) string {
	switch {
	case MatchOutputExists(stderr):
		return "output appeared during the run and was left untouched"
	case MatchInvalidData(stderr):
		return "input is not decodable audio"
	case rePermission.MatchString(stderr):
		return "permission denied"
	case reNoSpace.MatchString(stderr):
		return "no space left on device"
	case reUnknownEncoder.MatchString(stderr):
		return "output format or encoder not supported by this ffmpeg build"
	case reFilterIssue.MatchString(stderr):
		return "filter chain rejected by ffmpeg"
	}
	return ""
}

// Tail returns the last n non-empty lines of s.
func Tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return strings.Join(kept, "\n")
}
