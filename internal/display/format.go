package display

import (
	"fmt"
	"math"
	"strings"
)

var sizeUnits = []string{"KiB", "MiB", "GiB", "TiB"}

// FormatBytes renders n with binary units: "512 B", "1.5 KiB", "3.2 MiB".
func FormatBytes(n int64) string {
	if n > -1024 && n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	v := float64(n) / 1024
	unit := 0
	for math.Abs(v) >= 1024 && unit < len(sizeUnits)-1 {
		v /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", v, sizeUnits[unit])
}

// FormatSizeChange describes how the total size moved from in to out, e.g.
// "- 3.0 KiB (-75.0%)". The percentage is omitted when in is zero.
func FormatSizeChange(in, out int64) string {
	delta := out - in
	var s string
	switch {
	case delta > 0:
		s = "+ " + FormatBytes(delta)
	case delta < 0:
		s = "- " + FormatBytes(-delta)
	default:
		s = FormatBytes(0)
	}
	if in > 0 && delta != 0 {
		s += fmt.Sprintf(" (%+.1f%%)", float64(delta)*100/float64(in))
	}
	return s
}

// FormatBitrate turns an ffmpeg bitrate argument ("320k", "1M", "96000")
// into a label such as "320 kbps". Unrecognized values are returned as is.
func FormatBitrate(arg string) string {
	switch {
	case strings.HasSuffix(arg, "k"):
		return strings.TrimSuffix(arg, "k") + " kbps"
	case strings.HasSuffix(arg, "M"):
		return strings.TrimSuffix(arg, "M") + " Mbps"
	case arg != "" && strings.Trim(arg, "0123456789") == "":
		return arg + " bps"
	}
	return arg
}
