package planner

import (
	"fmt"
	"strconv"
	"strings"
)

// Fixed filter parameters.
const (
	// silenceMinDuration is the minimum length of non-silence, in seconds,
	// that ends a trimmed region at either edge.
	silenceMinDuration = "0.005"

	// truePeakCeiling is the loudnorm true-peak limit in dBTP.
	truePeakCeiling = -2
)

// SilenceRemoveFilter trims leading and trailing audio below thresholdDB.
// One period is removed at each edge, detected with the same threshold and
// a 5 ms minimum duration:
//
//	silenceremove=start_periods=1:start_duration=0.005:start_threshold=-70dB:
//	stop_periods=1:stop_duration=0.005:stop_threshold=-70dB
func SilenceRemoveFilter(thresholdDB float64) string {
	t := formatNumber(thresholdDB) + "dB"
	return "silenceremove=" +
		"start_periods=1:start_duration=" + silenceMinDuration + ":start_threshold=" + t +
		":stop_periods=1:stop_duration=" + silenceMinDuration + ":stop_threshold=" + t
}

// LoudnormFilter targets an integrated loudness of targetLUFS with the
// fixed true-peak ceiling.
func LoudnormFilter(targetLUFS float64) string {
	return fmt.Sprintf("loudnorm=i=%s:tp=%d", formatNumber(targetLUFS), truePeakCeiling)
}

// formatNumber renders v with the fewest digits that round-trip, so the
// default threshold prints as "-70" rather than "-70.000000".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinFilters(filters []string) string {
	return strings.Join(filters, ",")
}
