package segment

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Regex patterns for silencedetect diagnostics - tolerant of format
// variations. FFmpeg emits lines like:
//
//	[silencedetect @ 0x...] silence_start: 42.123
//	[silencedetect @ 0x...] silence_end: 43.456 | silence_duration: 1.333
var (
	silenceStartRe = regexp.MustCompile(`silence_start:\s*([\d.]+)`)
	silenceEndRe   = regexp.MustCompile(`silence_end:\s*([\d.]+)`)
)

// ParseSilenceLog extracts raw silence_start and silence_end timestamps
// from silence-detection diagnostic output. Timestamps are returned in
// encounter order, unsorted and unpaired; other diagnostic lines are
// ignored and malformed numeric tokens are skipped.
func ParseSilenceLog(log string) (starts, ends []time.Duration) {
	for _, line := range strings.Split(log, "\n") {
		if m := silenceStartRe.FindStringSubmatch(line); m != nil {
			if d, ok := parseSeconds(m[1]); ok {
				starts = append(starts, d)
			}
		}
		if m := silenceEndRe.FindStringSubmatch(line); m != nil {
			if d, ok := parseSeconds(m[1]); ok {
				ends = append(ends, d)
			}
		}
	}
	return starts, ends
}

// parseSeconds converts a fractional-seconds token to a Duration.
func parseSeconds(s string) (time.Duration, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(f * float64(time.Second)), true
}
