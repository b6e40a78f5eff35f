package segment

import (
	"fmt"
	"time"

	"github.com/alnah/go-clipsplit/internal/format"
)

// Interval is a half-open time range [Start, End) within a recording.
// The same shape carries silence ranges, speech candidates, and final
// clip boundaries; only the surrounding stage gives it meaning.
type Interval struct {
	Start time.Duration
	End   time.Duration
}

// Duration returns the length of the interval.
func (iv Interval) Duration() time.Duration {
	return iv.End - iv.Start
}

// String returns a human-readable representation for logging.
func (iv Interval) String() string {
	return fmt.Sprintf("%ss-%ss", format.Seconds(iv.Start), format.Seconds(iv.End))
}

// Ordered reports whether intervals is sorted by start and free of
// overlaps. Every stage in the pipeline upholds this on its output.
func Ordered(intervals []Interval) bool {
	for i, iv := range intervals {
		if iv.Start >= iv.End {
			return false
		}
		if i > 0 && intervals[i-1].End > iv.Start {
			return false
		}
	}
	return true
}
