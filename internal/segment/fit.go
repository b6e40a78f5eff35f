package segment

import (
	"fmt"
	"slices"
	"time"
)

// Default merge threshold schedule bounds. The exact schedule is a tuning
// parameter, not a correctness requirement; tests pin their own via
// WithThresholds.
const (
	defaultMinGap  = 60 * time.Millisecond
	defaultMaxGap  = 300 * time.Millisecond
	defaultGapStep = 10 * time.Millisecond
)

// DefaultThresholds returns the default gap-tolerance schedule: 60ms up
// to 300ms in 10ms steps.
func DefaultThresholds() []time.Duration {
	var ts []time.Duration
	for gap := defaultMinGap; gap <= defaultMaxGap; gap += defaultGapStep {
		ts = append(ts, gap)
	}
	return ts
}

// Fitter reduces an over-segmented candidate list to an exact clip count
// by merging adjacent segments under an increasing gap tolerance.
type Fitter struct {
	thresholds []time.Duration
}

// FitterOption configures a Fitter.
type FitterOption func(*Fitter)

// WithThresholds sets the gap-tolerance schedule. Thresholds must be in
// increasing order.
func WithThresholds(ts []time.Duration) FitterOption {
	return func(f *Fitter) {
		f.thresholds = ts
	}
}

// NewFitter creates a Fitter with the given options.
func NewFitter(opts ...FitterOption) *Fitter {
	f := &Fitter{thresholds: DefaultThresholds()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fit returns exactly target intervals built from segs, which must be
// ordered and non-overlapping (with at most slight pad overlap between
// neighbors).
//
//   - len(segs) == target: returned unchanged.
//   - len(segs) < target: ErrInsufficientSegments. Boundaries are never
//     fabricated.
//   - len(segs) > target: one merge pass over the original segments per
//     threshold, in increasing order, until a pass yields target. A pass
//     that overshoots below target is discarded in favor of the last
//     over-target result. If no pass lands on target the best result is
//     truncated to the first target segments and truncated is set; the
//     caller should surface that as a warning since trailing segments are
//     dropped.
//
// The result never has fewer than target segments, and each output
// interval is the union of a contiguous run of input intervals.
func (f *Fitter) Fit(segs []Interval, target int) (fitted []Interval, truncated bool, err error) {
	if target < 1 {
		return nil, false, fmt.Errorf("%w: got %d", ErrInvalidCount, target)
	}
	if len(segs) == target {
		return slices.Clone(segs), false, nil
	}
	if len(segs) < target {
		return nil, false, fmt.Errorf(
			"%w: detected %d but need %d; raise the noise threshold or reduce the clip count",
			ErrInsufficientSegments, len(segs), target)
	}

	best := slices.Clone(segs)
	for _, gap := range f.thresholds {
		merged := mergeAdjacent(segs, gap)
		if len(merged) == target {
			return merged, false, nil
		}
		if len(merged) < target {
			break // overshot; fall back to the last over-target result
		}
		best = merged
	}

	return best[:target], true, nil
}

// mergeAdjacent performs one left-to-right merge pass, coalescing
// neighbors whose gap is at most maxGap. Overlapping neighbors have a
// negative gap and always merge. Count is non-increasing in maxGap: any
// pair eligible at a smaller threshold stays eligible at a larger one.
func mergeAdjacent(segs []Interval, maxGap time.Duration) []Interval {
	merged := make([]Interval, 1, len(segs))
	merged[0] = segs[0]
	for _, next := range segs[1:] {
		last := &merged[len(merged)-1]
		if next.Start-last.End <= maxGap {
			last.End = max(last.End, next.End)
		} else {
			merged = append(merged, next)
		}
	}
	return merged
}
