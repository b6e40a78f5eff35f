package segment

import "time"

// DefaultMinSegment is the minimum length a padded segment must reach to
// survive. Shorter segments are detection noise, not speech.
const DefaultMinSegment = 50 * time.Millisecond

// Padder widens speech segments by a fixed pad on both ends so clip
// boundaries don't shave soft onsets and offsets.
type Padder struct {
	pad time.Duration
	min time.Duration
}

// PadderOption configures a Padder.
type PadderOption func(*Padder)

// WithMinSegment sets the minimum surviving segment length. Default: 50ms.
func WithMinSegment(d time.Duration) PadderOption {
	return func(p *Padder) {
		p.min = d
	}
}

// NewPadder creates a Padder that widens segments by pad on each side.
func NewPadder(pad time.Duration, opts ...PadderOption) *Padder {
	p := &Padder{pad: pad, min: DefaultMinSegment}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Apply widens each segment by the pad, clamped to [0, total], and drops
// any segment still shorter than the minimum. Dropping is silent: a
// too-short segment is noise, not an error. Adjacent padded segments may
// touch or overlap slightly; the count fitter treats that as a gap <= 0.
func (p *Padder) Apply(speech []Interval, total time.Duration) []Interval {
	var padded []Interval
	for _, seg := range speech {
		start := max(seg.Start-p.pad, 0)
		end := min(seg.End+p.pad, total)
		if end-start >= p.min {
			padded = append(padded, Interval{Start: start, End: end})
		}
	}
	return padded
}
