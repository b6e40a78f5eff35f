package segment

import (
	"fmt"
	"time"
)

// DefaultEpsilon is the minimum gap between silences that counts as
// speech. Anything smaller is floating-point jitter from the detector,
// not a real segment.
const DefaultEpsilon = time.Millisecond

// Inverter computes the complement of silence intervals over a recording.
type Inverter struct {
	epsilon time.Duration
}

// InverterOption configures an Inverter.
type InverterOption func(*Inverter)

// WithEpsilon sets the minimum emitted segment gap. Default: 1ms.
func WithEpsilon(eps time.Duration) InverterOption {
	return func(inv *Inverter) {
		inv.epsilon = eps
	}
}

// NewInverter creates an Inverter with the given options.
func NewInverter(opts ...InverterOption) *Inverter {
	inv := &Inverter{epsilon: DefaultEpsilon}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Speech returns the speech segments of a recording: the complement of
// silences within [0, total). silences must be ordered and
// non-overlapping. Returns ErrNoSpeech if nothing remains.
func (inv *Inverter) Speech(silences []Interval, total time.Duration) ([]Interval, error) {
	var speech []Interval
	var prevEnd time.Duration

	for _, s := range silences {
		if s.Start-prevEnd > inv.epsilon {
			speech = append(speech, Interval{Start: prevEnd, End: s.Start})
		}
		if s.End > prevEnd {
			prevEnd = s.End
		}
	}
	if total-prevEnd > inv.epsilon {
		speech = append(speech, Interval{Start: prevEnd, End: total})
	}

	if len(speech) == 0 {
		return nil, fmt.Errorf("%w with the current settings", ErrNoSpeech)
	}
	return speech, nil
}
