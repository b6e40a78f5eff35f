package segment

import (
	"cmp"
	"slices"
	"time"
)

// eventKind tags a raw detector timestamp for the pairing sweep.
type eventKind int

const (
	eventStart eventKind = iota
	eventEnd
)

type silenceEvent struct {
	kind eventKind
	at   time.Duration
}

// pairState is the sweep's explicit state: either no silence is open, or
// one opened at openAt and awaits its end.
type pairState int

const (
	noOpenStart pairState = iota
	openStart
)

// PairSilences turns unordered silence_start/silence_end timestamps into an
// ordered, non-overlapping sequence of silence intervals over [0, total).
//
// The events are merged and stable-sorted by timestamp (starts sort ahead
// of ends on ties), then swept left to right with at most one open start:
//   - a START while one is already open is a duplicate and is ignored,
//     keeping the earliest boundary
//   - an END with no open start closes against the end of the previous
//     silence (time 0 for the first), covering logs truncated at the head
//   - a START still open after the sweep closes at total, covering logs
//     truncated mid-silence
func PairSilences(starts, ends []time.Duration, total time.Duration) []Interval {
	events := make([]silenceEvent, 0, len(starts)+len(ends))
	for _, at := range starts {
		events = append(events, silenceEvent{kind: eventStart, at: at})
	}
	for _, at := range ends {
		events = append(events, silenceEvent{kind: eventEnd, at: at})
	}
	slices.SortStableFunc(events, func(a, b silenceEvent) int {
		return cmp.Compare(a.at, b.at)
	})

	var silences []Interval
	state := noOpenStart
	var openAt time.Duration
	var lastEnd time.Duration

	for _, ev := range events {
		switch ev.kind {
		case eventStart:
			if state == openStart {
				continue // duplicate start; keep the earliest open boundary
			}
			state = openStart
			openAt = max(ev.at, lastEnd)
		case eventEnd:
			if state == noOpenStart {
				openAt = lastEnd // dangling end: silence began before the log did
			}
			if ev.at > openAt {
				silences = append(silences, Interval{Start: openAt, End: ev.at})
			}
			lastEnd = max(lastEnd, ev.at)
			state = noOpenStart
		}
	}

	if state == openStart && total > openAt {
		silences = append(silences, Interval{Start: openAt, End: total})
	}

	return silences
}
