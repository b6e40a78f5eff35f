package segment

import (
	"fmt"
	"time"
)

// SplitEvenly divides [0, total) into exactly count equal segments. Used
// when silence detection is disabled. The final segment absorbs integer
// rounding so the sequence always ends at total.
func SplitEvenly(total time.Duration, count int) ([]Interval, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	if total <= 0 {
		return nil, fmt.Errorf("cannot split a zero-length recording into %d clips", count)
	}

	step := total / time.Duration(count)
	segs := make([]Interval, count)
	for i := 0; i < count; i++ {
		start := time.Duration(i) * step
		end := start + step
		if i == count-1 {
			end = total
		}
		segs[i] = Interval{Start: start, End: end}
	}
	return segs, nil
}
