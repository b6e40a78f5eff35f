package segment

import "errors"

// ErrNoSpeech indicates silence inversion left no speech segments.
var ErrNoSpeech = errors.New("no speech regions detected")

// ErrInsufficientSegments indicates fewer natural segments were detected
// than the requested clip count. Merging cannot remedy this; the caller
// must loosen detection parameters or lower the target.
var ErrInsufficientSegments = errors.New("not enough segments for requested clip count")

// ErrInvalidCount indicates a non-positive target clip count.
var ErrInvalidCount = errors.New("clip count must be greater than zero")
