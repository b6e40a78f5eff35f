package media

import "errors"

// ErrProbeFailed indicates the media duration could not be determined.
var ErrProbeFailed = errors.New("cannot determine media duration")

// ErrDetectFailed indicates the silence-detection pass produced no usable output.
var ErrDetectFailed = errors.New("silence detection failed")

// ErrConvertFailed indicates reference-WAV conversion failed.
var ErrConvertFailed = errors.New("reference conversion failed")

// ErrExtractFailed indicates a clip extraction returned a non-zero status.
var ErrExtractFailed = errors.New("clip extraction failed")

// ErrConcatFailed indicates clip concatenation returned a non-zero status.
var ErrConcatFailed = errors.New("clip concatenation failed")

// ErrUnsupportedFormat indicates an unknown output format selector.
var ErrUnsupportedFormat = errors.New("unsupported audio format")
