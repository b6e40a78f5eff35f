package media

import (
	"fmt"
	"strings"
)

// Format selects the output encoding for extracted clips. Each format
// maps to a fixed codec argument set.
type Format string

// Supported output formats.
const (
	FormatMP3  Format = "mp3"  // lossy compressed
	FormatWAV  Format = "wav"  // uncompressed PCM
	FormatFLAC Format = "flac" // lossless compressed
	FormatCopy Format = "copy" // stream copy, no re-encode
)

// ParseFormat validates a format selector (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatMP3, FormatWAV, FormatFLAC, FormatCopy:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: mp3, wav, flac, copy)", ErrUnsupportedFormat, s)
	}
}

// Extension returns the file extension (without dot) for clips in this
// format. Copy passthrough keeps the source's extension, since the
// stream is written unchanged.
func (f Format) Extension(sourceExt string) string {
	if f == FormatCopy {
		return strings.TrimPrefix(strings.ToLower(sourceExt), ".")
	}
	return string(f)
}

// codecArgs returns the encoder arguments for this format.
func (f Format) codecArgs() []string {
	switch f {
	case FormatMP3:
		return []string{"-acodec", "libmp3lame", "-q:a", "2"}
	case FormatWAV:
		return []string{"-acodec", "pcm_s16le"}
	case FormatFLAC:
		return []string{"-acodec", "flac"}
	default:
		return []string{"-acodec", "copy"}
	}
}
