package config

import "errors"

// ErrConfig indicates the job file is missing, malformed, or inconsistent.
var ErrConfig = errors.New("invalid job configuration")
