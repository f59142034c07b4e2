package model

import (
	"errors"
	"fmt"
)

// Error categories. Component errors wrap one of these so callers can
// branch with errors.Is without knowing which component failed.
var (
	ErrConfiguration = errors.New("configuration error") // Invalid construction parameters
	ErrState         = errors.New("state error")         // Classification used before a state exists or with a bad literal
	ErrFormat        = errors.New("format error")        // Formatter called with a missing field or unknown step
)

// ErrInvalidMode is returned for an unrecognized operating mode
var ErrInvalidMode = fmt.Errorf("%w: invalid mode", ErrConfiguration)
