package history

import "errors"

// ErrInvalidInput indicates a missing entry.
var ErrInvalidInput = errors.New("invalid history input")
