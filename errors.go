package vtcore

import "errors"

// ErrInvalidDimensions is returned by Resize when rows or cols is <= 0.
var ErrInvalidDimensions = errors.New("vtcore: invalid terminal dimensions")
