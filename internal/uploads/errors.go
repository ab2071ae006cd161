package uploads

import "errors"

// ErrInvalidInput is returned for records missing required fields.
var ErrInvalidInput = errors.New("invalid upload record")
