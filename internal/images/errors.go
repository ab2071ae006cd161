package images

import "errors"

var (
	// ErrNotFound means the requested image does not exist.
	ErrNotFound = errors.New("image not found")
	// ErrNoImages means the storage directory holds no entries.
	ErrNoImages = errors.New("no images found")
	// ErrInvalidInput covers missing or unusable upload parameters.
	ErrInvalidInput = errors.New("invalid input")
)
