package util

import (
	"errors"
	"strings"
)

// ErrInvalidName is returned for names that cannot live in a flat directory.
var ErrInvalidName = errors.New("invalid file name")

// CheckFlatName rejects names that would escape or nest inside a flat
// storage directory. Any other byte sequence is accepted as-is.
func CheckFlatName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return ErrInvalidName
	}
	return nil
}
