package object

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrNotFound is returned when a named object does not exist.
	ErrNotFound = errors.New("object not found")
	// ErrInvalidKey is returned for names that are not a single flat path component.
	ErrInvalidKey = errors.New("invalid storage key")
)

// Info describes one entry of a flat store.
type Info struct {
	Name    string
	Size    int64
	ModTime time.Time
	Dir     bool
}

// Store is a flat namespace of named binary objects.
type Store interface {
	// Put creates or truncates name and streams r into it.
	Put(ctx context.Context, name string, r io.Reader) (int64, error)
	// Open returns the object's content. The caller closes it.
	Open(ctx context.Context, name string) (io.ReadCloser, Info, error)
	// Stat reports whether name exists without reading it.
	Stat(ctx context.Context, name string) (Info, error)
	// List returns every entry in the store's enumeration order.
	List(ctx context.Context) ([]Info, error)
}
