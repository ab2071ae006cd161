package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"image-backend/internal/shared/storage/object"
	"image-backend/internal/shared/util"
)

// Store implements object.Store on a single directory of the local filesystem.
type Store struct {
	baseDir string
}

// New creates the storage directory if needed and returns a store rooted at it.
func New(baseDir string) (*Store, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("local store: base dir is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", baseDir, err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.baseDir
}

// Put writes r to name, truncating any existing file.
func (s *Store) Put(ctx context.Context, name string, r io.Reader) (int64, error) {
	fullPath, err := s.path(name)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}

	written, err := io.Copy(f, &ctxReader{ctx: ctx, r: r})
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		return written, fmt.Errorf("write body: %w", err)
	}
	return written, nil
}

// Open opens a stored file for reading.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, object.Info, error) {
	fullPath, err := s.path(name)
	if err != nil {
		return nil, object.Info{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, object.Info{}, err
	}

	f, err := os.Open(fullPath)
	if err != nil {
		return nil, object.Info{}, mapNotExist(err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, object.Info{}, fmt.Errorf("stat: %w", err)
	}
	if st.IsDir() {
		f.Close()
		return nil, object.Info{}, object.ErrNotFound
	}
	return f, toInfo(st), nil
}

// Stat reports metadata for name.
func (s *Store) Stat(ctx context.Context, name string) (object.Info, error) {
	fullPath, err := s.path(name)
	if err != nil {
		return object.Info{}, err
	}
	if err := ctx.Err(); err != nil {
		return object.Info{}, err
	}
	st, err := os.Stat(fullPath)
	if err != nil {
		return object.Info{}, mapNotExist(err)
	}
	return toInfo(st), nil
}

// List returns the directory entries in the order the filesystem yields them.
func (s *Store) List(ctx context.Context) ([]object.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, err := os.Open(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("open dir: %w", err)
	}
	defer d.Close()

	entries, err := d.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	out := make([]object.Info, 0, len(entries))
	for _, e := range entries {
		info := object.Info{Name: e.Name(), Dir: e.IsDir()}
		if st, err := e.Info(); err == nil {
			info.Size = st.Size()
			info.ModTime = st.ModTime()
		}
		out = append(out, info)
	}
	return out, nil
}

func (s *Store) path(name string) (string, error) {
	if err := util.CheckFlatName(name); err != nil {
		return "", object.ErrInvalidKey
	}
	return filepath.Join(s.baseDir, name), nil
}

func mapNotExist(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return object.ErrNotFound
	}
	return err
}

func toInfo(st fs.FileInfo) object.Info {
	return object.Info{
		Name:    st.Name(),
		Size:    st.Size(),
		ModTime: st.ModTime(),
		Dir:     st.IsDir(),
	}
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

var _ object.Store = (*Store)(nil)
