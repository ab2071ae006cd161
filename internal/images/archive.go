package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"

	"image-backend/internal/shared/storage/object"
)

// ArchiveFileName is the attachment name of the bundled download.
const ArchiveFileName = "all_images.zip"

var unsafeTokenChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// Archive is a zip written to a per-request temporary file.
type Archive struct {
	Path    string
	Size    int64
	Entries []string
}

// Open opens the archive for reading.
func (a *Archive) Open() (*os.File, error) {
	return os.Open(a.Path)
}

// Remove deletes the temporary file. It is safe to call more than once.
func (a *Archive) Remove() error {
	if err := os.Remove(a.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// writeArchive packs every regular entry of store into a new zip in dir.
// Entries vanishing between list and open are skipped.
func writeArchive(ctx context.Context, store object.Store, entries []object.Info, dir, token string) (*Archive, error) {
	f, err := os.CreateTemp(dir, "all_images-"+archiveToken(token)+"-*.zip")
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	archive := &Archive{Path: f.Name()}

	fail := func(err error) (*Archive, error) {
		f.Close()
		archive.Remove()
		return nil, err
	}

	zw := zip.NewWriter(f)
	for _, entry := range entries {
		if entry.Dir {
			continue
		}
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		added, err := addEntry(ctx, zw, store, entry.Name)
		if err != nil {
			return fail(err)
		}
		if added {
			archive.Entries = append(archive.Entries, entry.Name)
		}
	}
	if err := zw.Close(); err != nil {
		return fail(fmt.Errorf("finalize archive: %w", err))
	}

	st, err := f.Stat()
	if err != nil {
		return fail(fmt.Errorf("stat archive: %w", err))
	}
	archive.Size = st.Size()
	if err := f.Close(); err != nil {
		archive.Remove()
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return archive, nil
}

func addEntry(ctx context.Context, zw *zip.Writer, store object.Store, name string) (bool, error) {
	rc, info, err := store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	hdr := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: info.ModTime,
	}
	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return false, fmt.Errorf("zip header %s: %w", name, err)
	}
	if _, err := io.Copy(w, rc); err != nil {
		return false, fmt.Errorf("zip write %s: %w", name, err)
	}
	return true, nil
}

// archiveToken reduces a request id to characters safe in a file name.
func archiveToken(requestID string) string {
	token := unsafeTokenChars.ReplaceAllString(requestID, "")
	if len(token) > 64 {
		token = token[:64]
	}
	if token == "" {
		token = uuid.NewString()
	}
	return token
}
