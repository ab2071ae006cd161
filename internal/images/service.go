package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"image-backend/internal/shared/metrics"
	"image-backend/internal/shared/storage/object"
	"image-backend/internal/shared/telemetry"
	"image-backend/internal/shared/util"
	"image-backend/internal/uploads"
)

// sniffLen matches the header size mimetype inspects by default.
const sniffLen = 3072

// Recorder receives one record per stored upload.
type Recorder interface {
	Record(ctx context.Context, rec uploads.Record) (uploads.Record, error)
}

// UploadInput carries one upload request.
type UploadInput struct {
	Name      string
	FileName  string
	Body      io.Reader
	RequestID string
}

// UploadResult describes a stored image.
type UploadResult struct {
	ImageID   string
	SizeBytes int64
	SHA256    string
	MimeType  string
}

// Service holds the image operations over one store.
type Service struct {
	Store      object.Store
	Ledger     Recorder
	ArchiveDir string

	locks *nameLocks
}

// NewService constructs a Service. ledger may be nil.
func NewService(store object.Store, ledger Recorder, archiveDir string) *Service {
	if archiveDir == "" {
		archiveDir = os.TempDir()
	}
	return &Service{
		Store:      store,
		Ledger:     ledger,
		ArchiveDir: archiveDir,
		locks:      newNameLocks(),
	}
}

// Upload stores the body under name + "." + extension(FileName), replacing
// any previous image of that name. Writers to the same name are serialized.
func (s *Service) Upload(ctx context.Context, in UploadInput) (UploadResult, error) {
	if in.Name == "" || in.FileName == "" || in.Body == nil {
		return UploadResult{}, ErrInvalidInput
	}
	imageID := StoredName(in.Name, in.FileName)
	if err := util.CheckFlatName(imageID); err != nil {
		return UploadResult{}, fmt.Errorf("%w: %q is not a valid image name", ErrInvalidInput, imageID)
	}

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(in.Body, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return UploadResult{}, fmt.Errorf("read upload: %w", err)
	}
	header = header[:n]
	mimeType := mimetype.Detect(header).String()

	digest := util.NewDigestReader(io.MultiReader(bytes.NewReader(header), in.Body))

	release := s.locks.Lock(imageID)
	_, err = s.Store.Put(ctx, imageID, digest)
	release()
	if err != nil {
		if errors.Is(err, object.ErrInvalidKey) {
			return UploadResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return UploadResult{}, fmt.Errorf("store %s: %w", imageID, err)
	}

	result := UploadResult{
		ImageID:   imageID,
		SizeBytes: digest.N(),
		SHA256:    digest.Sum(),
		MimeType:  mimeType,
	}
	metrics.IncUpload(result.SizeBytes)
	telemetry.Info("image.stored", map[string]any{
		"request_id": in.RequestID,
		"image_id":   imageID,
		"size_bytes": result.SizeBytes,
		"mime_type":  mimeType,
	})

	s.record(ctx, in, result)
	return result, nil
}

func (s *Service) record(ctx context.Context, in UploadInput, result UploadResult) {
	if s.Ledger == nil {
		return
	}
	_, err := s.Ledger.Record(ctx, uploads.Record{
		ImageID:          result.ImageID,
		OriginalFilename: in.FileName,
		SizeBytes:        result.SizeBytes,
		SHA256:           result.SHA256,
		MimeType:         result.MimeType,
		RequestID:        in.RequestID,
	})
	if err != nil {
		telemetry.Warn("image.ledger_failed", map[string]any{
			"request_id": in.RequestID,
			"image_id":   result.ImageID,
			"err":        err.Error(),
		})
	}
}

// List returns every entry name in the store, in store order.
func (s *Service) List(ctx context.Context) ([]string, error) {
	entries, err := s.Store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrNoImages
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names, nil
}

// Open resolves imageID to imageID + ".webp" and opens it.
func (s *Service) Open(ctx context.Context, imageID string) (io.ReadCloser, object.Info, error) {
	name := FetchName(imageID)
	rc, info, err := s.Store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) || errors.Is(err, object.ErrInvalidKey) {
			metrics.IncFetch(false)
			return nil, object.Info{}, ErrNotFound
		}
		return nil, object.Info{}, fmt.Errorf("open %s: %w", name, err)
	}
	metrics.IncFetch(true)
	return rc, info, nil
}

// Archive zips every current image into a temporary file unique to this call.
// The caller must Remove the returned archive.
func (s *Service) Archive(ctx context.Context, requestID string) (*Archive, error) {
	entries, err := s.Store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrNoImages
	}

	start := time.Now()
	archive, err := writeArchive(ctx, s.Store, entries, s.ArchiveDir, requestID)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	metrics.ObserveArchiveBuilt(elapsed)
	telemetry.Info("archive.built", map[string]any{
		"request_id":  requestID,
		"entries":     len(archive.Entries),
		"size_bytes":  archive.Size,
		"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
	})
	return archive, nil
}
