package images

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"image-backend/internal/shared/server/middleware"
	"image-backend/internal/shared/server/respond"
	"image-backend/internal/shared/telemetry"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler. maxUploadBytes <= 0 disables the limit.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches image routes to the router group.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.POST("/upload/", h.upload)
	rg.GET("/images/", h.list)
	rg.GET("/image/:image_id", h.fetch)
	rg.GET("/all-images/", h.archive)
}

func (h *Handler) upload(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	name := c.Query("file_name")
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeValidation, "file exceeds upload limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "file is required", nil)
		return
	}
	if name == "" {
		name = c.PostForm("file_name")
	}
	if name == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "file_name is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "unable to read file", nil)
		return
	}
	defer file.Close()

	result, err := h.Svc.Upload(c.Request.Context(), UploadInput{
		Name:      name,
		FileName:  fileHeader.Filename,
		Body:      file,
		RequestID: middleware.RequestIDFromContext(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
		default:
			telemetry.Error("image.upload_failed", map[string]any{
				"request_id": middleware.RequestIDFromContext(c),
				"err":        err.Error(),
			})
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to store image", nil)
		}
		return
	}

	c.Set(middleware.ImageIDKey, result.ImageID)
	respond.OK(c, UploadResponse{ImageID: result.ImageID, Message: uploadedMessage})
}

func (h *Handler) list(c *gin.Context) {
	names, err := h.Svc.List(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, ErrNoImages):
			respond.NotFound(c, "No images found")
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to list images", nil)
		}
		return
	}
	respond.OK(c, ListResponse{Images: names})
}

func (h *Handler) fetch(c *gin.Context) {
	imageID := c.Param("image_id")
	c.Set(middleware.ImageIDKey, FetchName(imageID))

	rc, info, err := h.Svc.Open(c.Request.Context(), imageID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.NotFound(c, "Image not found")
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to read image", nil)
		}
		return
	}
	defer rc.Close()

	respond.Stream(c, info.Size, FetchContentType, rc)
}

func (h *Handler) archive(c *gin.Context) {
	reqID := middleware.RequestIDFromContext(c)
	archive, err := h.Svc.Archive(c.Request.Context(), reqID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoImages):
			respond.NotFound(c, "No images found")
		default:
			telemetry.Error("archive.failed", map[string]any{"request_id": reqID, "err": err.Error()})
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to build archive", nil)
		}
		return
	}
	defer func() {
		if err := archive.Remove(); err != nil {
			telemetry.Warn("archive.cleanup_failed", map[string]any{"request_id": reqID, "path": archive.Path, "err": err.Error()})
		}
	}()

	f, err := archive.Open()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to read archive", nil)
		return
	}
	defer f.Close()

	respond.Attachment(c, archive.Size, "application/zip", ArchiveFileName, f)
}
