package uploads

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"image-backend/internal/shared/server/respond"
)

// Handler exposes the upload ledger.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches ledger routes to the router group.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.GET("/uploads/", h.list)
}

func (h *Handler) list(c *gin.Context) {
	limit := defaultListLimit
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "limit must be an integer", nil)
			return
		}
		limit = parsed
	}

	records, err := h.Svc.Recent(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to list uploads", nil)
		return
	}

	resp := ListResponse{Uploads: make([]RecordResponse, 0, len(records))}
	for _, rec := range records {
		resp.Uploads = append(resp.Uploads, toResponse(rec))
	}
	respond.OK(c, resp)
}
