package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"image-backend/internal/images"
	"image-backend/internal/services/health"
	"image-backend/internal/shared/config"
	"image-backend/internal/shared/metrics"
	"image-backend/internal/shared/server/middleware"
	"image-backend/internal/shared/server/respond"
	"image-backend/internal/uploads"
)

// RouterDeps carries the handlers mounted by NewRouter.
type RouterDeps struct {
	Config        config.Config
	ImagesHandler *images.Handler
	UploadHandler *uploads.Handler
	Health        *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		body, ok := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, body)
	})
	r.GET("/metrics", metrics.Handler())

	if deps.ImagesHandler != nil {
		deps.ImagesHandler.RegisterRoutes(r)
	}
	if deps.UploadHandler != nil {
		deps.UploadHandler.RegisterRoutes(r)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
