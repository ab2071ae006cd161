package respond

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAttachmentHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/all-images/", func(c *gin.Context) {
		Attachment(c, 3, "application/zip", "all_images.zip", strings.NewReader("zip"))
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/all-images/", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Disposition"); got != `attachment; filename="all_images.zip"` {
		t.Fatalf("unexpected Content-Disposition %q", got)
	}
	if got := resp.Header().Get("Content-Length"); got != "3" {
		t.Fatalf("unexpected Content-Length %q", got)
	}
	if resp.Body.String() != "zip" {
		t.Fatalf("unexpected body %q", resp.Body.String())
	}
}
