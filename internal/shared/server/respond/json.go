package respond

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 JSON response.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

// Stream copies size bytes of r to the client as a 200 with contentType.
// A size below zero sends the body without Content-Length.
func Stream(c *gin.Context, size int64, contentType string, r io.Reader) {
	c.DataFromReader(http.StatusOK, size, contentType, r, nil)
}

// Attachment is Stream with a Content-Disposition naming the download.
func Attachment(c *gin.Context, size int64, contentType, filename string, r io.Reader) {
	c.DataFromReader(http.StatusOK, size, contentType, r, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filename),
	})
}
