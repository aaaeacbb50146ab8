// internal/middleware/upload.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for boundaries and the text fields sent
// alongside the file.
const multipartOverhead = 64 * 1024

// MaxUploadSize caps the request body so oversized uploads fail while being
// read instead of after buffering. Handlers see *http.MaxBytesError.
func MaxUploadSize(maxFileSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("upload_max_mb", maxFileSize/(1024*1024))
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFileSize+multipartOverhead)
		}
		c.Next()
	}
}
