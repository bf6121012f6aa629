package respond

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

// Timestamp formats now the way every response body reports it.
func Timestamp(now time.Time) string {
	return now.UTC().Format(time.RFC3339Nano)
}
