package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CacheControl sets the Cache-Control header for responses, usually catalog
// data that only changes on deploy.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAgeSeconds))
		c.Next()
	}
}

// ETag tags every response with a weak validator derived from version and
// answers matching conditional GETs with 304.
func ETag(version func() string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := `W/"` + version() + `"`
		c.Header("ETag", tag)

		if c.Request.Method == http.MethodGet && etagMatches(c.GetHeader("If-None-Match"), tag) {
			c.AbortWithStatus(http.StatusNotModified)
			return
		}
		c.Next()
	}
}

func etagMatches(header, tag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || candidate == tag || `W/`+candidate == tag {
			return true
		}
	}
	return false
}
