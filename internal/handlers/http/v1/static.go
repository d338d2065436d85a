package v1

import (
	"net/http"
	"os"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// staticFallback returns the handlers for unmatched requests: files from the
// given directories in order, then the front-end entry document.
func staticFallback(index string, dirs ...string) []gin.HandlerFunc {
	handlers := []gin.HandlerFunc{readOnly}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		handlers = append(handlers, static.Serve("/", static.LocalFile(dir, false)))
	}
	return append(handlers, serveIndex(index))
}

func readOnly(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Not Found"})
	}
}

func serveIndex(index string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if info, err := os.Stat(index); err != nil || info.IsDir() {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Not Found"})
			return
		}
		c.File(index)
	}
}
