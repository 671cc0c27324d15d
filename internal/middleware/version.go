package middleware

import (
	"github.com/gin-gonic/gin"
)

const VersionHeader = "X-App-Version"

// Version stamps every response with the running application version.
func Version(v string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(VersionHeader, v)
		c.Next()
	}
}
