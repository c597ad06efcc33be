package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header carries the correlation id between services.
const Header = "X-Request-ID"

const contextKey = "request_id"

// Middleware tags every request with a correlation id. An id supplied by the
// caller is kept, otherwise a fresh UUID is minted. The id is echoed back in
// the response header.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextKey, id)
		c.Writer.Header().Set(Header, id)
		c.Next()
	}
}

// Value returns the correlation id for the current request, or "" when the
// middleware did not run.
func Value(c *gin.Context) string {
	id, _ := c.Get(contextKey)
	s, _ := id.(string)
	return s
}
