package httpapi

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// newJobStoreContext bounds a jobstore write to a short deadline,
// independent of the request's own (possibly long, SSE-streaming)
// lifetime.
func newJobStoreContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
