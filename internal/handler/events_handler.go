package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"homeboard/offlinegate/internal/bus"
)

// Events streams bus broadcasts to an open application instance over
// server-sent events. Delivery is best-effort; a disconnecting client
// simply ends the stream.
func Events(b bus.Bus) gin.HandlerFunc {
	return func(c *gin.Context) {
		ch, cancel := b.Subscribe(c.Request.Context())
		defer cancel()

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")

		c.Stream(func(w io.Writer) bool {
			select {
			case msg, ok := <-ch:
				if !ok {
					return false
				}
				c.SSEvent("message", msg)
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
