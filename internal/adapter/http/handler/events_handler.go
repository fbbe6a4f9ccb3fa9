package handler

import (
	"io"

	"rfid-card-wallet/internal/adapter/notify"

	"github.com/gin-gonic/gin"
)

// Events streams observer notifications over Server-Sent Events. Each
// connected dashboard gets its own buffered subscription; disconnecting
// unsubscribes it from the hub.
func Events(hub *notify.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ch, unsubscribe := hub.Subscribe()
		defer unsubscribe()

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")

		c.Stream(func(w io.Writer) bool {
			select {
			case ev, ok := <-ch:
				if !ok {
					return false
				}
				c.SSEvent(ev.Name, ev.Data)
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
