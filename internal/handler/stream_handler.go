package handler

import (
	"io"

	"chronicles/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

const streamBuffer = 16

// StreamFeed godoc
// @Summary      Stream new posts
// @Description  Server-sent events announcing posts by the user and by the people they follow.
// @Tags         posts
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200
// @Failure      401  {object}  ErrorResponse
// @Router       /feed/stream [get]
func StreamFeed(c *gin.Context) {
	viewerID, _ := auth.UserID(c)

	client := svc.Hub.Subscribe(viewerID, streamBuffer)
	defer svc.Hub.Unsubscribe(viewerID, client)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	done := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(msg))
			return true
		case <-done:
			return false
		}
	})
}
