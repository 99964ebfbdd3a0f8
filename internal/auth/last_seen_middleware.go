package auth

import (
	"context"

	"chronicles/backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ActivityRecorder stores the time a user was last active.
type ActivityRecorder interface {
	TouchLastSeen(ctx context.Context, userID uint) error
}

// LastSeenMiddleware records activity for the authenticated user.
// It must be used AFTER AuthMiddleware or OptionalAuthMiddleware.
func LastSeenMiddleware(rec ActivityRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := UserID(c); ok {
			if err := rec.TouchLastSeen(c.Request.Context(), userID); err != nil {
				logger.Log.WithError(err).WithField("user_id", userID).Warn("failed to record last seen")
			}
		}
		c.Next()
	}
}
