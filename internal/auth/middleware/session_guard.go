package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/citypulse/citypulse-backend/internal/session"
)

// RequireSession rejects requests while the session store reports an
// unauthenticated state. This is the route-protection analog: guarded
// routes redirect to login on the front-end when they see 401.
func RequireSession(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := sessions.State()
		if !state.IsAuthenticated || state.User == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		c.Set("firebase_uid", state.User.UID)
		c.Next()
	}
}
