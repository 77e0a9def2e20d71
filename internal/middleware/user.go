package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/khademul4765/arther-hiseb-sub001/internal/errors"
	"github.com/khademul4765/arther-hiseb-sub001/internal/uuid"
)

// UserIDHeader carries the caller's user ID. Hiseb performs no
// authentication; a fronting proxy or the local client supplies the
// identity and every query is scoped to it.
const UserIDHeader = "X-User-ID"

const userIDKey = "userID"

// RequireUser returns a Gin middleware that extracts the user ID from the
// request header and aborts with 401 when it is missing or malformed.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(UserIDHeader)
		if userID == "" || !uuid.IsValid(userID) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    apperrors.ErrUnauthorized.Code,
					"message": apperrors.ErrUnauthorized.Message,
				},
			})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}
