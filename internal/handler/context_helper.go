package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/planwise/planwise-api/internal/middleware"
	"github.com/planwise/planwise-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func ownerFromContext(c *gin.Context) (int64, bool) {
	claims := claimsFromContext(c)
	if claims == nil || claims.UserID <= 0 {
		return 0, false
	}
	return claims.UserID, true
}

// parseTimeParam accepts RFC 3339 timestamps and the shorter
// "2006-01-02T15:04" form used by datetime-local inputs.
func parseTimeParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04", raw)
}
