package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Xtown-XT/va-erp-sub000/pkg/response"
)

// MustGetUserID reads the user_id JWTAuth put on the context.
// On false a 401 has already been written and the caller should return.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	return s, true
}
