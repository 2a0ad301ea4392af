package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/natal-chart/internal/domain/auth"
)

func authMiddleware(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing authorization header", nil))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid authorization header", nil))
			return
		}
		token := strings.TrimSpace(parts[1])
		claims, err := svc.ValidateToken(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, err)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// ownerMiddleware authenticates profile routes when auth is enabled and
// otherwise attributes every request to the anonymous owner.
func ownerMiddleware(svc auth.Service) gin.HandlerFunc {
	if svc != nil && svc.Enabled() {
		return authMiddleware(svc)
	}
	return func(c *gin.Context) {
		setClaims(c, auth.Claims{Subject: auth.AnonymousOwner})
		c.Next()
	}
}
