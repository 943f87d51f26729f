package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ecoscope/siagatani/internal/domain/account"
	apperrors "github.com/ecoscope/siagatani/pkg/errors"
)

func authMiddleware(svc account.Service) gin.HandlerFunc {
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
			if !apperrors.IsCode(err, "invalid_token") {
				abortWithError(c, NewHTTPError(http.StatusInternalServerError, "auth_failed", apperrors.MessageOf(err), err))
				return
			}
			abortWithDomainError(c, err)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// adminMiddleware must run after authMiddleware.
func adminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := getClaims(c)
		if !ok || claims.Role != account.RoleAdmin {
			abortWithError(c, NewHTTPError(http.StatusForbidden, "forbidden", "admin access required", nil))
			return
		}
		c.Next()
	}
}
