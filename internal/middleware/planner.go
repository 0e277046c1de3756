package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/gator-scheduler/schedule-api/pkg/config"
	appErrors "github.com/gator-scheduler/schedule-api/pkg/errors"
	"github.com/gator-scheduler/schedule-api/pkg/response"
)

// ContextPlannerKey is where the resolved planner identity lives on the
// gin context.
const ContextPlannerKey = "plannerID"

// PlannerIdentity resolves which planner's stores a request operates on.
// A bearer token's subject claim wins; when auth is not required the
// X-Planner-ID header is accepted instead. Requests with no resolvable
// identity are rejected, since every store is planner-scoped.
func PlannerIdentity(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			subject, err := subjectFromToken(strings.TrimPrefix(header, "Bearer "), cfg.Secret)
			if err != nil {
				response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token"))
				c.Abort()
				return
			}
			c.Set(ContextPlannerKey, subject)
			c.Next()
			return
		}

		if cfg.Required {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing bearer token"))
			c.Abort()
			return
		}

		if plannerID := strings.TrimSpace(c.GetHeader("X-Planner-ID")); plannerID != "" {
			c.Set(ContextPlannerKey, plannerID)
			c.Next()
			return
		}

		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "no planner identity provided"))
		c.Abort()
	}
}

func subjectFromToken(raw, secret string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("token invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims type")
	}
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return subject, nil
}
