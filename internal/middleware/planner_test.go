package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gator-scheduler/schedule-api/pkg/config"
)

func plannerTestRouter(cfg config.AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(PlannerIdentity(cfg))
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextPlannerKey))
	})
	return router
}

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestPlannerIdentityFromBearerToken(t *testing.T) {
	router := plannerTestRouter(config.AuthConfig{Secret: "sekrit", Required: true})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "sekrit", "student-42"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "student-42", rec.Body.String())
}

func TestPlannerIdentityRejectsBadSignature(t *testing.T) {
	router := plannerTestRouter(config.AuthConfig{Secret: "sekrit", Required: true})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "wrong-secret", "student-42"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPlannerIdentityRequiredRejectsHeaderFallback(t *testing.T) {
	router := plannerTestRouter(config.AuthConfig{Secret: "sekrit", Required: true})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Planner-ID", "student-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPlannerIdentityHeaderFallback(t *testing.T) {
	router := plannerTestRouter(config.AuthConfig{Secret: "sekrit", Required: false})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Planner-ID", "student-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "student-42", rec.Body.String())
}

func TestPlannerIdentityMissingEntirely(t *testing.T) {
	router := plannerTestRouter(config.AuthConfig{Secret: "sekrit", Required: false})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
