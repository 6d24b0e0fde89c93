package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"easybuk_backend/internal/models"
	"easybuk_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roleRouter(role models.UserRole, allowed ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/guarded",
		func(c *gin.Context) { c.Set("role", role) },
		RequireRoles(allowed...),
		func(c *gin.Context) { c.String(http.StatusOK, "ok") },
	)
	return router
}

func TestRequireRolesAllowsListedRole(t *testing.T) {
	router := roleRouter(models.UserRoleAdmin, models.UserRoleAdmin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guarded", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesRejectsOtherRole(t *testing.T) {
	router := roleRouter(models.UserRoleClient, models.UserRoleAdmin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guarded", nil))

	require.Equal(t, http.StatusForbidden, rec.Code)

	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, apperrors.CodeForbidden, body.Error.Code)
}
