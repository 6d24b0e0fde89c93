package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"easybuk_backend/internal/models"
	"easybuk_backend/internal/repositories"
	"easybuk_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryContext(t *testing.T, rawQuery string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/bookings?"+rawQuery, nil)
	return c, rec
}

func TestBindAndValidateQueryBindsCriteria(t *testing.T) {
	h := NewBaseHandler(validator.New())
	c, _ := queryContext(t, "status=confirmed&category=plumbing&page=3")

	var criteria repositories.BookingCriteria
	require.True(t, h.BindAndValidateQuery(c, &criteria))
	assert.Equal(t, models.BookingStatusConfirmed, criteria.Status)
	assert.Equal(t, "plumbing", criteria.Category)
	assert.Equal(t, 3, criteria.Page)
}

func TestBindAndValidateQueryRejectsMalformedDate(t *testing.T) {
	h := NewBaseHandler(validator.New())
	c, rec := queryContext(t, "date_from=yesterday")

	var criteria repositories.BookingCriteria
	require.False(t, h.BindAndValidateQuery(c, &criteria))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
