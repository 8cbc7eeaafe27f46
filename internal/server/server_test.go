package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MARUGO-s/app-sub001/config"
	"github.com/MARUGO-s/app-sub001/internal/service"
	"github.com/MARUGO-s/app-sub001/internal/testhelpers"
)

func TestNew(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupSQLiteDatabase(t)

	cfg := &config.Config{
		ServerHost: "localhost",
		ServerPort: "8080",
		JWTSecret:  "test-secret",
	}

	srv, err := New(context.Background(), cfg, db, nil)
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", srv.http.Addr)

	// Health check is public
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// API routes need a token
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/meal-plans", nil)
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := service.NewTokenService("test-secret").GenerateToken("user-1", "chef")
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/meal-plans", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"plans":{},"warnings":[]}`, w.Body.String())

	// Without a bucket the price sheet routes report it
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/price-sheet/upload-url", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
