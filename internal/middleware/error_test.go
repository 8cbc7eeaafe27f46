package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/MARUGO-s/app-sub001/internal/mealplan"
)

func serveWithError(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/", handler)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(rr, req)
	return rr
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"missing owner", mealplan.ErrMissingOwner, http.StatusUnauthorized, `{"error":"mealplan: owner id is required"}`},
		{"invalid meal", fmt.Errorf("add: %w", mealplan.ErrInvalidMeal), http.StatusBadRequest, `{"error":"add: mealplan: a valid date and recipe id are required"}`},
		{"meal not found", mealplan.ErrMealNotFound, http.StatusNotFound, `{"error":"mealplan: meal not found"}`},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError, `{"error":"Internal Server Error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveWithError(func(c *gin.Context) { _ = c.Error(tt.err) })
			assert.Equal(t, tt.wantCode, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
		})
	}
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	rr := serveWithError(func(c *gin.Context) { panic("boom") })
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rr.Body.String())
}

func TestErrorHandlerKeepsWrittenResponses(t *testing.T) {
	rr := serveWithError(func(c *gin.Context) {
		c.JSON(http.StatusConflict, gin.H{"error": "already handled"})
		_ = c.Error(errors.New("logged only"))
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.JSONEq(t, `{"error":"already handled"}`, rr.Body.String())
}
