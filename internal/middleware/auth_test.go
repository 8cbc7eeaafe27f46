package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/MARUGO-s/app-sub001/internal/mocks"
	"github.com/MARUGO-s/app-sub001/internal/types"
)

func authRouter(validator TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware(validator))
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, OwnerID(c))
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	validator := new(mocks.MockTokenValidator)
	validator.On("ValidateToken", "good").Return(&types.TokenClaims{UserID: "user-1"}, nil)
	validator.On("ValidateToken", "legacy").Return(&types.TokenClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-2"}}, nil)
	validator.On("ValidateToken", "bad").Return(nil, errors.New("token is expired"))

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"valid token", "Bearer good", http.StatusOK, "user-1"},
		{"subject only", "Bearer legacy", http.StatusOK, "user-2"},
		{"missing header", "", http.StatusUnauthorized, `{"error":"missing authorization header"}`},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, `{"error":"invalid authorization header format"}`},
		{"rejected token", "Bearer bad", http.StatusUnauthorized, `{"error":"token is expired"}`},
	}

	router := authRouter(validator)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.wantBody, rr.Body.String())
		})
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS([]string{"https://plans.example.com"}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://plans.example.com")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://plans.example.com", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
