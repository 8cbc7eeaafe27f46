package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MARUGO-s/app-sub001/internal/mealplan"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler turns errors attached with c.Error into JSON responses and
// recovers from panics in later handlers.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Error: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := StatusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("Error: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			c.JSON(status, ErrorResponse{Error: "Internal Server Error"})
			return
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
	}
}

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, mealplan.ErrMissingOwner):
		return http.StatusUnauthorized
	case errors.Is(err, mealplan.ErrInvalidMeal):
		return http.StatusBadRequest
	case errors.Is(err, mealplan.ErrMealNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
