package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"rusunawa-recon-svc/pkg/utils"
)

// ErrorHandler turns panics into a 500 envelope instead of a dropped connection
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				utils.InternalServerErrorResponse(c, "Internal server error", fmt.Errorf("%v", r))
			}
		}()
		c.Next()
	}
}

// NoRouteHandler answers unknown paths with the standard envelope
func NoRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.NotFoundResponse(c, "Route not found", fmt.Errorf("%s %s", c.Request.Method, c.Request.URL.Path))
	}
}

// NoMethodHandler answers unsupported methods with the standard envelope
func NoMethodHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, utils.APIResponse{
			Success: false,
			Message: "Method not allowed",
		})
	}
}
