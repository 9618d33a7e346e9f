package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the standard JSON envelope returned by every endpoint
type APIResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message" example:"Operation completed successfully"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SuccessResponse writes a 200 response with data
func SuccessResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// BadRequestResponse writes a 400 response
func BadRequestResponse(c *gin.Context, message string, err error) {
	errorResponse(c, http.StatusBadRequest, message, err)
}

// NotFoundResponse writes a 404 response
func NotFoundResponse(c *gin.Context, message string, err error) {
	errorResponse(c, http.StatusNotFound, message, err)
}

// InternalServerErrorResponse writes a 500 response
func InternalServerErrorResponse(c *gin.Context, message string, err error) {
	errorResponse(c, http.StatusInternalServerError, message, err)
}

func errorResponse(c *gin.Context, status int, message string, err error) {
	resp := APIResponse{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.AbortWithStatusJSON(status, resp)
}
