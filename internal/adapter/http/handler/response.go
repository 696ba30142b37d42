package handler

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON body of every error response. Only Error is always present.
type ErrorBody struct {
	Error         string `json:"error"`
	Field         string `json:"field,omitempty"`
	MaxLength     int    `json:"maxLength,omitempty"`
	CurrentLength int    `json:"currentLength,omitempty"`
	Message       string `json:"message,omitempty"`
	Stack         string `json:"stack,omitempty"`
}

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

func respondError(c *gin.Context, status int, body ErrorBody) {
	c.AbortWithStatusJSON(status, body)
}
