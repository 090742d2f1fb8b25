// Package response defines the JSON envelope shared by all HTTP handlers.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the common response envelope.
type Body struct {
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Data: data})
}

// Created writes a 201 with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Data: data})
}

// ErrorWithStatus writes an error message with the given HTTP status.
func ErrorWithStatus(c *gin.Context, status int, message, code string) {
	c.JSON(status, Body{Code: code, Message: message})
}

// FieldErrors writes a 400 with per-field validation messages.
func FieldErrors(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"message": "validation failed",
		"fields":  fields,
	})
}
