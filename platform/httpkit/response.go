// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"findbin_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// Every response carries a status marker so clients can branch on a single
// field regardless of HTTP code.
const (
	statusSuccess = "success"
	statusFailure = "failure"
)

// Success sends a success envelope with the given HTTP status. The payload
// keys are merged alongside the status marker.
func Success(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"status": statusSuccess}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// OK sends a 200 success envelope.
func OK(c *gin.Context, payload gin.H) {
	Success(c, http.StatusOK, payload)
}

// Created sends a 201 success envelope.
func Created(c *gin.Context, payload gin.H) {
	Success(c, http.StatusCreated, payload)
}

// Error sends a failure envelope with the given status code and message.
func Error(c *gin.Context, status int, message string, details interface{}) {
	body := gin.H{"status": statusFailure, "message": message}
	if details != nil {
		body["details"] = details
	}
	c.JSON(status, body)
}

// HandleError maps domain errors to HTTP responses.
// Typed *apperr.Error values use their Kind for the status code and carry
// their own caller-safe message. Anything else is an unexpected internal
// failure: the response is a generic 500 and the underlying detail is never
// sent to the caller.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if domainErr, ok := err.(*apperr.Error); ok {
		body := gin.H{"status": statusFailure, "message": domainErr.Message}
		if domainErr.Details != nil {
			body["details"] = domainErr.Details
		}
		c.JSON(domainErr.HTTPStatus(), body)
		return true
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"status":  statusFailure,
		"message": "internal error",
	})
	return true
}
