package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context keys shared across the middleware chain and controllers.
const (
	CtxRequestID   = "request_id"
	CtxStartTime   = "start_time"
	CtxIdentity    = "identity"
	CtxJSONData    = "json_data"
	CtxMaskedToken = "masked_token"
)

// Fail writes the uniform failure envelope and aborts the chain.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success":    false,
		"message":    message,
		"request_id": c.GetString(CtxRequestID),
	})
}

// Recovery returns a gin recovery handler that logs the full panic server-side
// and never leaks it to the caller.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Unhandled panic: %v - request=%s", recovered, c.GetString(CtxRequestID))
		Fail(c, http.StatusInternalServerError, "An unexpected error occurred")
	})
}

// NotFound is the router-level 404 handler, kept on-envelope like every other
// framework failure.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		Fail(c, http.StatusNotFound, "Resource not found")
	}
}
