package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"tutorhub/helpers"
)

// RequestID mints a correlation id and start timestamp for every request,
// stamps the id on the response header, and emits one log line per request on
// the way out. A masked rendering of the Authorization header is attached for
// diagnostics; the raw value is never stored.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := helpers.GenerateRequestID()
		start := time.Now()

		c.Set(CtxRequestID, requestID)
		c.Set(CtxStartTime, start)

		if auth := c.GetHeader("Authorization"); auth != "" {
			c.Set(CtxMaskedToken, helpers.MaskToken(auth))
		}

		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		duration := time.Since(start)
		log.Printf("%s %s - %d - %.3fs - %s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), duration.Seconds(), requestID)
	}
}
