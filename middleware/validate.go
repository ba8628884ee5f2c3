package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ValidateJSON parses the request body as a JSON object and checks that every
// required field is present, naming all missing fields in one message. Clients
// with missing or imprecise Content-Type headers are tolerated by parsing the
// raw body directly. The parsed map is stored in the context unchanged; no
// type coercion happens here.
func ValidateJSON(requiredFields ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			raw = nil
		}
		// Restore the body so handlers that bind structs still can.
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))

		var data map[string]interface{}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &data); err != nil {
				data = nil
			}
		}

		if data == nil {
			log.Printf("Invalid JSON request: path=%s content-type=%q body=%s",
				c.Request.URL.Path, c.GetHeader("Content-Type"), string(raw))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success":      false,
				"message":      "Invalid or missing JSON data",
				"hint":         "Ensure Content-Type: application/json and a valid JSON body",
				"request_id":   c.GetString(CtxRequestID),
				"request_path": c.Request.URL.Path,
			})
			return
		}

		var missing []string
		for _, field := range requiredFields {
			if _, ok := data[field]; !ok {
				missing = append(missing, field)
			}
		}
		if len(missing) > 0 {
			Fail(c, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing, ", "))
			return
		}

		c.Set(CtxJSONData, data)
		c.Next()
	}
}

// JSONData returns the map stored by ValidateJSON.
func JSONData(c *gin.Context) map[string]interface{} {
	if v, ok := c.Get(CtxJSONData); ok {
		if data, ok := v.(map[string]interface{}); ok {
			return data
		}
	}
	return map[string]interface{}{}
}
