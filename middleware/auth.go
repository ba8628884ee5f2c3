package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tutorhub/helpers"
	"tutorhub/models"
)

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// bearerToken extracts the credential from the Authorization header, or ""
// when the header is absent or not Bearer-scheme.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// resolveIdentity fails open to nil: absent, malformed, or expired tokens all
// yield an anonymous caller rather than an error.
func resolveIdentity(c *gin.Context, issuer *helpers.TokenIssuer) *helpers.Identity {
	token := bearerToken(c)
	if token == "" {
		return nil
	}
	identity, err := issuer.IdentityFromToken(token)
	if err != nil {
		return nil
	}
	return identity
}

// CurrentIdentity returns the identity attached by an auth middleware, or nil
// for anonymous callers.
func CurrentIdentity(c *gin.Context) *helpers.Identity {
	if v, ok := c.Get(CtxIdentity); ok {
		if id, ok := v.(*helpers.Identity); ok {
			return id
		}
	}
	return nil
}

// RequireRole gates a route on an exact role match. It short-circuits before
// the handler runs, so no persistence access happens for rejected requests.
func RequireRole(issuer *helpers.TokenIssuer, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if bearerToken(c) == "" {
			Fail(c, http.StatusUnauthorized, "Missing Authorization token")
			return
		}
		identity := resolveIdentity(c, issuer)
		if identity == nil {
			Fail(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if identity.Role != role {
			Fail(c, http.StatusForbidden, "Access denied. "+titleCase(role)+" role required.")
			return
		}
		c.Set(CtxIdentity, identity)
		c.Next()
	}
}

// RequireVerifiedStudent admits callers whose token carries the student role.
// The live verification flag is not re-checked here: tokens with role=student
// are only issued to verified accounts at login/refresh time.
func RequireVerifiedStudent(issuer *helpers.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if bearerToken(c) == "" {
			Fail(c, http.StatusUnauthorized, "Missing Authorization token")
			return
		}
		identity := resolveIdentity(c, issuer)
		if identity == nil {
			Fail(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if identity.Role != models.RoleStudent {
			Fail(c, http.StatusForbidden, "Student access required")
			return
		}
		c.Set(CtxIdentity, identity)
		c.Next()
	}
}

// RequireAuth admits any authenticated caller regardless of role.
func RequireAuth(issuer *helpers.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if bearerToken(c) == "" {
			Fail(c, http.StatusUnauthorized, "Missing Authorization token")
			return
		}
		identity := resolveIdentity(c, issuer)
		if identity == nil {
			Fail(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		c.Set(CtxIdentity, identity)
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present and never
// blocks.
func OptionalAuth(issuer *helpers.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity := resolveIdentity(c, issuer); identity != nil {
			c.Set(CtxIdentity, identity)
		}
		c.Next()
	}
}

// ActionLog logs a tagged action with the resolved (or anonymous) caller and
// the response status, before and after the handler runs.
func ActionLog(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := "anonymous"
		if identity := CurrentIdentity(c); identity != nil {
			userID = identity.UserID
		}
		requestID := c.GetString(CtxRequestID)

		log.Printf("User action: %s - User: %s - Request: %s", action, userID, requestID)

		c.Next()

		log.Printf("Action result: %s - User: %s - Status: %d - Request: %s",
			action, userID, c.Writer.Status(), requestID)
	}
}
