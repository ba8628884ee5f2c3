package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"tutorhub/helpers"
	"tutorhub/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authTestRouter(issuer *helpers.TokenIssuer, gate gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/protected", gate, func(c *gin.Context) {
		identity := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"success": true, "user_id": identity.UserID})
	})
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return body
}

func TestRequireAuthMissingToken(t *testing.T) {
	issuer := helpers.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	r := authTestRouter(issuer, RequireAuth(issuer))

	w := doRequest(r, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	body := decodeEnvelope(t, w)
	if body["message"] != "Missing Authorization token" {
		t.Errorf("message = %q", body["message"])
	}
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if body["request_id"] == "" || body["request_id"] == nil {
		t.Error("request_id missing from envelope")
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	issuer := helpers.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	r := authTestRouter(issuer, RequireAuth(issuer))

	w := doRequest(r, "not-a-jwt")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	body := decodeEnvelope(t, w)
	if body["message"] != "Invalid or expired token" {
		t.Errorf("message = %q", body["message"])
	}
}

func TestRequireAuthRejectsNonBearerSchemes(t *testing.T) {
	issuer := helpers.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	r := authTestRouter(issuer, RequireAuth(issuer))

	access, _, err := issuer.GenerateTokens("user-1", "s@school.edu", models.RoleStudent)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	// Glued scheme and raw token both lack the "Bearer " prefix.
	for _, header := range []string{"Bearer" + access, access, "Basic " + access} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, w.Code)
			continue
		}
		if msg := decodeEnvelope(t, w)["message"]; msg != "Missing Authorization token" {
			t.Errorf("header %q: message = %q", header, msg)
		}
	}
}

func TestRequireRoleMismatch(t *testing.T) {
	issuer := helpers.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	r := authTestRouter(issuer, RequireRole(issuer, models.RoleAdmin))

	access, _, err := issuer.GenerateTokens("user-1", "s@school.edu", models.RoleStudent)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	w := doRequest(r, access)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	body := decodeEnvelope(t, w)
	if body["message"] != "Access denied. Admin role required." {
		t.Errorf("message = %q", body["message"])
	}
}

func TestRequireVerifiedStudent(t *testing.T) {
	issuer := helpers.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	r := authTestRouter(issuer, RequireVerifiedStudent(issuer))

	access, _, err := issuer.GenerateTokens("user-1", "s@school.edu", models.RoleStudent)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	w := doRequest(r, access)
	if w.Code != http.StatusOK {
		t.Fatalf("student token rejected: status = %d", w.Code)
	}
	body := decodeEnvelope(t, w)
	if body["user_id"] != "user-1" {
		t.Errorf("user_id = %v", body["user_id"])
	}

	adminAccess, _, err := issuer.GenerateTokens("admin-1", "a@school.edu", models.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	w = doRequest(r, adminAccess)
	if w.Code != http.StatusForbidden {
		t.Fatalf("admin on student route: status = %d, want 403", w.Code)
	}
	if msg := decodeEnvelope(t, w)["message"]; msg != "Student access required" {
		t.Errorf("message = %q", msg)
	}
}

func TestOptionalAuth(t *testing.T) {
	issuer := helpers.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/open", OptionalAuth(issuer), func(c *gin.Context) {
		if identity := CurrentIdentity(c); identity != nil {
			c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": nil})
	})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("anonymous caller blocked: status = %d", w.Code)
	}

	access, _, err := issuer.GenerateTokens("user-7", "s@school.edu", models.RoleStudent)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if body := decodeEnvelope(t, w); body["user_id"] != "user-7" {
		t.Errorf("user_id = %v, want user-7", body["user_id"])
	}
}

func TestRequestIDHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}
}
