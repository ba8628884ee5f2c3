package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func limiterTestRouter(limiter *RateLimiter, max int, window time.Duration) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/limited", limiter.Limit("test", max, window), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func TestRateLimiterInMemory(t *testing.T) {
	limiter := NewRateLimiter(nil)
	r := limiterTestRouter(limiter, 3, time.Minute)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d blocked: status = %d", i+1, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("request over quota: status = %d, want 429", w.Code)
	}
	if msg := decodeEnvelope(t, w)["message"]; msg != "Rate limit exceeded. Please try again later." {
		t.Errorf("message = %q", msg)
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	limiter := NewRateLimiter(nil)
	r := limiterTestRouter(limiter, 1, 20*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first request blocked: status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/limited", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request in window: status = %d, want 429", w.Code)
	}

	time.Sleep(30 * time.Millisecond)

	req = httptest.NewRequest(http.MethodGet, "/limited", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("request after window reset blocked: status = %d", w.Code)
	}
}

func TestRateLimiterSeparateRoutes(t *testing.T) {
	limiter := NewRateLimiter(nil)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/a", limiter.Limit("route_a", 1, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.GET("/b", limiter.Limit("route_b", 1, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/a", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("/a blocked: status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/b", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("/b shares /a quota: status = %d", w.Code)
	}
}
