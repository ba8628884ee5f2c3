package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tutorhub/helpers"
	"tutorhub/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func aiTestContext(t *testing.T, body map[string]interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/ai/chat", nil)
	c.Set(middleware.CtxIdentity, &helpers.Identity{
		UserID: primitive.NewObjectID().Hex(),
		Email:  "s@school.edu",
		Role:   "student",
	})
	c.Set(middleware.CtxJSONData, body)
	return c, w
}

func TestChatRejectsWhenAIUnconfigured(t *testing.T) {
	ac := &AIController{AI: nil}

	c, w := aiTestContext(t, map[string]interface{}{"message": "explain calculus"})
	ac.Chat()(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["message"] != "AI service temporarily unavailable" {
		t.Errorf("message = %q", body["message"])
	}
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
}

func TestSummarizeRejectsWhenAIUnconfigured(t *testing.T) {
	ac := &AIController{AI: nil}

	c, w := aiTestContext(t, map[string]interface{}{"chat_id": primitive.NewObjectID().Hex()})
	ac.Summarize()(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestQuizRejectsWhenAIUnconfigured(t *testing.T) {
	ac := &AIController{AI: nil}

	c, w := aiTestContext(t, map[string]interface{}{"chat_id": primitive.NewObjectID().Hex()})
	ac.Quiz()(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
