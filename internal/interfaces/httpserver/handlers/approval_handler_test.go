package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tutor-server/chat-api/internal/infrastructure/approvalstore"
	"tutor-server/chat-api/internal/interfaces/httpserver/handlers"
)

func setupApprovalTestRouter(handler *handlers.ApprovalHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	{
		api.POST("/approval", handler.Decide)
		api.GET("/approval", handler.Status)
		api.GET("/approval/pending", handler.Pending)
	}
	return r
}

func TestApprovalHandler_DecideAndStatus(t *testing.T) {
	store := approvalstore.NewMemory(time.Hour)
	pending := approvalstore.NewPending()
	pending.Add("appr-1")

	handler := handlers.NewApprovalHandler(store, pending, zerolog.Nop())
	router := setupApprovalTestRouter(handler)

	// No decision yet: approved is null.
	req, _ := http.NewRequest("GET", "/api/approval?approvalId=appr-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var status struct {
		Approved *bool `json:"approved"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if status.Approved != nil {
		t.Errorf("approved should be null before a decision, got %v", *status.Approved)
	}

	// Post the decision.
	req, _ = http.NewRequest("POST", "/api/approval", strings.NewReader(`{"approvalId":"appr-1","approved":true}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	if approved, ok := store.Get("appr-1"); !ok || !approved {
		t.Error("decision not stored")
	}
	if len(pending.List()) != 0 {
		t.Errorf("pending list should be empty, got %v", pending.List())
	}

	// Status now reports the decision.
	req, _ = http.NewRequest("GET", "/api/approval?approvalId=appr-1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if status.Approved == nil || !*status.Approved {
		t.Errorf("approved = %v", status.Approved)
	}
}

func TestApprovalHandler_StatusRequiresID(t *testing.T) {
	handler := handlers.NewApprovalHandler(approvalstore.NewMemory(time.Hour), approvalstore.NewPending(), zerolog.Nop())
	router := setupApprovalTestRouter(handler)

	req, _ := http.NewRequest("GET", "/api/approval", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestApprovalHandler_PendingList(t *testing.T) {
	pending := approvalstore.NewPending()
	pending.Add("appr-1")
	pending.Add("appr-2")

	handler := handlers.NewApprovalHandler(approvalstore.NewMemory(time.Hour), pending, zerolog.Nop())
	router := setupApprovalTestRouter(handler)

	req, _ := http.NewRequest("GET", "/api/approval/pending", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp struct {
		Pending []string `json:"pending"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Pending) != 2 || resp.Pending[0] != "appr-1" {
		t.Errorf("pending = %v", resp.Pending)
	}
}
