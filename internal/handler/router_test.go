package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"collabboard/internal/app/board"
	"collabboard/internal/configs"
)

func testDeps() *AppDeps {
	registry := board.NewRegistry(16)
	return &AppDeps{
		Coordinator: board.NewCoordinator(registry, nil, nil),
		Config: &configs.AppConfig{
			Environment:  "development",
			Port:         8080,
			HistoryLimit: 16,
			JWTSecret:    testSecret,
		},
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := Router(testDeps())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Code int `json:"code"`
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("health body is not JSON: %v", err)
	}
	if body.Code != 0 || body.Data.Status != "ok" {
		t.Errorf("health body = %s", w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := Router(testDeps())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.Len() == 0 {
		t.Error("metrics body is empty")
	}
}

func TestWebSocketRequiresIdentity(t *testing.T) {
	router := Router(testDeps())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ws", nil))

	var body struct {
		Code int `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body.Code == 0 {
		t.Error("identity-less WebSocket request was not rejected")
	}
}
