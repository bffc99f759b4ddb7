package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOkMergesExtra(t *testing.T) {
	rec := httptest.NewRecorder()
	ok(rec, map[string]any{"message": "Order Placed", "count": 3})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	if body["message"] != "Order Placed" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestFailIsStill200(t *testing.T) {
	rec := httptest.NewRecorder()
	fail(rec, "Product not found")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success {
		t.Error("success = true, want false")
	}
	if body.Message != "Product not found" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestDecodeRejectsBadJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))

	var v map[string]any
	if decode(rec, req, &v) {
		t.Fatal("decode accepted malformed json")
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&limit=abc", nil)
	if got := queryInt(req, "page", 1); got != 3 {
		t.Errorf("page = %d, want 3", got)
	}
	if got := queryInt(req, "limit", 20); got != 20 {
		t.Errorf("limit fallback = %d, want 20", got)
	}
	if got := queryInt(req, "missing", 7); got != 7 {
		t.Errorf("missing fallback = %d, want 7", got)
	}
}
