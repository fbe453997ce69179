package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/docuvault/redactsvc/internal/core/domain"
)

func TestClassifyListsConfiguredTypesInPrompt(t *testing.T) {
	var capturedPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		capturedPrompt, _ = payload["prompt"].(string)
		_, _ = w.Write([]byte(`{"response":"{\"doc_type\":\"Tax Form\",\"sub_type\":\"W-2\",\"confidence\":0.92,\"summary\":\"wage statement\"}"}`))
	}))
	defer server.Close()

	classifier := NewClassifier(New(server.URL, "llama3.1:8b", nil))
	choices := []domain.DocTypeProfile{
		{Name: "Tax Form", SubTypes: []domain.SubTypeRule{{Name: "W-2"}, {Name: "1099"}}},
		{Name: "Invoice", Description: "vendor invoices"},
	}

	cls, err := classifier.Classify(context.Background(), "Wages, tips, other compensation", choices)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if cls.DocType != "Tax Form" || cls.SubType != "W-2" || cls.Confidence != 0.92 {
		t.Fatalf("unexpected classification: %+v", cls)
	}
	for _, want := range []string{"Tax Form", "W-2, 1099", "Invoice", "vendor invoices"} {
		if !strings.Contains(capturedPrompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, capturedPrompt)
		}
	}
}

func TestClassifyUnwrapsFencedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":"Here you go:\n{\"doc_type\":\"Invoice\",\"sub_type\":\"\",\"confidence\":1.7,\"summary\":\"s\"}\nDone."}`))
	}))
	defer server.Close()

	classifier := NewClassifier(New(server.URL, "m", nil))
	cls, err := classifier.Classify(context.Background(), "text", nil)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if cls.DocType != "Invoice" {
		t.Fatalf("unexpected classification: %+v", cls)
	}
	if cls.Confidence != 1 {
		t.Fatalf("confidence must be clamped to [0,1], got %f", cls.Confidence)
	}
}

func TestClassifyIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	classifier := NewClassifier(New(server.URL, "m", nil))
	_, err := classifier.Classify(context.Background(), "text", nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Fatalf("expected response body in error, got %v", err)
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("502 should be temporary, got %v", err)
	}
}
