package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/docmindhq/docmind/internal/infrastructure/llm"
)

func TestGenerateSendsChatCompletionEnvelope(t *testing.T) {
	var captured map[string]any
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		authHeader = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"summary\":\"ok\"}"}}]}`))
	}))
	defer server.Close()

	client := New("sk-test", "gpt-4o-mini", Options{BaseURL: server.URL})
	got, err := client.Generate(context.Background(), "analyze this")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != `{"summary":"ok"}` {
		t.Fatalf("unexpected response: %q", got)
	}
	if authHeader != "Bearer sk-test" {
		t.Fatalf("unexpected auth header: %q", authHeader)
	}
	messages, ok := captured["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("expected system+user messages, got %v", captured["messages"])
	}
	first, _ := messages[0].(map[string]any)
	second, _ := messages[1].(map[string]any)
	if first["role"] != "system" || second["role"] != "user" {
		t.Fatalf("unexpected message roles: %v", messages)
	}
	if second["content"] != "analyze this" {
		t.Fatalf("unexpected user content: %v", second["content"])
	}
	if _, ok := captured["max_tokens"]; !ok {
		t.Fatalf("expected max_tokens in request")
	}
}

func TestGenerateFailsOnEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := New("sk-test", "gpt-4o-mini", Options{BaseURL: server.URL})
	_, err := client.Generate(context.Background(), "prompt")
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Fatalf("expected no-choices error, got %v", err)
	}
}

func TestGenerateReturnsStatusErrorOnUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := New("sk-bad", "gpt-4o-mini", Options{BaseURL: server.URL})
	_, err := client.Generate(context.Background(), "prompt")
	var statusErr *llm.HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected HTTPStatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", statusErr.StatusCode)
	}
}
