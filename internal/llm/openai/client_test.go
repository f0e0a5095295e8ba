package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini"); err == nil {
		t.Errorf("NewClient accepted empty api key")
	}
	if _, err := NewClient("sk-test", "  "); err == nil {
		t.Errorf("NewClient accepted blank model")
	}
	if _, err := NewClient("sk-test", "gpt-4o-mini"); err != nil {
		t.Errorf("NewClient rejected valid inputs: %v", err)
	}
}

func TestCompleteSendsSingleUserMessage(t *testing.T) {
	oldURL := apiURL
	t.Cleanup(func() { apiURL = oldURL })

	var bodyMu sync.Mutex
	var lastBody map[string]any
	var lastAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		bodyMu.Lock()
		lastBody = payload
		lastAuth = r.Header.Get("Authorization")
		bodyMu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  {\"Sheet1\": []}  "}}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`))
	}))
	defer server.Close()
	apiURL = server.URL

	client, err := NewClient("sk-test", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	out, err := client.Complete(context.Background(), "make a table")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if out != `{"Sheet1": []}` {
		t.Errorf("output = %q, want trimmed content", out)
	}

	bodyMu.Lock()
	defer bodyMu.Unlock()
	if lastAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", lastAuth)
	}
	if lastBody["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v", lastBody["model"])
	}
	msgs, ok := lastBody["messages"].([]any)
	if !ok || len(msgs) != 1 {
		t.Fatalf("messages = %v, want one entry", lastBody["messages"])
	}
	msg := msgs[0].(map[string]any)
	if msg["role"] != "user" || msg["content"] != "make a table" {
		t.Errorf("message = %v", msg)
	}
	if temp, ok := lastBody["temperature"].(float64); !ok || temp != 0 {
		t.Errorf("temperature = %v, want 0", lastBody["temperature"])
	}
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	oldURL := apiURL
	t.Cleanup(func() { apiURL = oldURL })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit_error"}}`))
	}))
	defer server.Close()
	apiURL = server.URL

	client, err := NewClient("sk-test", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.Complete(context.Background(), "p")
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("err = %v, want the API error message", err)
	}
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	oldURL := apiURL
	t.Cleanup(func() { apiURL = oldURL })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()
	apiURL = server.URL

	client, err := NewClient("sk-test", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Complete(context.Background(), "p"); err == nil {
		t.Fatalf("Complete accepted response without choices")
	}
}
