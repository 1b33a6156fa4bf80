package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g := NewGemini("test-key", "gemini-test")
	g.baseURL = srv.URL
	return g
}

func TestGeminiGenerate(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1beta/models/gemini-test:generateContent" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("Expected API key header, got %q", r.Header.Get("x-goog-api-key"))
		}
		if r.URL.RawQuery != "" {
			t.Errorf("Expected no query string, got %q", r.URL.RawQuery)
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Contents[0].Parts[0].Text != "hello" {
			t.Errorf("Unexpected body %+v (%v)", req, err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hap"},{"text":"py"}]}}]}`))
	})

	text, err := g.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "Happy" {
		t.Errorf("Expected joined parts, got %q", text)
	}
}

func TestGeminiErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"non-2xx", http.StatusTooManyRequests, `{"error":"quota"}`, "status 429"},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, ErrEmptyResponse.Error()},
		{"bad json", http.StatusOK, `not json`, "decode response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := g.Generate(context.Background(), "x")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGeminiHonoursContext(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Generate(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestGatewayTimeoutDoesNotLogAPIKey(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	g := NewGemini("SUPERSECRETKEY", "gemini-test")
	g.baseURL = srv.URL

	res := NewGateway(g, 50*time.Millisecond).AnalyzeMood(context.Background(), "t", "c")
	if res.Confidence != ConfidenceFallback {
		t.Fatalf("Expected fallback result, got %+v", res)
	}
	if !strings.Contains(logs.String(), "reason=timeout") {
		t.Errorf("Expected timeout to be logged, got %q", logs.String())
	}
	if strings.Contains(logs.String(), "SUPERSECRETKEY") {
		t.Errorf("API key leaked into logs: %q", logs.String())
	}
}
