package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewGeminiClientRequiresKeyAndModel(t *testing.T) {
	if _, err := NewGeminiClient("", "gemini-2.5-flash", "", time.Second); err == nil {
		t.Fatalf("expected missing key to be rejected")
	}
	if _, err := NewGeminiClient("key", "", "", time.Second); err == nil {
		t.Fatalf("expected missing model to be rejected")
	}
}

func TestGeminiGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/test-model:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("api key must not travel in the query: %s", r.URL.RawQuery)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "say hi" {
			t.Errorf("unexpected request %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hi "},{"text":"there"}]}}]}`))
	}))
	defer srv.Close()

	g, err := NewGeminiClient("test-key", "test-model", srv.URL+"/v1beta/", time.Second)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	out, err := g.Generate(context.Background(), "say hi")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "hi there" {
		t.Fatalf("unexpected completion %q", out)
	}
}

func TestGeminiErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"api error", http.StatusForbidden, `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`,
			func(err error) bool { return err != nil && strings.Contains(err.Error(), "API key not valid") }},
		{"blocked", http.StatusOK, `{"candidates":[{"content":{"parts":[]},"finishReason":"SAFETY"}]}`,
			func(err error) bool { return errors.Is(err, ErrEmptyCompletion) }},
		{"garbage", http.StatusBadGateway, `<html>bad gateway</html>`,
			func(err error) bool { return err != nil && strings.Contains(err.Error(), "502") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			g, err := NewGeminiClient("k", "m", srv.URL, time.Second)
			if err != nil {
				t.Fatalf("client: %v", err)
			}
			if _, err := g.Generate(context.Background(), "p"); !tc.check(err) {
				t.Fatalf("unexpected error %v", err)
			}
		})
	}
}
