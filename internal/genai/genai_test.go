// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hanguk-labs/local-guide/pkg/types"
)

func testGenAIConfig() types.GenAIConfig {
	return types.GenAIConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second},
		APIKey:     "test-key",
		Model:      "test-model",
		Resilience: types.ResilienceConfig{
			FailureThreshold: 3,
			RecoveryTimeout:  50 * time.Millisecond,
			MaxRetries:       0,
			BaseDelay:        time.Millisecond,
			BackoffFactor:    2.0,
		},
	}
}

func genAITestServer(statusCode int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprint(w, body)
	}))
}

func TestGenerate(t *testing.T) {
	ts := genAITestServer(http.StatusOK, `{
	  "candidates": [{"content": {"parts": [{"text": "Try Gwangjang Market for bindaetteok."}]}}]
	}`)
	defer ts.Close()

	old := genAIBase
	genAIBase = ts.URL
	defer func() { genAIBase = old }()

	c := NewClient(testGenAIConfig(), zerolog.Nop())
	text, err := c.Generate(context.Background(), "recommend korean street food")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(text, "Gwangjang") {
		t.Errorf("text = %q", text)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{}`},
		{"empty candidates", http.StatusOK, `{"candidates": []}`},
		{"blank text", http.StatusOK, `{"candidates": [{"content": {"parts": [{"text": "  "}]}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := genAITestServer(tt.status, tt.body)
			defer ts.Close()

			old := genAIBase
			genAIBase = ts.URL
			defer func() { genAIBase = old }()

			c := NewClient(testGenAIConfig(), zerolog.Nop())
			if _, err := c.Generate(context.Background(), "prompt"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestGenerateWithoutAPIKey(t *testing.T) {
	cfg := testGenAIConfig()
	cfg.APIKey = ""
	c := NewClient(cfg, zerolog.Nop())
	if _, err := c.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error when API key missing")
	}
}

func TestExtractIntent(t *testing.T) {
	ts := genAITestServer(http.StatusOK, `{
	  "candidates": [{"content": {"parts": [{"text": "ENTITY: bibimbap\nTYPE: food\nINTENT: find a restaurant\nKOREAN_RELATED: yes"}]}}]
	}`)
	defer ts.Close()

	old := genAIBase
	genAIBase = ts.URL
	defer func() { genAIBase = old }()

	c := NewClient(testGenAIConfig(), zerolog.Nop())
	intent, err := c.ExtractIntent(context.Background(), "where can I eat bibimbap")
	if err != nil {
		t.Fatalf("ExtractIntent: %v", err)
	}
	if intent.Entity != "bibimbap" || intent.Type != "food" || !intent.KoreanRelated {
		t.Errorf("intent = %+v", intent)
	}
}

func TestExtractIntentFallsBackOnError(t *testing.T) {
	ts := genAITestServer(http.StatusServiceUnavailable, `{}`)
	defer ts.Close()

	old := genAIBase
	genAIBase = ts.URL
	defer func() { genAIBase = old }()

	c := NewClient(testGenAIConfig(), zerolog.Nop())
	intent, err := c.ExtractIntent(context.Background(), "korean bbq near hongdae")
	if err != nil {
		t.Fatalf("ExtractIntent must not fail: %v", err)
	}
	if intent.Type != "food" || !intent.KoreanRelated {
		t.Errorf("fallback intent = %+v", intent)
	}
}

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  Intent
		found bool
	}{
		{
			name:  "well formed",
			text:  "ENTITY: Hongdae\nTYPE: place\nINTENT: nightlife ideas\nKOREAN_RELATED: yes",
			want:  Intent{Entity: "Hongdae", Type: "place", Intent: "nightlife ideas", KoreanRelated: true},
			found: true,
		},
		{
			name:  "extra prose around fields",
			text:  "Here is my analysis:\nENTITY: kimchi\nTYPE: food\nThat is all.",
			want:  Intent{Entity: "kimchi", Type: "food"},
			found: true,
		},
		{
			name:  "no fields",
			text:  "I cannot help with that.",
			found: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := parseIntent(tt.text)
			if found != tt.found {
				t.Fatalf("found = %v, want %v", found, tt.found)
			}
			if found && got != tt.want {
				t.Errorf("intent = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFallbackIntent(t *testing.T) {
	tests := []struct {
		query    string
		wantType string
		korean   bool
	}{
		{"where should I eat tonight", "food", false},
		{"korean dramas to watch", "media", true},
		{"what to do in seoul", "activity", true},
		{"recommendations", "general", false},
	}
	for _, tt := range tests {
		got := FallbackIntent(tt.query)
		if got.Type != tt.wantType {
			t.Errorf("FallbackIntent(%q).Type = %q, want %q", tt.query, got.Type, tt.wantType)
		}
		if got.KoreanRelated != tt.korean {
			t.Errorf("FallbackIntent(%q).KoreanRelated = %v, want %v", tt.query, got.KoreanRelated, tt.korean)
		}
	}
}
