// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package genai wraps the generative-text API used for response writing and
// query intent analysis. The client runs behind its own resilience wrapper;
// callers treat any error as "compose it yourself" and fall through to
// template rendering, so a model outage never breaks a recommendation.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hanguk-labs/local-guide/internal/resilience"
	"github.com/hanguk-labs/local-guide/pkg/types"
)

// genAIBase is the generative-language API root. Package-level var for test
// substitution.
var genAIBase = "https://generativelanguage.googleapis.com/v1beta"

// Generator produces free text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client calls the generative-language API.
type Client struct {
	client  *http.Client
	cfg     types.GenAIConfig
	wrapper *resilience.Wrapper
	log     zerolog.Logger
}

// NewClient builds the client with its own resilience wrapper.
func NewClient(cfg types.GenAIConfig, log zerolog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		wrapper: resilience.New("genai", cfg.Resilience, log),
		log:     log.With().Str("source", "genai").Logger(),
	}
}

// Name returns the service identifier.
func (c *Client) Name() string { return "genai" }

// Status reports the client's circuit state.
func (c *Client) Status() types.ServiceStatus { return c.wrapper.Status() }

// genAIRequest is the generateContent request body.
type genAIRequest struct {
	Contents []genAIContent `json:"contents"`
}

type genAIContent struct {
	Parts []genAIPart `json:"parts"`
}

type genAIPart struct {
	Text string `json:"text"`
}

// genAIResponse is the generateContent response body.
type genAIResponse struct {
	Candidates []genAICandidate `json:"candidates"`
}

type genAICandidate struct {
	Content genAIContent `json:"content"`
}

// Generate sends one prompt through the resilience wrapper and returns the
// model's text. Unlike the recommendation adapters this surfaces errors:
// the composer uses them to switch to template rendering.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("generative API key not configured")
	}

	return resilience.Do(ctx, c.wrapper, func(ctx context.Context) (string, error) {
		reqBody := genAIRequest{
			Contents: []genAIContent{{Parts: []genAIPart{{Text: prompt}}}},
		}
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return "", fmt.Errorf("marshaling request: %w", err)
		}

		reqURL := fmt.Sprintf("%s/models/%s:generateContent?key=%s", genAIBase, c.cfg.Model, c.cfg.APIKey)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return "", fmt.Errorf("calling generative API: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return "", fmt.Errorf("generative API returned %d: %s", resp.StatusCode, string(body))
		}

		var gr genAIResponse
		if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
			return "", fmt.Errorf("decoding generative response: %w", err)
		}

		for _, cand := range gr.Candidates {
			for _, part := range cand.Content.Parts {
				if strings.TrimSpace(part.Text) != "" {
					return part.Text, nil
				}
			}
		}
		return "", fmt.Errorf("generative API returned empty content")
	})
}
