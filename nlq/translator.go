// Package nlq turns a natural-language question into a record filter by
// calling an OpenAI-compatible chat-completion gateway. The model is asked to
// answer with a single flat JSON object; everything else is stripped.
package nlq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"campaign-insights/pkg/records"
)

// Translator converts a question into a filter over raw campaign records.
type Translator interface {
	Translate(ctx context.Context, question string) (records.Filter, error)
}

const systemPrompt = `You translate marketing questions into a flat JSON filter object.
Keys are campaign record field names (for example "channel", "type", "region").
Values are strings, numbers, or booleans. Use {"channel": "<name>"} when the
question names a channel (ads, ctv, email, social, events, p2p, attribution).
Respond with the JSON object only, no prose.`

// Config holds gateway settings.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries uint64
}

// Client is an HTTP Translator against a chat-completion gateway.
type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

// NewClient builds a gateway client. Model falls back to gpt-4o-mini and
// Timeout to 30s when unset.
func NewClient(cfg Config, log *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Translate asks the gateway for a filter. Server-side errors are retried
// with exponential backoff; client errors (4xx) are not.
func (c *Client) Translate(ctx context.Context, question string) (records.Filter, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: question},
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			strings.TrimRight(c.cfg.BaseURL, "/")+"/v1/chat/completions", bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(fmt.Errorf("gateway rejected request: %s", resp.Status))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("gateway error: %s", resp.Status)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.cfg.MaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("gateway returned no choices")
	}
	f, err := parseFilter(parsed.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	c.log.Debug("translated question", "question", question, "filter", f)
	return f, nil
}

// parseFilter extracts the filter object from the model's reply. Models wrap
// JSON in code fences or prose often enough that a balanced-brace scan is the
// reliable path.
func parseFilter(content string) (records.Filter, error) {
	raw := extractObject(content)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in model reply")
	}
	var f records.Filter
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return nil, fmt.Errorf("decode filter: %w", err)
	}
	if !records.ValidFilter(f) {
		return nil, fmt.Errorf("model produced a non-scalar filter")
	}
	return f, nil
}

// extractObject returns the first balanced top-level {...} in s.
func extractObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
