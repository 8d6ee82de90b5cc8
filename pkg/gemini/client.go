// Package gemini calls the Google Gemini generateContent API and classifies
// failures so the engine can decide between cooldown and plain fallback.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/meddesk-ai/meddesk/pkg/config"
)

// ErrorKind classifies a failed remote attempt.
type ErrorKind string

const (
	// KindQuotaExhausted means the API reported a rate-limit or
	// resource-exhaustion condition. The engine enters cooldown.
	KindQuotaExhausted ErrorKind = "quota_exhausted"
	// KindTimeout means the caller's deadline elapsed before a response.
	KindTimeout ErrorKind = "timeout"
	// KindOther covers network errors, bad responses and everything else.
	KindOther ErrorKind = "other"
)

// Error is a classified remote-generation failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("gemini %s: %s", e.Kind, e.Message)
}

// Classify returns the error kind for err, or KindOther for unclassified
// errors.
func Classify(err error) ErrorKind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindOther
}

// Client calls a single configured Gemini model. The model is chosen by
// configuration; no candidate endpoints are probed at startup.
type Client struct {
	cfg        config.GeminiConfig
	httpClient *http.Client
}

// New creates a Client from the given configuration.
func New(cfg config.GeminiConfig) *Client {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	}
	return &Client{
		cfg: cfg,
		// The per-attempt deadline comes from the caller's context; this is
		// only a safety net against a missing deadline.
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends a prompt to the configured model and returns the response
// text. Failures are returned as *Error with a classification kind; the
// caller's context deadline bounds the whole attempt and cancels the
// underlying HTTP request when it elapses.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.cfg.Endpoint, c.cfg.Model, c.cfg.APIKey)

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", &Error{Kind: KindOther, Message: fmt.Sprintf("marshal request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: KindOther, Message: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return "", &Error{Kind: KindTimeout, Message: "deadline exceeded"}
		}
		return "", &Error{Kind: KindOther, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &Error{Kind: KindOther, Message: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &Error{Kind: KindQuotaExhausted, Message: truncate(string(respBody), 200)}
	}

	var gr generateResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return "", &Error{Kind: KindOther, Message: fmt.Sprintf("status %d: unparseable body", resp.StatusCode)}
	}

	if gr.Error != nil {
		if gr.Error.Code == http.StatusTooManyRequests || gr.Error.Status == "RESOURCE_EXHAUSTED" {
			return "", &Error{Kind: KindQuotaExhausted, Message: gr.Error.Message}
		}
		return "", &Error{Kind: KindOther, Message: fmt.Sprintf("api error %d: %s", gr.Error.Code, gr.Error.Message)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &Error{Kind: KindOther, Message: fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(string(respBody), 200))}
	}

	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", &Error{Kind: KindOther, Message: "empty response"}
	}

	text := gr.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", &Error{Kind: KindOther, Message: "empty candidate text"}
	}
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
