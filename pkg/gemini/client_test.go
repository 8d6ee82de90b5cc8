package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meddesk-ai/meddesk/pkg/config"
)

func newTestClient(url string) *Client {
	return New(config.GeminiConfig{
		APIKey:   "test-key",
		Model:    "gemini-2.5-flash",
		Endpoint: url,
	})
}

func TestGenerateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"The most common disease is Fever."}]}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	text, err := c.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if text != "The most common disease is Fever." {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestGenerateQuotaExhaustedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Generate(context.Background(), "prompt")
	if Classify(err) != KindQuotaExhausted {
		t.Errorf("expected quota_exhausted, got %s (%v)", Classify(err), err)
	}
}

func TestGenerateQuotaExhaustedBody(t *testing.T) {
	// Some proxies rewrite the status code but keep the error body.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"error":{"code":429,"message":"Resource exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Generate(context.Background(), "prompt")
	if Classify(err) != KindQuotaExhausted {
		t.Errorf("expected quota_exhausted, got %s (%v)", Classify(err), err)
	}
}

func TestGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Generate(context.Background(), "prompt")
	if Classify(err) != KindOther {
		t.Errorf("expected other, got %s (%v)", Classify(err), err)
	}
}

func TestGenerateEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error for empty candidates")
	}
	if Classify(err) != KindOther {
		t.Errorf("expected other, got %s", Classify(err))
	}
}

func TestGenerateTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := newTestClient(srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Generate(ctx, "prompt")
	elapsed := time.Since(start)

	if Classify(err) != KindTimeout {
		t.Errorf("expected timeout, got %s (%v)", Classify(err), err)
	}
	if elapsed > time.Second {
		t.Errorf("generate did not honor the deadline: took %v", elapsed)
	}
}

func TestClassifyUnknownError(t *testing.T) {
	if Classify(errors.New("boom")) != KindOther {
		t.Error("unclassified errors should map to other")
	}
	if Classify(context.DeadlineExceeded) != KindTimeout {
		t.Error("deadline exceeded should map to timeout")
	}
}
