package handlers_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"novastock/internal/config"
)

// Bursts of pushed scans are throttled per client.
func TestScanPushRateLimit(t *testing.T) {
	env := newTestEnv(t, config.Config{})
	cl := newClient(t, env.app)

	for i := 0; i < 31; i++ {
		resp := cl.postJSON("/api/v1/scans", `{"barcode":"111"}`)
		if i < 30 && resp.StatusCode == http.StatusTooManyRequests {
			t.Fatalf("hit rate limit too early at %d", i)
		}
		if i == 30 && resp.StatusCode != http.StatusTooManyRequests {
			t.Fatalf("expected 429 after limit, got %d", resp.StatusCode)
		}
	}
}

// Oversized bodies are refused before any handler runs.
func TestBodySizeLimit(t *testing.T) {
	env := newTestEnv(t, config.Config{})
	env.app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	oversize := bytes.Repeat([]byte("A"), (1<<20)+10)
	req := httptest.NewRequest("POST", "/api/v1/scans", bytes.NewReader(oversize))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req, -1)
	// fasthttp may answer with an error instead of a response
	if err != nil {
		if strings.Contains(err.Error(), "body size exceeds") || strings.Contains(err.Error(), "too large") {
			return
		}
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 413 for oversize, got %d body=%s", resp.StatusCode, string(body))
	}
}
