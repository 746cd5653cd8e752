package handlers_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mymat/internal/config"
	"mymat/internal/http/handlers"
)

// burst hits return 429; static assets are never throttled
func TestRateLimits(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) { c.RateLimit = 3 })

	for i := 0; i < 4; i++ {
		resp := a.get("/shop")
		if i < 3 && resp.StatusCode == http.StatusTooManyRequests {
			t.Fatalf("hit rate limit too early at %d", i)
		}
		if i == 3 && resp.StatusCode != http.StatusTooManyRequests {
			t.Fatalf("expected 429 after limit, got %d", resp.StatusCode)
		}
	}

	resp := a.get("/api/v1/products")
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("api shares the limit, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "rate limit exceeded") {
		t.Fatalf("api limit should answer in JSON: %s", body)
	}

	if resp := a.get("/static/app.css"); resp.StatusCode != http.StatusOK {
		t.Fatalf("static assets must not be limited, got %d", resp.StatusCode)
	}
}

// oversized POST rejected with 413
func TestBodySizeLimit(t *testing.T) {
	a := newTestApp(t)
	csrfTok := a.csrf()

	oversize := bytes.Repeat([]byte("A"), handlers.BodyLimit+10)
	req := httptest.NewRequest("POST", "/cart", bytes.NewReader(append([]byte("csrf="+csrfTok+"&productId="), oversize...)))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	resp, err := a.app.Test(req, -1)
	// Fiber returns an error instead of a response when body too large; treat that as pass
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
