package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

func startCallbackServer(t *testing.T) *CallbackServer {
	t.Helper()
	server, err := NewCallbackServer("http://127.0.0.1:0/callback")
	if err != nil {
		t.Fatalf("NewCallbackServer() error = %v", err)
	}
	server.Start()
	t.Cleanup(func() { _ = server.Shutdown(context.Background()) })
	return server
}

func hitCallback(t *testing.T, url string) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Errorf("Failed to make callback request: %v", err)
		return 0
	}
	_ = resp.Body.Close()
	return resp.StatusCode
}

func TestCallbackServer(t *testing.T) {
	server := startCallbackServer(t)

	if server.Port() == 0 {
		t.Fatal("Server port should not be 0 after starting")
	}
	if !strings.HasSuffix(server.URL(), "/callback") {
		t.Errorf("URL() = %q, want /callback suffix", server.URL())
	}

	if status := hitCallback(t, server.URL()+"?code=test_code&state=test_state"); status != http.StatusOK {
		t.Errorf("callback status = %d, want 200", status)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := server.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if result.Code != "test_code" {
		t.Errorf("Code = %q, want %q", result.Code, "test_code")
	}
	if result.State != "test_state" {
		t.Errorf("State = %q, want %q", result.State, "test_state")
	}
	if result.Error != "" {
		t.Errorf("Error = %q, want empty", result.Error)
	}
}

func TestCallbackServerError(t *testing.T) {
	server := startCallbackServer(t)

	if status := hitCallback(t, server.URL()+"?error=access_denied&state=test_state"); status != http.StatusBadRequest {
		t.Errorf("callback status = %d, want 400", status)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := server.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if result.Error != "access_denied" {
		t.Errorf("Error = %q, want %q", result.Error, "access_denied")
	}
}

func TestCallbackServerKeepsFirstResult(t *testing.T) {
	server := startCallbackServer(t)

	hitCallback(t, server.URL()+"?code=first&state=s")
	hitCallback(t, server.URL()+"?code=second&state=s")

	result, err := server.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if result.Code != "first" {
		t.Errorf("Code = %q, want first", result.Code)
	}
}

func TestCallbackServerTimeout(t *testing.T) {
	server := startCallbackServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := server.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want %v", err, context.DeadlineExceeded)
	}
}

func TestNewCallbackServerRejectsBadRedirect(t *testing.T) {
	for _, uri := range []string{"https://127.0.0.1:8888/callback", "http://127.0.0.1/callback", "::"} {
		if _, err := NewCallbackServer(uri); err == nil {
			t.Errorf("NewCallbackServer(%q) error = nil, want error", uri)
		}
	}
}
