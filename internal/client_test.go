package internal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRetryDelay(t *testing.T) {
	c := NewClient("http://example.invalid", "key")

	tests := []struct {
		name       string
		retryAfter string
		retry      int
		want       time.Duration
	}{
		{
			name:       "retry-after seconds",
			retryAfter: "3",
			retry:      0,
			want:       3 * time.Second,
		},
		{
			name:       "retry-after zero means immediate",
			retryAfter: "0",
			retry:      2,
			want:       0,
		},
		{
			name:       "no header first retry",
			retryAfter: "",
			retry:      0,
			want:       1000 * time.Millisecond,
		},
		{
			name:       "no header third retry",
			retryAfter: "",
			retry:      2,
			want:       4000 * time.Millisecond,
		},
		{
			name:       "no header fifth retry",
			retryAfter: "",
			retry:      4,
			want:       16000 * time.Millisecond,
		},
		{
			name:       "http date in the past means immediate",
			retryAfter: time.Now().Add(-time.Minute).UTC().Format(http.TimeFormat),
			retry:      1,
			want:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.retryDelay(tt.retryAfter, tt.retry)
			if got != tt.want {
				t.Errorf("retryDelay(%q, %d) = %v, want %v", tt.retryAfter, tt.retry, got, tt.want)
			}
		})
	}
}

func TestRetryDelayHTTPDate(t *testing.T) {
	c := NewClient("http://example.invalid", "key")

	at := time.Now().Add(5 * time.Second).UTC().Format(http.TimeFormat)
	got := c.retryDelay(at, 0)
	if got <= 0 || got > 5*time.Second {
		t.Errorf("retryDelay(future date) = %v, want a positive delay of at most 5s", got)
	}
}

func TestGetRetriesRateLimit(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Header.Get("X-API-Key") != "secret" {
			t.Errorf("missing API key header")
		}
		if calls <= 2 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	c.baseDelay = time.Millisecond

	body, err := c.Get(context.Background(), "/v1/lifelogs", nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("Get() body = %s", body)
	}
	if calls != 3 {
		t.Errorf("server saw %d calls, want 3", calls)
	}
}

func TestGetExhaustsRetries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	c.baseDelay = time.Millisecond

	_, err := c.Get(context.Background(), "/v1/chats", nil)
	if err == nil {
		t.Fatal("Get() expected error after exhausted retries")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != ErrRateLimited {
		t.Errorf("Get() error = %v, want rate_limited APIError", err)
	}
	// initial attempt plus five retries
	if calls != 6 {
		t.Errorf("server saw %d calls, want 6", calls)
	}
}

func TestGetClassifiesErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind ErrorKind
	}{
		{
			name:     "unauthorized",
			status:   http.StatusUnauthorized,
			wantKind: ErrUnauthorized,
		},
		{
			name:     "not found",
			status:   http.StatusNotFound,
			wantKind: ErrNotFound,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			wantKind: ErrHTTP,
		},
		{
			name:     "non-json success body",
			status:   http.StatusOK,
			body:     "<html>not json</html>",
			wantKind: ErrInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tt.status)
				if tt.body != "" {
					_, _ = w.Write([]byte(tt.body))
				}
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "secret")
			_, err := c.Get(context.Background(), "/v1/lifelogs", nil)
			if err == nil {
				t.Fatal("Get() expected error")
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Get() error = %T, want *APIError", err)
			}
			if apiErr.Kind != tt.wantKind {
				t.Errorf("Get() error kind = %s, want %s", apiErr.Kind, tt.wantKind)
			}
			// none of these are retried
			if calls != 1 {
				t.Errorf("server saw %d calls, want 1", calls)
			}
		})
	}
}

func TestGetWaitNotice(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	c.baseDelay = time.Millisecond

	var notices int
	c.OnRateLimitWait(func(delay time.Duration) { notices++ })

	if _, err := c.Get(context.Background(), "/v1/lifelogs", nil); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if notices != 1 {
		t.Errorf("wait notice fired %d times, want 1", notices)
	}
}

func TestSetAPIKey(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-API-Key")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "old")
	c.SetAPIKey("rotated")

	if _, err := c.Get(context.Background(), "/v1/lifelogs", nil); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if seen != "rotated" {
		t.Errorf("API key header = %q, want rotated", seen)
	}
}
