package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestNewClient_Transport(t *testing.T) {
	client := NewClient(5 * time.Second)
	if client.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.Timeout)
	}
	tr, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("Transport is %T, want *http.Transport", client.Transport)
	}
	if tr.Proxy == nil {
		t.Error("proxy from environment not configured")
	}
	if tr.MaxIdleConnsPerHost != MaxIdleConnsPerHost || tr.TLSHandshakeTimeout != TLSHandshakeTimeout {
		t.Errorf("unexpected transport tuning: %+v", tr)
	}
}

func TestDefaultClient(t *testing.T) {
	c := GetDefaultClient()
	if c.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", c.Timeout, DefaultTimeout)
	}
	if GetDefaultClient() != c {
		t.Error("default client should be shared")
	}

	stub := &http.Client{Timeout: time.Second}
	restore := SetDefaultClientForTesting(stub)
	if GetDefaultClient() != stub {
		t.Error("override not applied")
	}
	restore()
	if GetDefaultClient() != c {
		t.Error("restore did not bring back the shared client")
	}
}

func TestNewRequest_Headers(t *testing.T) {
	req, err := NewRequest(context.Background(), http.MethodPost, "https://api-free.deepl.com/v2/translate", strings.NewReader("text=Hi"), map[string]string{
		"Authorization": "DeepL-Auth-Key k:fx",
		"Content-Type":  "application/x-www-form-urlencoded",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := req.Header.Get("User-Agent"); got != UserAgent() || !strings.HasPrefix(got, "locsync/") {
		t.Errorf("User-Agent = %q", got)
	}
	if req.Header.Get("Authorization") != "DeepL-Auth-Key k:fx" {
		t.Errorf("auth header not set: %v", req.Header)
	}

	if _, err := NewRequest(context.Background(), "BAD METHOD", "://", nil, nil); err == nil {
		t.Error("expected error for malformed request")
	}
}

func TestDoAndRead(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		contentLength bool
		wantErr       string
	}{
		{name: "usage payload", body: `{"character_count":42,"character_limit":500000}`, contentLength: true},
		{name: "declared too large", body: strings.Repeat("x", MaxResponseBytes+1), contentLength: true, wantErr: "too large"},
		{name: "streamed too large", body: strings.Repeat("x", MaxResponseBytes+1), wantErr: "too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.contentLength {
					w.Header().Set("Content-Length", strconv.Itoa(len(tt.body)))
				} else {
					w.(http.Flusher).Flush()
				}
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			req, err := NewRequest(context.Background(), http.MethodGet, srv.URL, nil, nil)
			if err != nil {
				t.Fatal(err)
			}
			body, resp, err := DoAndRead(srv.Client(), req)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != http.StatusOK || string(body) != tt.body {
				t.Fatalf("got %d %q", resp.StatusCode, body)
			}
		})
	}
}

func TestDoAndRead_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	req, _ := NewRequest(context.Background(), http.MethodGet, url, nil, nil)
	if _, _, err := DoAndRead(GetDefaultClient(), req); err == nil {
		t.Fatal("expected error from closed server")
	}
}
