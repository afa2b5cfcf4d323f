package httputil

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/orbit/pkg/errors"
)

func TestHTTPTransport_Send(t *testing.T) {
	var gotUA, gotAuth, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"M31"}`))
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.Client(), map[string]string{
		"User-Agent":    "orbit/test",
		"Authorization": "Bearer secret",
	})
	resp, err := tr.Send(context.Background(), server.URL+"/planetary/apod")
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if !resp.OK() {
		t.Errorf("OK() = false for status %d", resp.StatusCode)
	}
	if string(resp.Body) != `{"title":"M31"}` {
		t.Errorf("Body = %q", resp.Body)
	}
	if gotUA != "orbit/test" {
		t.Errorf("User-Agent = %q, want orbit/test", gotUA)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want Bearer secret", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
}

func TestHTTPTransport_NonSuccessIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	resp, err := NewHTTPTransport(server.Client(), nil).Send(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if resp.OK() || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, OK = %v", resp.StatusCode, resp.OK())
	}
}

func TestHTTPTransport_ConnectionErrorRedactsKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL + "/planetary/apod?api_key=SECRET123"
	server.Close()

	_, err := NewHTTPTransport(nil, nil).Send(context.Background(), url)
	if err == nil {
		t.Fatal("Send() to a closed server should fail")
	}
	if !errors.Is(err, errors.ErrCodeTransport) {
		t.Errorf("code = %q, want TRANSPORT_ERROR", errors.GetCode(err))
	}
	if strings.Contains(err.Error(), "SECRET123") {
		t.Errorf("error leaks api key: %v", err)
	}
}

func TestHTTPTransport_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	_, err := NewHTTPTransport(NewHTTPClient(20*time.Millisecond), nil).Send(context.Background(), server.URL)
	if !errors.Is(err, errors.ErrCodeTransport) {
		t.Errorf("Send() error = %v, want TRANSPORT_ERROR", err)
	}
}

func TestTransportFunc(t *testing.T) {
	tr := TransportFunc(func(_ context.Context, url string) (*Response, error) {
		return &Response{StatusCode: 200, Body: []byte(url)}, nil
	})
	resp, err := tr.Send(context.Background(), "x")
	if err != nil || string(resp.Body) != "x" {
		t.Errorf("Send() = %v, %v", resp, err)
	}
}

func TestStatusError(t *testing.T) {
	url := "https://api.nasa.gov/neo/rest/v1/feed?api_key=SECRET"
	tests := []struct {
		name   string
		resp   *Response
		code   errors.Code
		hasErr bool
	}{
		{"ok", &Response{StatusCode: 200}, "", false},
		{"no content", &Response{StatusCode: 204}, "", false},
		{"server error", &Response{StatusCode: 500}, errors.ErrCodeHTTPStatus, true},
		{"bad request", &Response{StatusCode: 400}, errors.ErrCodeHTTPStatus, true},
		{"not found", &Response{StatusCode: 404}, errors.ErrCodeNotFound, true},
		{"rate limited", &Response{StatusCode: 429, Header: http.Header{"Retry-After": {"30"}}}, errors.ErrCodeRateLimited, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := StatusError(tt.resp, url)
			if (err != nil) != tt.hasErr {
				t.Fatalf("StatusError() = %v, wantErr %v", err, tt.hasErr)
			}
			if !tt.hasErr {
				return
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
			if strings.Contains(err.Error(), "SECRET") {
				t.Errorf("error leaks api key: %v", err)
			}
		})
	}
}

func TestStatusError_RetryAfter(t *testing.T) {
	err := StatusError(&Response{StatusCode: 429, Header: http.Header{"Retry-After": {"30"}}}, "https://x")
	var rl *errors.RateLimitedError
	if !stderrors.As(err, &rl) {
		t.Fatalf("error = %T, want *RateLimitedError", err)
	}
	if rl.RetryAfter != 30 || rl.Status != 429 {
		t.Errorf("RetryAfter = %d, Status = %d", rl.RetryAfter, rl.Status)
	}
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"api key", "https://api.nasa.gov/planetary/apod?api_key=SECRET&date=2024-01-01", "https://api.nasa.gov/planetary/apod?api_key=REDACTED&date=2024-01-01"},
		{"no query", "https://epic.gsfc.nasa.gov/api/natural", "https://epic.gsfc.nasa.gov/api/natural"},
		{"no secrets", "https://x/y?limit=5", "https://x/y?limit=5"},
		{"token", "https://x/y?token=abc", "https://x/y?token=REDACTED"},
		{"unparseable", "://bad", "://bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactURL(tt.in); got != tt.want {
				t.Errorf("RedactURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
