package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeTransport, cause, "GET api.nasa.gov")

	if err.Code != ErrCodeTransport {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeTransport)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	status := &HTTPStatusError{Status: 503, URL: "https://api.nasa.gov/planetary/apod"}

	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeTransport,
			expected: false,
		},
		{
			name:     "outermost code wins",
			err:      Wrap(ErrCodeTransport, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeTransport,
			expected: true,
		},
		{
			name:     "typed status error",
			err:      status,
			code:     ErrCodeHTTPStatus,
			expected: true,
		},
		{
			name:     "exhausted wrapping status",
			err:      &RetriesExhaustedError{Attempts: 3, Last: status},
			code:     ErrCodeRetriesExhausted,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("apod: %w", &RetriesExhaustedError{Attempts: 3, Last: status}),
			code:     ErrCodeRetriesExhausted,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeDecode, "test"), ErrCodeDecode},
		{"status 404", &HTTPStatusError{Status: 404}, ErrCodeNotFound},
		{"status 500", &HTTPStatusError{Status: 500}, ErrCodeHTTPStatus},
		{"rate limited", &RateLimitedError{HTTPStatusError: HTTPStatusError{Status: 429}}, ErrCodeRateLimited},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "Error with cause",
			err:      Wrap(ErrCodeInvalidConfig, errors.New("missing api_key"), "invalid config"),
			expected: "invalid config: missing api_key",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRateLimitedError(t *testing.T) {
	t.Run("with retry after", func(t *testing.T) {
		err := &RateLimitedError{HTTPStatusError: HTTPStatusError{Status: 429, URL: "u"}, RetryAfter: 60}
		expected := "rate limited by u: retry after 60 seconds"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("without retry after", func(t *testing.T) {
		err := &RateLimitedError{HTTPStatusError: HTTPStatusError{Status: 429, URL: "u"}}
		expected := "rate limited by u"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("code method", func(t *testing.T) {
		err := &RateLimitedError{}
		if err.Code() != ErrCodeRateLimited {
			t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeRateLimited)
		}
	})
}

func TestRetriesExhaustedError(t *testing.T) {
	last := Wrap(ErrCodeDecode, errors.New("unexpected EOF"), "decode body")
	err := &RetriesExhaustedError{Attempts: 3, Last: last}

	if !errors.Is(err, last) {
		t.Error("errors.Is should find the last attempt error")
	}

	var inner *Error
	if !errors.As(err, &inner) || inner.Code != ErrCodeDecode {
		t.Errorf("errors.As inner = %v, want DECODE_ERROR", inner)
	}

	want := "giving up after 3 attempts: DECODE_ERROR: decode body: unexpected EOF"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", New(ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{"invalid date", New(ErrCodeInvalidDate, "x"), http.StatusBadRequest},
		{"exhausted", &RetriesExhaustedError{Attempts: 3, Last: &HTTPStatusError{Status: 500}}, http.StatusBadGateway},
		{"exhausted 404", &RetriesExhaustedError{Attempts: 3, Last: &HTTPStatusError{Status: 404}}, http.StatusNotFound},
		{"unexpected payload", New(ErrCodeUnexpectedPayload, "x"), http.StatusBadGateway},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
