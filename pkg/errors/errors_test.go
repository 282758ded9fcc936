package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorString(t *testing.T) {
	cause := errors.New("unexpected EOF")

	tests := []struct {
		err  *Error
		want string
	}{
		{New(ErrCodeInvalidInput, "unknown attribute: %s", "age"), "INVALID_INPUT: unknown attribute: age"},
		{Wrap(ErrCodeInvalidFormat, cause, "parse %s", "cases.csv"), "INVALID_FORMAT: parse cases.csv: unexpected EOF"},
		{InvalidInput("no records match"), "INVALID_INPUT: no records match"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("permission denied")
	err := Wrap(ErrCodeFileNotFound, cause, "open cases.csv")

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
}

func TestCodeLookup(t *testing.T) {
	inner := InvalidInput("graph has no edges")

	tests := []struct {
		name string
		err  error
		code Code
		is   bool
	}{
		{"direct", inner, ErrCodeInvalidInput, true},
		{"fmt wrapped", fmt.Errorf("render: %w", inner), ErrCodeInvalidInput, true},
		{"outer code wins", Wrap(ErrCodeInternal, inner, "layout"), ErrCodeInternal, true},
		{"inner code hidden", Wrap(ErrCodeInternal, inner, "layout"), ErrCodeInvalidInput, false},
		{"plain error", errors.New("boom"), "", false},
		{"nil", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != "" {
				if got := Is(tt.err, tt.code); got != tt.is {
					t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.is)
				}
			}
			if tt.is {
				if got := GetCode(tt.err); got != tt.code {
					t.Errorf("GetCode() = %q, want %q", got, tt.code)
				}
			}
		})
	}

	if GetCode(errors.New("boom")) != "" {
		t.Error("GetCode of a plain error should be empty")
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(fmt.Errorf("load: %w", InvalidInput("no records match %s", "gender=X"))); got != "no records match gender=X" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := map[Code]int{
		ErrCodeInvalidInput:  http.StatusBadRequest,
		ErrCodeInvalidFormat: http.StatusBadRequest,
		ErrCodeInvalidConfig: http.StatusBadRequest,
		ErrCodeInvalidViz:    http.StatusBadRequest,
		ErrCodeNotFound:      http.StatusNotFound,
		ErrCodeFileNotFound:  http.StatusNotFound,
		ErrCodeInternal:      http.StatusInternalServerError,
		"":                   http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := code.HTTPStatus(); got != want {
			t.Errorf("%q.HTTPStatus() = %d, want %d", code, got, want)
		}
	}
}
