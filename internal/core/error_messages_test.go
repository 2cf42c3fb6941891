package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/doctranslate/internal/ooxml"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "unsupported kind",
			err:         fmt.Errorf("resolve: %w", ErrUnsupportedKind),
			wantCode:    "FILE006",
			wantMessage: "This file type is not supported",
		},
		{
			name:        "invalid package",
			err:         fmt.Errorf("open pptx package: %w", ooxml.ErrInvalidPackage),
			wantCode:    "PKG001",
			wantMessage: "The file is not a valid Office document",
		},
		{
			name:     "write failure",
			err:      fmt.Errorf("%w: disk full", ErrWritePackage),
			wantCode: "PKG002",
		},
		{
			name:        "busy",
			err:         ErrTooManyTransforms,
			wantCode:    "UPL002",
			wantMessage: "System is busy translating other documents",
		},
		{
			name:     "deadline exceeded wins over timeout pattern",
			err:      fmt.Errorf("transform timeout: %w", context.DeadlineExceeded),
			wantCode: "UPL005",
		},
		{
			name:     "job not found",
			err:      fmt.Errorf("job 42: %w", ErrJobNotFound),
			wantCode: "JOB001",
		},
		{
			name:        "file too large pattern",
			err:         errors.New("file too large: 200MB exceeds limit"),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum upload size",
		},
		{
			name:     "connection refused pattern",
			err:      errors.New("dial tcp: connection refused"),
			wantCode: "DB004",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:     "case insensitive matching",
			err:      errors.New("RATE LIMIT exceeded"),
			wantCode: "RATE001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if tt.wantMessage != "" && got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrTooManyTransforms)

	expected := "System is busy translating other documents (Code: UPL002). Please wait a moment and try again"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error is not user facing", err: nil, want: false},
		{name: "sentinel is user facing", err: ErrUnsupportedKind, want: true},
		{name: "unknown error is not user facing", err: errors.New("random internal error xyz"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("open docx package: %w", ooxml.ErrInvalidPackage)
		userErr := NewUserError(techErr)

		if userErr.Error() != "The file is not a valid Office document" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, ooxml.ErrInvalidPackage) {
			t.Error("Unwrap() should expose the original error")
		}
	})
}
