package errors

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "basic error without underlying",
			err:      &Error{Code: ExitCodeGeneral, Message: "test error"},
			expected: "test error",
		},
		{
			name:     "error with underlying",
			err:      &Error{Code: ExitCodeInput, Message: "read failed", Underlying: errors.New("broken pipe")},
			expected: "read failed: broken pipe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.err.Error()
			if result != tt.expected {
				t.Errorf("Error() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := NewWithError(ExitCodeClipboard, "test error", underlying)

	if !errors.Is(err, underlying) {
		t.Errorf("errors.Is(%v, %v) = false, want true", err, underlying)
	}
}

func TestWrap(t *testing.T) {
	underlying := errors.New("original error")
	err := Wrap(underlying, "wrapped message")

	if err.Error() != "wrapped message: original error" {
		t.Errorf("Error() = %q, want %q", err.Error(), "wrapped message: original error")
	}
	if err.Code != ExitCodeGeneral {
		t.Errorf("Code = %d, want %d", err.Code, ExitCodeGeneral)
	}

	if Wrap(nil, "message") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestWrapPreservesCode(t *testing.T) {
	inner := NewWithSuggestion(ExitCodeUsage, "bad flag", "Drop the flag.")
	err := Wrap(inner, "outer")

	if err.Code != ExitCodeUsage {
		t.Errorf("Code = %d, want %d", err.Code, ExitCodeUsage)
	}
	if err.Message != "outer: bad flag" {
		t.Errorf("Message = %q, want %q", err.Message, "outer: bad flag")
	}
	if err.Suggestion != "Drop the flag." {
		t.Errorf("Suggestion = %q, want %q", err.Suggestion, "Drop the flag.")
	}
}

func TestWrapWithCode(t *testing.T) {
	if WrapWithCode(nil, ExitCodeInput, "x") != nil {
		t.Error("WrapWithCode(nil) should return nil")
	}

	err := WrapWithCode(errors.New("eof"), ExitCodeInput, "read")
	if err.Code != ExitCodeInput {
		t.Errorf("Code = %d, want %d", err.Code, ExitCodeInput)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ExitCode
	}{
		{"nil", nil, ExitCodeSuccess},
		{"foreign error", errors.New("boom"), ExitCodeGeneral},
		{"usage", UsageError(errors.New("unknown flag")), ExitCodeUsage},
		{"input", InputError(errors.New("closed")), ExitCodeInput},
		{"clipboard", ClipboardError(ErrMsgClipboardText, errors.New("no display")), ExitCodeClipboard},
		{"config", ConfigError("bad width"), ExitCodeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.expected {
				t.Errorf("CodeOf() = %d, want %d", got, tt.expected)
			}
			if tt.err != nil && tt.expected != ExitCodeGeneral && !IsExitCode(tt.err, tt.expected) {
				t.Errorf("IsExitCode(%v, %d) = false", tt.err, tt.expected)
			}
		})
	}
}

func TestHandleReturn(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	code := HandleReturn(&buf, ClipboardError(ErrMsgClipboardHTML, errors.New("no display")))

	if code != ExitCodeClipboard {
		t.Errorf("HandleReturn() = %d, want %d", code, ExitCodeClipboard)
	}

	out := buf.String()
	if !strings.Contains(out, "Error: Failed to set clipboard HTML: no display") {
		t.Errorf("missing error line in output:\n%s", out)
	}
	if !strings.Contains(out, "Suggestion: ") {
		t.Errorf("missing suggestion in output:\n%s", out)
	}
}

func TestHandleReturnNil(t *testing.T) {
	var buf bytes.Buffer
	if code := HandleReturn(&buf, nil); code != ExitCodeSuccess {
		t.Errorf("HandleReturn(nil) = %d, want %d", code, ExitCodeSuccess)
	}
	if buf.Len() != 0 {
		t.Errorf("HandleReturn(nil) wrote %q", buf.String())
	}
}
