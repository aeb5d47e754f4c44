package errors

import (
	"fmt"
	"io"
	"strings"

	"devek/pkg/logger"

	"github.com/fatih/color"
)

type ExitCode int

const (
	ExitCodeSuccess   ExitCode = 0
	ExitCodeGeneral   ExitCode = 1
	ExitCodeUsage     ExitCode = 2
	ExitCodeInput     ExitCode = 3
	ExitCodeClipboard ExitCode = 4
	ExitCodeConfig    ExitCode = 5
)

// Standardized error messages for consistent user-facing errors
const (
	ErrMsgReadStdin      = "Failed to read content from stdin"
	ErrMsgClipboardText  = "Failed to set clipboard text"
	ErrMsgClipboardHTML  = "Failed to set clipboard HTML"
	ErrMsgInvalidArgs    = "Invalid arguments"
	ErrMsgConfigLoad     = "Failed to load configuration"
	ErrMsgClipboardServe = "Clipboard owner process failed"
)

type Error struct {
	Code       ExitCode
	Message    string
	Underlying error
	Suggestion string
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Underlying)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

func NewWithError(code ExitCode, message string, err error) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Underlying: err,
	}
}

func NewWithSuggestion(code ExitCode, message string, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	if wrapped, ok := err.(*Error); ok {
		return &Error{
			Code:       wrapped.Code,
			Message:    message + ": " + wrapped.Message,
			Underlying: wrapped.Underlying,
			Suggestion: wrapped.Suggestion,
		}
	}

	return &Error{
		Code:       ExitCodeGeneral,
		Message:    message,
		Underlying: err,
	}
}

func WrapWithCode(err error, code ExitCode, message string) *Error {
	if err == nil {
		return nil
	}

	return &Error{
		Code:       code,
		Message:    message,
		Underlying: err,
	}
}

func IsExitCode(err error, code ExitCode) bool {
	if err == nil {
		return false
	}

	if e, ok := err.(*Error); ok {
		return e.Code == code
	}

	return false
}

// CodeOf returns the exit code carried by err, ExitCodeGeneral for foreign
// errors and ExitCodeSuccess for nil.
func CodeOf(err error) ExitCode {
	if err == nil {
		return ExitCodeSuccess
	}
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ExitCodeGeneral
}

// HandleReturn reports err on w and returns the exit code the process should
// terminate with. The caller is responsible for exiting.
func HandleReturn(w io.Writer, err error) ExitCode {
	if err == nil {
		return ExitCodeSuccess
	}

	exitCode := CodeOf(err)
	var message string
	var suggestion string

	if e, ok := err.(*Error); ok {
		message = e.Error()
		suggestion = e.Suggestion

		if e.Underlying != nil {
			logger.Error().Err(e.Underlying).Int("exit_code", int(exitCode)).Msg(e.Message)
		} else {
			logger.Error().Int("exit_code", int(exitCode)).Msg(e.Message)
		}
	} else {
		message = err.Error()
		logger.Error().Msg(message)
	}

	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	red.Fprint(w, "Error: ")
	fmt.Fprintln(w, message)

	if suggestion != "" {
		yellow.Fprint(w, "Suggestion: ")
		lines := strings.Split(suggestion, "\n")
		for i, line := range lines {
			if i == 0 {
				fmt.Fprintln(w, line)
			} else {
				if strings.HasPrefix(line, "  -") {
					cyan.Fprintln(w, line)
				} else {
					fmt.Fprintln(w, "            "+line)
				}
			}
		}
	}

	return exitCode
}

func UsageError(err error) *Error {
	return &Error{
		Code:       ExitCodeUsage,
		Message:    ErrMsgInvalidArgs,
		Underlying: err,
		Suggestion: "Run 'devek --help' for usage.",
	}
}

func InputError(err error) *Error {
	return &Error{
		Code:       ExitCodeInput,
		Message:    ErrMsgReadStdin,
		Underlying: err,
	}
}

func ClipboardError(message string, err error) *Error {
	return &Error{
		Code:       ExitCodeClipboard,
		Message:    message,
		Underlying: err,
		Suggestion: "Make sure a clipboard service is running (Wayland compositor, X11 server with xclip/xsel, or a desktop session).",
	}
}

func ConfigError(message string) *Error {
	return &Error{
		Code:       ExitCodeConfig,
		Message:    message,
		Suggestion: "Check ~/.config/devek/config.yaml or the DEVEK_* environment variables.",
	}
}
