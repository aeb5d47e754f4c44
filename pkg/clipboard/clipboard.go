// Package clipboard writes plain-text and rich (HTML plus plain-text
// fallback) entries to the system clipboard.
//
// On Linux, Wayland entries and X11 rich entries are served by a detached copy
// of the running binary, started with ServeCommand as its first argument, that
// owns the selection and offers text/html alongside the text/plain flavours.
// Write returns only after that process reports the selection as claimed.
// Elsewhere the platform's native facility or github.com/atotto/clipboard is
// used.
package clipboard

import (
	"encoding/json"
	"fmt"
)

// ServeCommand is the argv[1] marker of the detached selection owner process.
const ServeCommand = "__clipboard-serve"

type Kind int

const (
	KindText Kind = iota
	KindHTML
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindHTML:
		return "html"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Entry is a single clipboard payload. Fallback is only meaningful for HTML
// entries and only when HasFallback is set; an explicit empty fallback is
// still a fallback.
type Entry struct {
	Kind        Kind   `json:"kind"`
	Content     string `json:"content"`
	Fallback    string `json:"fallback,omitempty"`
	HasFallback bool   `json:"has_fallback,omitempty"`
}

// Text returns a plain-text entry.
func Text(s string) Entry {
	return Entry{Kind: KindText, Content: s}
}

// HTML returns a rich entry without a plain-text fallback.
func HTML(s string) Entry {
	return Entry{Kind: KindHTML, Content: s}
}

// WithFallback returns a copy of e carrying the plain-text fallback.
func (e Entry) WithFallback(fallback string) Entry {
	e.Fallback = fallback
	e.HasFallback = true
	return e
}

// PlainText is what a backend restricted to plain text should store.
func (e Entry) PlainText() string {
	if e.Kind == KindHTML && e.HasFallback {
		return e.Fallback
	}
	return e.Content
}

var plainTypes = []string{
	"text/plain;charset=utf-8",
	"text/plain",
	"UTF8_STRING",
	"STRING",
	"TEXT",
}

// Formats maps every MIME type the entry should be offered under to its bytes.
func (e Entry) Formats() map[string][]byte {
	formats := make(map[string][]byte)
	if e.Kind == KindHTML {
		formats["text/html"] = []byte(e.Content)
		if !e.HasFallback {
			return formats
		}
	}
	plain := []byte(e.PlainText())
	for _, t := range plainTypes {
		formats[t] = plain
	}
	return formats
}

// Writer performs one clipboard write per call.
type Writer interface {
	Write(Entry) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(Entry) error

func (f WriterFunc) Write(e Entry) error {
	return f(e)
}

// System writes to the clipboard of the current desktop session.
type System struct{}

func NewSystem() *System {
	return &System{}
}

func (s *System) Write(e Entry) error {
	return writeEntry(e)
}

// EncodePayload serializes e for the selection owner process.
func EncodePayload(e Entry) ([]byte, error) {
	return json.Marshal(e)
}

// DecodePayload is the inverse of EncodePayload.
func DecodePayload(data []byte) (Entry, error) {
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, fmt.Errorf("clipboard: decode payload: %w", err)
	}
	return e, nil
}
