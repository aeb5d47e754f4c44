package clipboard

import (
	"errors"
	"testing"
)

func TestEntryPlainText(t *testing.T) {
	tests := []struct {
		name     string
		entry    Entry
		expected string
	}{
		{"text", Text("Hello"), "Hello"},
		{"html without fallback", HTML("<b>Hi</b>"), "<b>Hi</b>"},
		{"html with fallback", HTML("<b>Hi</b>").WithFallback("Hi"), "Hi"},
		{"html with empty fallback", HTML("<b>Hi</b>").WithFallback(""), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.PlainText(); got != tt.expected {
				t.Errorf("PlainText() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestEntryFormats(t *testing.T) {
	t.Run("text offers only plain types", func(t *testing.T) {
		formats := Text("Hello").Formats()
		if _, ok := formats["text/html"]; ok {
			t.Error("text entry offers text/html")
		}
		if string(formats["text/plain"]) != "Hello" {
			t.Errorf("text/plain = %q, want %q", formats["text/plain"], "Hello")
		}
	})

	t.Run("html without fallback offers only html", func(t *testing.T) {
		formats := HTML("<b>Hi</b>").Formats()
		if len(formats) != 1 {
			t.Errorf("len(formats) = %d, want 1", len(formats))
		}
		if string(formats["text/html"]) != "<b>Hi</b>" {
			t.Errorf("text/html = %q, want %q", formats["text/html"], "<b>Hi</b>")
		}
	})

	t.Run("html with fallback offers both", func(t *testing.T) {
		formats := HTML("<b>Hi</b>").WithFallback("Hi").Formats()
		if string(formats["text/html"]) != "<b>Hi</b>" {
			t.Errorf("text/html = %q, want %q", formats["text/html"], "<b>Hi</b>")
		}
		for _, mime := range plainTypes {
			if string(formats[mime]) != "Hi" {
				t.Errorf("%s = %q, want %q", mime, formats[mime], "Hi")
			}
		}
	})
}

func TestPayloadRoundTrip(t *testing.T) {
	entry := HTML("<i>x</i>").WithFallback("")

	data, err := EncodePayload(entry)
	if err != nil {
		t.Fatalf("EncodePayload() returned error: %v", err)
	}
	got, err := DecodePayload(data)
	if err != nil {
		t.Fatalf("DecodePayload() returned error: %v", err)
	}
	if got != entry {
		t.Errorf("DecodePayload() = %+v, want %+v", got, entry)
	}

	if _, err := DecodePayload([]byte("{")); err == nil {
		t.Error("DecodePayload() with malformed JSON expected error")
	}
}

func TestWriterFunc(t *testing.T) {
	var got Entry
	sentinel := errors.New("no clipboard")
	w := WriterFunc(func(e Entry) error {
		got = e
		return sentinel
	})

	if err := w.Write(Text("a")); !errors.Is(err, sentinel) {
		t.Errorf("Write() = %v, want %v", err, sentinel)
	}
	if got != Text("a") {
		t.Errorf("received entry = %+v, want %+v", got, Text("a"))
	}
}

func TestKindString(t *testing.T) {
	if KindText.String() != "text" || KindHTML.String() != "html" {
		t.Errorf("Kind strings = %q, %q", KindText, KindHTML)
	}
}
