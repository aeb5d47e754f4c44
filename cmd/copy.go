package cmd

import (
	"devek/pkg/clipboard"
	"devek/pkg/errors"
	"devek/pkg/htmltext"
	"devek/pkg/logger"

	"github.com/spf13/cobra"
)

const (
	typeText = "text"
	typeHTML = "html"

	fallbackFormatText     = "text"
	fallbackFormatMarkdown = "markdown"
)

func runCopy(cmd *cobra.Command, opts *options, env Env, args []string) error {
	source := stdinSentinel
	if len(args) > 0 {
		source = args[0]
	}

	content, err := resolveContent(env.Stdin, source)
	if err != nil {
		return err
	}

	var explicit *string
	if cmd.Flags().Changed("fallback") {
		explicit = &opts.fallback
	}

	entry := buildEntry(opts.contentType.String(), content, explicit, opts.fallbackFormat.String(), opts.width)
	logger.Debug().
		Str("kind", entry.Kind.String()).
		Int("bytes", len(entry.Content)).
		Bool("fallback", entry.HasFallback).
		Msg("writing clipboard entry")

	if err := env.Clipboard.Write(entry); err != nil {
		msg := errors.ErrMsgClipboardText
		if entry.Kind == clipboard.KindHTML {
			msg = errors.ErrMsgClipboardHTML
		}
		return errors.ClipboardError(msg, err)
	}
	logger.Info().Str("kind", entry.Kind.String()).Msg("clipboard updated")
	return nil
}

// buildEntry turns the resolved content into a clipboard entry. An explicit
// fallback always wins; otherwise one is derived from the HTML, and a failed
// derivation leaves the entry without one.
func buildEntry(contentType, content string, explicit *string, format string, width int) clipboard.Entry {
	if contentType == typeText {
		return clipboard.Text(content)
	}

	entry := clipboard.HTML(content)
	if explicit != nil {
		return entry.WithFallback(*explicit)
	}
	if fallback, ok := deriveFallback(content, format, width); ok {
		return entry.WithFallback(fallback)
	}
	return entry
}

func deriveFallback(content, format string, width int) (string, bool) {
	var (
		fallback string
		err      error
	)
	switch format {
	case fallbackFormatMarkdown:
		fallback, err = htmltext.ToMarkdown(content)
	default:
		fallback, err = htmltext.ConvertString(content, width)
	}
	if err != nil {
		logger.Debug().Err(err).Str("format", format).Msg("no plain-text fallback derived")
		return "", false
	}
	return fallback, true
}
