package htmltext

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// ToMarkdown renders an HTML fragment as Markdown. Markdown fallbacks keep
// emphasis and links readable in plain-text editors.
func ToMarkdown(s string) (string, error) {
	if s == "" {
		return "", nil
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			strikethrough.NewStrikethroughPlugin(),
			table.NewTablePlugin(),
		),
	)

	markdown, err := conv.ConvertString(s)
	if err != nil {
		return "", err
	}

	markdown = strings.ReplaceAll(markdown, `\!\[`, `![`)
	markdown = strings.ReplaceAll(markdown, `\[`, `[`)
	markdown = strings.ReplaceAll(markdown, `\]`, `]`)
	markdown = strings.ReplaceAll(markdown, `\_`, `_`)

	return strings.TrimSpace(markdown), nil
}
