package htmltext

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// layout trims trailing blanks from every line, collapses runs of blank
// lines, drops blank lines at both ends and wraps to width when positive.
func layout(s string, width int) string {
	var out []string
	blank := false
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, wrap(line, width)...)
	}
	return strings.Join(out, "\n")
}

// wrap breaks line on spaces so no piece exceeds width display columns. Words
// wider than width are kept whole on a line of their own.
func wrap(line string, width int) []string {
	if width <= 0 || runewidth.StringWidth(line) <= width {
		return []string{line}
	}

	var out []string
	var cur strings.Builder
	curWidth := 0
	for _, word := range strings.Fields(line) {
		w := runewidth.StringWidth(word)
		if curWidth > 0 && curWidth+1+w > width {
			out = append(out, cur.String())
			cur.Reset()
			curWidth = 0
		}
		if curWidth > 0 {
			cur.WriteByte(' ')
			curWidth++
		}
		cur.WriteString(word)
		curWidth += w
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
