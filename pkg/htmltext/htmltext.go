// Package htmltext derives plain-text renditions of HTML fragments. They are
// used as the text/plain companion of rich clipboard entries.
package htmltext

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var skippedElements = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// Elements that start and end on a line of their own.
var lineElements = map[string]bool{
	"div": true, "li": true, "tr": true, "dt": true, "dd": true,
	"ul": true, "ol": true, "dl": true, "section": true, "article": true,
	"header": true, "footer": true, "nav": true, "main": true, "aside": true,
	"form": true, "figure": true, "figcaption": true, "address": true, "caption": true,
}

// Elements separated from their surroundings by a blank line.
var paragraphElements = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "table": true, "hr": true,
}

// Convert renders the HTML read from r as plain text. A positive width wraps
// lines at that many display columns; zero leaves lines unbounded.
func Convert(r io.Reader, width int) (string, error) {
	if width < 0 {
		return "", fmt.Errorf("htmltext: negative width %d", width)
	}

	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("htmltext: parse: %w", err)
	}

	rd := &renderer{}
	rd.walk(doc)
	return layout(rd.b.String(), width), nil
}

// ConvertString is Convert for an in-memory fragment.
func ConvertString(s string, width int) (string, error) {
	return Convert(strings.NewReader(s), width)
}

type renderer struct {
	b      strings.Builder
	breaks int
	space  bool
	prefix string
	pre    int
	lists  []int // -1 for unordered lists, next item number otherwise
}

func (r *renderer) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		r.text(n.Data)
		return
	case html.ElementNode:
		if skippedElements[n.Data] {
			return
		}
		r.open(n)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c)
	}

	if n.Type == html.ElementNode {
		r.close(n)
	}
}

func (r *renderer) open(n *html.Node) {
	switch {
	case paragraphElements[n.Data]:
		r.requestBreak(2)
	case lineElements[n.Data]:
		r.requestBreak(1)
	}

	switch n.Data {
	case "br":
		if r.b.Len() > 0 && r.breaks < 2 {
			r.breaks++
		}
	case "pre":
		r.pre++
	case "ul":
		r.lists = append(r.lists, -1)
	case "ol":
		start := 1
		if v, err := strconv.Atoi(getAttr(n, "start")); err == nil {
			start = v
		}
		r.lists = append(r.lists, start)
	case "li":
		r.prefix = r.bullet()
	case "td", "th":
		if prev := previousElement(n); prev != nil && (prev.Data == "td" || prev.Data == "th") {
			r.text(" | ")
		}
	case "img":
		r.text(getAttr(n, "alt"))
	}
}

func (r *renderer) close(n *html.Node) {
	switch n.Data {
	case "pre":
		r.pre--
	case "ul", "ol":
		if len(r.lists) > 0 {
			r.lists = r.lists[:len(r.lists)-1]
		}
	case "a":
		href := getAttr(n, "href")
		if showHref(href, extractText(n)) {
			r.text(" [" + href + "]")
		}
	}

	switch {
	case paragraphElements[n.Data]:
		r.requestBreak(2)
	case lineElements[n.Data]:
		r.requestBreak(1)
	}
}

func (r *renderer) bullet() string {
	if len(r.lists) == 0 {
		return "* "
	}
	indent := strings.Repeat("  ", len(r.lists)-1)
	top := len(r.lists) - 1
	if r.lists[top] < 0 {
		return indent + "* "
	}
	num := r.lists[top]
	r.lists[top]++
	return indent + strconv.Itoa(num) + ". "
}

func (r *renderer) requestBreak(n int) {
	if r.b.Len() == 0 {
		return
	}
	if n > r.breaks {
		r.breaks = n
	}
}

// flush emits pending line breaks, inter-word space and list prefix ahead of
// the next piece of text.
func (r *renderer) flush() {
	if r.b.Len() > 0 {
		if r.breaks > 0 {
			r.b.WriteString(strings.Repeat("\n", r.breaks))
		} else if r.space && !strings.HasSuffix(r.b.String(), "\n") {
			r.b.WriteByte(' ')
		}
	}
	r.breaks = 0
	r.space = false
	if r.prefix != "" {
		r.b.WriteString(r.prefix)
		r.prefix = ""
	}
}

func (r *renderer) text(s string) {
	if s == "" {
		return
	}
	if r.pre > 0 {
		r.flush()
		r.b.WriteString(s)
		return
	}

	words := strings.Fields(s)
	if len(words) == 0 {
		r.space = true
		return
	}
	if startsWithSpace(s) {
		r.space = true
	}
	for i, w := range words {
		if i > 0 {
			r.space = true
		}
		r.flush()
		r.b.WriteString(w)
	}
	if endsWithSpace(s) {
		r.space = true
	}
}

func startsWithSpace(s string) bool {
	return len(s) > 0 && strings.TrimLeft(s[:1], " \t\r\n\f") == ""
}

func endsWithSpace(s string) bool {
	return len(s) > 0 && strings.TrimRight(s[len(s)-1:], " \t\r\n\f") == ""
}

func showHref(href, text string) bool {
	if href == "" || href == text {
		return false
	}
	if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return false
	}
	return strings.TrimPrefix(href, "mailto:") != text
}

func previousElement(n *html.Node) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func extractText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
