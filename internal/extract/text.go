package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// markupPattern detects content that carries HTML formatting
var markupPattern = regexp.MustCompile(`(?i)<(?:p|div|br|span|a|ul|ol|li|strong|em|b|i|h[1-6]|html|body|table|tr|td)\b[^>]*>`)

// PlainText returns the visible text of content when it contains HTML markup,
// otherwise content unchanged. Block elements end a line so that names and
// places never span paragraphs.
func PlainText(content string) string {
	if !markupPattern.MatchString(content) {
		return content
	}

	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return content
	}
	return normalizeLines(visibleText(doc))
}

// visibleText collects text nodes, skipping scripts and styles
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template":
				return
			case "br":
				buf.WriteString("\n")
				return
			}
		}

		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && isBlock(n.Data) {
			buf.WriteString("\n")
		}
	}

	walk(n)
	return buf.String()
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "ul", "ol", "tr", "table", "section", "article",
		"h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "header", "footer":
		return true
	}
	return false
}

// normalizeLines collapses runs of spaces within lines and drops blank lines
func normalizeLines(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
