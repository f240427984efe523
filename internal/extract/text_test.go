package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText_PassesThroughPlainContent(t *testing.T) {
	content := "Revenue grew 5% while costs < 3% and margins > 10%."
	assert.Equal(t, content, PlainText(content))
}

func TestPlainText_SkipInvisibleElements(t *testing.T) {
	html := `
	<html>
	<head>
		<script>var x = "script content";</script>
		<style>body { color: red; }</style>
	</head>
	<body>
		<p>Visible paragraph text.</p>
		<noscript>Noscript content</noscript>
		<iframe src="example.com">Iframe content</iframe>
		<p>Another visible paragraph.</p>
	</body>
	</html>
	`

	text := PlainText(html)

	assert.Contains(t, text, "Visible paragraph text.")
	assert.Contains(t, text, "Another visible paragraph.")
	assert.NotContains(t, text, "script content")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "Noscript content")
	assert.NotContains(t, text, "Iframe content")
}

func TestPlainText_BlocksEndLines(t *testing.T) {
	text := PlainText("<ul><li>Acme</li><li>Beta   Labs</li></ul>first<br>second")
	assert.Equal(t, []string{"Acme", "Beta Labs", "first", "second"}, strings.Split(text, "\n"))
}

func TestPlainText_InlineElementsJoin(t *testing.T) {
	text := PlainText("<p><strong>Jane Smith</strong>, <em>CEO</em> of Acme</p>")
	assert.Equal(t, "Jane Smith, CEO of Acme", text)
}
