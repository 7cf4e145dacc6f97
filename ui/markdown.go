package ui

import (
	"regexp"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	ansiRegex       = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

// renderMarkdown renders agent output for the terminal at the given width.
func renderMarkdown(content string, width int) string {
	if width < 20 {
		width = 20
	}

	// [text](url) → url so terminals can detect the link
	content = mdLinkRegex.ReplaceAllString(content, "$2")

	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width, 0)
	doc := p.Parse([]byte(content))
	rendered := string(gomarkdown.Render(doc, r))

	// Blue background + italic → red text
	rendered = inlineCodeRegex.ReplaceAllString(rendered, "\x1b[31m$1\x1b[0m")

	return strings.TrimRight(rendered, "\n")
}

// stripANSI removes ANSI escape codes for accurate length calculation
func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// renderCache memoizes rendered markdown per message and width.
type renderCache struct {
	width   int
	entries map[string]string
}

func newRenderCache() *renderCache {
	return &renderCache{entries: make(map[string]string)}
}

func (c *renderCache) get(id, content string, width int) string {
	if width != c.width {
		c.width = width
		c.entries = make(map[string]string)
	}
	key := id + "\x00" + content
	if out, ok := c.entries[key]; ok {
		return out
	}
	out := renderMarkdown(content, width)
	c.entries[key] = out
	return out
}
