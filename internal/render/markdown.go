// Package render turns itinerary markdown into styled HTML.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/russross/blackfriday/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"gopkg.in/yaml.v3"
)

//go:embed styles.yaml
var defaultStyles []byte

// Style is the set of attributes applied to one element type.
type Style struct {
	Class string `yaml:"class"`
	Style string `yaml:"style"`
}

// Renderer converts markdown to HTML and applies a fixed per-tag style table.
type Renderer struct {
	styles map[string]Style
}

// ParseStyles decodes a YAML style table keyed by tag name.
func ParseStyles(data []byte) (map[string]Style, error) {
	styles := make(map[string]Style)
	if err := yaml.Unmarshal(data, &styles); err != nil {
		return nil, fmt.Errorf("parse styles: %w", err)
	}
	return styles, nil
}

// NewRenderer builds a renderer with the embedded style table.
func NewRenderer() (*Renderer, error) {
	styles, err := ParseStyles(defaultStyles)
	if err != nil {
		return nil, err
	}
	return NewRendererWithStyles(styles), nil
}

// NewRendererWithStyles builds a renderer with a custom style table.
func NewRendererWithStyles(styles map[string]Style) *Renderer {
	return &Renderer{styles: styles}
}

// Render converts the markdown. Raw HTML in the source is dropped and links
// are limited to safe protocols.
func (r *Renderer) Render(markdown string) (template.HTML, error) {
	source := strings.ReplaceAll(markdown, "\r\n", "\n")
	htmlRenderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.SkipHTML | blackfriday.Safelink | blackfriday.NofollowLinks |
			blackfriday.NoreferrerLinks | blackfriday.HrefTargetBlank,
	})
	raw := blackfriday.Run([]byte(source),
		blackfriday.WithRenderer(htmlRenderer),
		blackfriday.WithExtensions(blackfriday.CommonExtensions),
	)

	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(bytes.NewReader(raw), container)
	if err != nil {
		return "", fmt.Errorf("parse rendered markdown: %w", err)
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		r.apply(n)
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	// Output is produced by the HTML renderer with raw HTML skipped.
	return template.HTML(buf.String()), nil
}

func (r *Renderer) apply(n *html.Node) {
	if n.Type == html.ElementNode {
		if style, ok := r.styles[n.Data]; ok {
			setAttr(n, "class", style.Class)
			setAttr(n, "style", style.Style)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.apply(c)
	}
}

func setAttr(n *html.Node, key, value string) {
	if value == "" {
		return
	}
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = strings.TrimSpace(a.Val + " " + value)
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}
