package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Options controls how comment bodies are rendered.
type Options struct {
	// Extensions lists goldmark extensions by name. Empty selects GFM, linkify and task lists.
	Extensions []string
	HardWraps  bool
	// AllowHTML passes raw HTML in comments through to the output.
	AllowHTML bool
}

// DefaultOptions returns the options used for timeline comments: GFM with
// hard wraps, raw HTML stripped.
func DefaultOptions() Options {
	return Options{HardWraps: true}
}

// Renderer converts Markdown comment bodies to HTML. The goldmark engine is
// built once and is safe for concurrent use.
type Renderer struct {
	engine goldmark.Markdown
}

// NewRenderer builds a renderer for the supplied options.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{engine: newGoldmarkEngine(opts)}
}

// Render converts markdown into HTML.
func (r *Renderer) Render(markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderString is a convenience wrapper around Render for string payloads.
func (r *Renderer) RenderString(markdown string) (string, error) {
	out, err := r.Render([]byte(markdown))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func newGoldmarkEngine(opts Options) goldmark.Markdown {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.AllowHTML {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	if exts := collectExtensions(opts.Extensions); len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}
	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"footnote":      extension.Footnote,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM, extension.Linkify, extension.TaskList}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := seen[key]; ok {
			continue
		}
		if ext, ok := extensionRegistry[key]; ok {
			extenders = append(extenders, ext)
			seen[key] = struct{}{}
		}
	}
	return extenders
}
