// Package render converts note bodies to HTML fragments for preview.
// Layout resolution stays with the external site generator: the
// fragment carries the note's layout name, nothing more.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/seedbed/humus/pkg/core"
)

// Fragment is a rendered note body plus the metadata a consumer needs
// to place it into a layout.
type Fragment struct {
	ID     string
	Title  string
	Layout string
	HTML   []byte
}

// Renderer renders markdown bodies with GFM extensions. It is
// stateless; a single instance can be shared without locking.
type Renderer struct {
	md goldmark.Markdown
}

// Options controls renderer construction.
type Options struct {
	// HardWraps renders single newlines as <br>.
	HardWraps bool
	// Unsafe passes raw HTML in the body through to the output.
	// Note bodies are author-controlled, so this defaults on in the CLI.
	Unsafe bool
}

// New constructs a renderer. GFM, autolinks, and task lists are always
// on; note bodies in the wild use all three.
func New(opts Options) *Renderer {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOptions...),
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		),
	)

	return &Renderer{md: md}
}

// Render converts markdown to an HTML fragment.
func (r *Renderer) Render(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderNote renders a note body and pairs it with the note's layout
// and title for the consuming generator.
func (r *Renderer) RenderNote(n core.Note) (Fragment, error) {
	out, err := r.Render([]byte(n.Body))
	if err != nil {
		return Fragment{}, fmt.Errorf("render note %s: %w", n.ID, err)
	}
	return Fragment{
		ID:     n.ID,
		Title:  n.Title,
		Layout: n.Layout,
		HTML:   out,
	}, nil
}
