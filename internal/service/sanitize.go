package service

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer converts submitted comment bodies (markdown) into sanitized
// HTML. The sanitized output is what gets stored; raw input is never
// persisted.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	return &Renderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

func (r *Renderer) Render(text string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("failed to render comment body: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}
