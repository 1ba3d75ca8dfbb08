package output

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders markdown documents (command help, descriptions)
// for the terminal with glamour.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer themed after the style provider.
// It falls back to auto-detection, then to the dark theme.
func NewMarkdownRenderer(styleProvider StyleProvider) *MarkdownRenderer {
	themeStyle := "auto"
	if styleProvider != nil && styleProvider.IsAvailable() {
		themeStyle = styleProvider.GetThemeType()
	}

	var renderer *glamour.TermRenderer
	var err error

	if themeStyle != "" && themeStyle != "auto" {
		renderer, err = glamour.NewTermRenderer(
			glamour.WithStylePath(themeStyle),
			glamour.WithWordWrap(80),
		)
	}

	if renderer == nil || err != nil {
		renderer, err = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
			glamour.WithEnvironmentConfig(),
		)
	}

	if err != nil {
		renderer, err = glamour.NewTermRenderer(
			glamour.WithStylePath("dark"),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			renderer = nil
		}
	}

	return &MarkdownRenderer{renderer: renderer}
}

// Render renders doc. Without a working glamour renderer the document is
// returned unchanged.
func (m *MarkdownRenderer) Render(doc string) (string, error) {
	if m.renderer == nil {
		return doc, nil
	}
	rendered, err := m.renderer.Render(doc)
	if err != nil {
		return "", err
	}
	return strings.Trim(rendered, "\n"), nil
}
