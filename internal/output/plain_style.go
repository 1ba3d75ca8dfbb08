package output

// plainMarkers prefix status lines when no styling is available.
var plainMarkers = map[SemanticType]string{
	SemanticSuccess: "✓ ",
	SemanticWarning: "⚠ ",
	SemanticError:   "✗ ",
	SemanticInfo:    "ℹ ",
}

type markerStyle string

func (m markerStyle) Render(text string) string { return string(m) + text }

type codeStyle struct{}

func (codeStyle) Render(text string) string { return "`" + text + "`" }

// PlainStyleProvider styles output for terminals without color: status
// lines get a marker, inline code gets backticks, everything else is
// left alone.
type PlainStyleProvider struct{}

// NewPlainStyleProvider creates a plain style provider.
func NewPlainStyleProvider() *PlainStyleProvider {
	return &PlainStyleProvider{}
}

// GetStyle implements StyleProvider.
func (*PlainStyleProvider) GetStyle(semantic string) TextStyle {
	if SemanticType(semantic) == SemanticCode {
		return codeStyle{}
	}
	return markerStyle(plainMarkers[SemanticType(semantic)])
}

// IsAvailable implements StyleProvider.
func (*PlainStyleProvider) IsAvailable() bool { return true }

// GetThemeType implements StyleProvider.
func (*PlainStyleProvider) GetThemeType() string { return "notty" }

var plainStyles = NewPlainStyleProvider()
