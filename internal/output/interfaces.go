// Package output is the console output layer shared by the bridge and its CLI.
// A Printer writes lines tagged with a semantic type; how a type looks is
// decided by an injected StyleProvider, so the same calls produce themed
// terminal output, plain text with markers, or JSON events.
package output

// StyleProvider supplies styles for semantic output types.
type StyleProvider interface {
	// GetStyle returns the style for a semantic type ("info", "command", ...).
	GetStyle(semantic string) TextStyle

	// IsAvailable reports whether the provider can style text right now.
	IsAvailable() bool

	// GetThemeType names the glamour style used for markdown ("dark", "light", "notty").
	GetThemeType() string
}

// TextStyle renders text with styling.
type TextStyle interface {
	Render(text string) string
}

// SemanticType names the meaning of a piece of output.
type SemanticType string

const (
	SemanticPlain   SemanticType = "plain"
	SemanticInfo    SemanticType = "info"
	SemanticSuccess SemanticType = "success"
	SemanticWarning SemanticType = "warning"
	SemanticError   SemanticType = "error"

	// SemanticCommand marks a command name.
	SemanticCommand SemanticType = "command"
	// SemanticParam marks a parameter name.
	SemanticParam SemanticType = "param"
	// SemanticKey marks a context key or map key.
	SemanticKey SemanticType = "key"

	SemanticHighlight SemanticType = "highlight"
	SemanticBold      SemanticType = "bold"
	SemanticMuted     SemanticType = "muted"
	SemanticCode      SemanticType = "code"
)
