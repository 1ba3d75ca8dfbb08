package cli

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"bridges/internal/logger"
	"bridges/internal/output"
)

//go:embed themes/*.yaml
var themeFiles embed.FS

// StyleConfig is the YAML form of one style.
type StyleConfig struct {
	// Foreground is a color string or a {light, dark} adaptive color.
	Foreground    interface{} `yaml:"foreground,omitempty"`
	Background    interface{} `yaml:"background,omitempty"`
	Bold          *bool       `yaml:"bold,omitempty"`
	Italic        *bool       `yaml:"italic,omitempty"`
	Underline     *bool       `yaml:"underline,omitempty"`
	Strikethrough *bool       `yaml:"strikethrough,omitempty"`
}

// ThemeConfig is the YAML form of a theme file.
type ThemeConfig struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description"`
	Styles      map[string]StyleConfig `yaml:"styles"`
}

// Theme maps semantic output types to lipgloss styles. It implements
// output.StyleProvider.
type Theme struct {
	Name   string
	styles map[string]lipgloss.Style
}

// lipglossStyle adapts lipgloss.Style to output.TextStyle.
type lipglossStyle struct {
	style lipgloss.Style
}

func (s lipglossStyle) Render(text string) string { return s.style.Render(text) }

// GetStyle implements output.StyleProvider.
func (t *Theme) GetStyle(semantic string) output.TextStyle {
	if style, ok := t.styles[semantic]; ok {
		return lipglossStyle{style: style}
	}
	return lipglossStyle{style: lipgloss.NewStyle()}
}

// IsAvailable implements output.StyleProvider.
func (t *Theme) IsAvailable() bool { return true }

// GetThemeType returns the glamour style matching the theme.
func (t *Theme) GetThemeType() string {
	switch t.Name {
	case "dark", "light":
		return t.Name
	default:
		if output.HasDarkBackground() {
			return "dark"
		}
		return "light"
	}
}

// ThemeNames lists the embedded themes.
func ThemeNames() []string {
	entries, err := themeFiles.ReadDir("themes")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// LoadTheme loads an embedded theme by name.
func LoadTheme(name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	data, err := themeFiles.ReadFile("themes/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(ThemeNames(), ", "))
	}
	return ParseTheme(data)
}

// ParseTheme builds a theme from YAML.
func ParseTheme(data []byte) (*Theme, error) {
	var cfg ThemeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	theme := &Theme{Name: cfg.Name, styles: make(map[string]lipgloss.Style, len(cfg.Styles))}
	for semantic, sc := range cfg.Styles {
		theme.styles[semantic] = createStyle(sc)
	}
	return theme, nil
}

// NewStyleProvider picks the printer styling: the named theme when styling
// is wanted and the terminal supports color, plain text otherwise. An
// unknown theme falls back to plain text.
func NewStyleProvider(themeName string, plain bool) output.StyleProvider {
	if plain || themeName == "plain" || !output.SupportsColor() {
		return output.NewPlainStyleProvider()
	}
	theme, err := LoadTheme(themeName)
	if err != nil {
		logger.Warn("Failed to load theme, using plain output", "theme", themeName, "error", err)
		return output.NewPlainStyleProvider()
	}
	return theme
}

func createStyle(config StyleConfig) lipgloss.Style {
	style := lipgloss.NewStyle()

	if config.Foreground != nil {
		if color := parseColor(config.Foreground); color != nil {
			style = style.Foreground(color)
		}
	}
	if config.Background != nil {
		if color := parseColor(config.Background); color != nil {
			style = style.Background(color)
		}
	}

	if config.Bold != nil && *config.Bold {
		style = style.Bold(true)
	}
	if config.Italic != nil && *config.Italic {
		style = style.Italic(true)
	}
	if config.Underline != nil && *config.Underline {
		style = style.Underline(true)
	}
	if config.Strikethrough != nil && *config.Strikethrough {
		style = style.Strikethrough(true)
	}

	return style
}

// parseColor accepts a color string or a map with light and dark keys.
func parseColor(value interface{}) lipgloss.TerminalColor {
	switch v := value.(type) {
	case string:
		return lipgloss.Color(v)
	case map[string]interface{}:
		light, hasLight := v["light"].(string)
		dark, hasDark := v["dark"].(string)
		if hasLight && hasDark {
			return lipgloss.AdaptiveColor{Light: light, Dark: dark}
		}
		return nil
	default:
		return nil
	}
}
