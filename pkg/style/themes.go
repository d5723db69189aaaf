package style

import (
	_ "embed"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

//go:embed embedded/theme.yaml
var themeYAML []byte

// ColorDef is an adaptive color as written in theme.yaml
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// Theme is the parsed theme.yaml
type Theme struct {
	Colors map[string]ColorDef `yaml:"colors"`
}

// Palette colors, filled from the embedded theme
var (
	HeaderColor  = lipgloss.AdaptiveColor{Light: "#9D4EDD", Dark: "#C77DFF"}
	SuccessColor = lipgloss.AdaptiveColor{Light: "#28A745", Dark: "#4CDD76"}
	WarningColor = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFD54F"}
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#DC3545", Dark: "#FF6B7D"}
	PromptColor  = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFD54F"}
	MutedColor   = lipgloss.AdaptiveColor{Light: "#6C757D", Dark: "#ADB5BD"}
	PathColor    = lipgloss.AdaptiveColor{Light: "#007ACC", Dark: "#3D9EFF"}
)

func init() {
	theme, err := ParseTheme(themeYAML)
	if err != nil {
		return
	}
	theme.apply()
}

// ParseTheme decodes a theme document
func ParseTheme(data []byte) (*Theme, error) {
	var theme Theme
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, err
	}
	return &theme, nil
}

// Color returns the named color, or fallback when the theme does not define it
func (t *Theme) Color(name string, fallback lipgloss.AdaptiveColor) lipgloss.AdaptiveColor {
	def, ok := t.Colors[name]
	if !ok || def.Light == "" || def.Dark == "" {
		return fallback
	}
	return lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
}

func (t *Theme) apply() {
	HeaderColor = t.Color("header", HeaderColor)
	SuccessColor = t.Color("success", SuccessColor)
	WarningColor = t.Color("warning", WarningColor)
	ErrorColor = t.Color("error", ErrorColor)
	PromptColor = t.Color("prompt", PromptColor)
	MutedColor = t.Color("muted", MutedColor)
	PathColor = t.Color("path", PathColor)
	rebuildStyles()
}
