package style_test

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/rengeos/house-overlay/pkg/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	p := style.NewPrinter(&buf, style.FormatText)

	p.Header("Final Setup")
	p.Success("Copied '%s'.", "niri")
	p.Warning("Warning: '%s' already exists.", "/home/u/.config/niri")
	p.Error("Error copying '%s'", "kitty")
	p.DryRun("Would execute: %s", "git clone")
	p.Note("Note: Dependencies were NOT removed.")

	out := buf.String()
	assert.Contains(t, out, "==================================================\n Final Setup\n")
	assert.Contains(t, out, "Copied 'niri'.\n")
	assert.Contains(t, out, "Warning: '/home/u/.config/niri' already exists.\n")
	assert.Contains(t, out, "Error copying 'kitty'\n")
	assert.Contains(t, out, "[DRY RUN] Would execute: git clone\n")
	assert.Contains(t, out, "Note: Dependencies were NOT removed.\n")
	assert.NotContains(t, out, "\x1b[", "plain output has no escape sequences")
}

func TestPrinter_PlainDecorationsAreIdentity(t *testing.T) {
	p := style.NewPrinter(&bytes.Buffer{}, style.FormatText)

	assert.Equal(t, "Select an option: ", p.Prompt("Select an option: "))
	assert.Equal(t, "2: Uninstall", p.Danger("2: Uninstall"))
	assert.Equal(t, "/tmp/x", p.Path("/tmp/x"))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected style.Format
		wantErr  bool
	}{
		{"", style.FormatAuto, false},
		{"auto", style.FormatAuto, false},
		{"terminal", style.FormatTerminal, false},
		{"TERM", style.FormatTerminal, false},
		{"plain", style.FormatText, false},
		{"json", style.FormatAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := style.ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	assert.Equal(t, "text", style.FormatText.String())
	assert.Equal(t, "unknown", style.Format(42).String())
}

func TestParseTheme(t *testing.T) {
	theme, err := style.ParseTheme([]byte(`
colors:
  header:
    light: "#000000"
    dark: "#FFFFFF"
  muted:
    light: "#111111"
`))
	require.NoError(t, err)

	fallback := lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#BBBBBB"}
	assert.Equal(t, lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}, theme.Color("header", fallback))
	assert.Equal(t, fallback, theme.Color("muted", fallback), "incomplete definitions fall back")
	assert.Equal(t, fallback, theme.Color("missing", fallback))

	_, err = style.ParseTheme([]byte("colors: [unclosed"))
	assert.Error(t, err)
}
