package style

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/pterm/pterm"
)

const ruleWidth = 50

// Printer writes the user-facing progress lines of a run. Logs are separate
// and go through zerolog.
type Printer struct {
	out  io.Writer
	rich bool
}

// NewPrinter creates a printer writing to out. FormatAuto is treated as
// plain text because out is not necessarily a terminal.
func NewPrinter(out io.Writer, format Format) *Printer {
	return &Printer{out: out, rich: format == FormatTerminal}
}

// Header prints a section banner
func (p *Printer) Header(title string) {
	rule := strings.Repeat("=", ruleWidth)
	if p.rich {
		rule = HeaderStyle.Render(rule)
		title = HeaderStyle.Render(title)
	}
	fmt.Fprintf(p.out, "\n%s\n %s\n%s\n", rule, title, rule)
}

// Line prints an unstyled line
func (p *Printer) Line(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Success prints a completed step
func (p *Printer) Success(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if p.rich {
		msg = pterm.Success.Sprint(SuccessStyle.Render(msg))
	}
	fmt.Fprintln(p.out, msg)
}

// Warning prints a non-fatal problem
func (p *Printer) Warning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if p.rich {
		msg = pterm.Warning.Sprint(WarningStyle.Render(msg))
	}
	fmt.Fprintln(p.out, msg)
}

// Error prints a failure
func (p *Printer) Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if p.rich {
		msg = pterm.Error.Sprint(ErrorStyle.Render(msg))
	}
	fmt.Fprintln(p.out, msg)
}

// DryRun prints an action that a dry run skipped
func (p *Printer) DryRun(format string, args ...interface{}) {
	msg := "[DRY RUN] " + fmt.Sprintf(format, args...)
	if p.rich {
		msg = WarningStyle.Render(msg)
	}
	fmt.Fprintln(p.out, msg)
}

// Prompt styles a question shown before reading input
func (p *Printer) Prompt(text string) string {
	if p.rich {
		return PromptStyle.Render(text)
	}
	return text
}

// Danger styles a destructive menu entry
func (p *Printer) Danger(text string) string {
	if p.rich {
		return ErrorStyle.Render(text)
	}
	return text
}

// Path styles a filesystem path
func (p *Printer) Path(path string) string {
	if p.rich {
		return PathStyle.Render(path)
	}
	return path
}

// Note renders a markdown block. Plain output prints the source unchanged.
func (p *Printer) Note(markdown string) {
	if p.rich {
		if rendered, err := renderMarkdown(markdown); err == nil {
			fmt.Fprint(p.out, rendered)
			return
		}
	}
	fmt.Fprintln(p.out, strings.TrimRight(markdown, "\n"))
}

func renderMarkdown(markdown string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(markdown)
}
