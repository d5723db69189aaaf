// Package prompt reads a single constrained choice from the user.
//
// On a terminal the choice is read as one keystroke in raw mode; the prior
// terminal state is restored on every return path. When raw mode is not
// available the prompt falls back to reading whole lines.
//
// Input is consumed one byte at a time and never buffered, so anything typed
// ahead of the answer is left for the commands the installer runs next.
package prompt

import (
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rengeos/house-overlay/pkg/errors"
	"github.com/rengeos/house-overlay/pkg/logging"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const (
	keyInterrupt = 0x03 // Ctrl-C
	keyEOF       = 0x04 // Ctrl-D

	invalidInput = "Invalid input."
)

// Prompter asks a question and returns one of the supplied options
type Prompter interface {
	Choose(question string, options []string) (string, error)
}

// RawMode switches a terminal into and out of raw mode
type RawMode interface {
	IsTerminal(fd int) bool
	MakeRaw(fd int) (*term.State, error)
	Restore(fd int, state *term.State) error
}

type termRawMode struct{}

func (termRawMode) IsTerminal(fd int) bool                  { return term.IsTerminal(fd) }
func (termRawMode) MakeRaw(fd int) (*term.State, error)     { return term.MakeRaw(fd) }
func (termRawMode) Restore(fd int, state *term.State) error { return term.Restore(fd, state) }

// Option configures a Terminal prompter
type Option func(*Terminal)

// WithRawMode overrides the descriptor and raw mode implementation
func WithRawMode(fd int, raw RawMode) Option {
	return func(t *Terminal) {
		t.fd = fd
		t.raw = raw
	}
}

// WithInvalidDecorator styles the message printed for rejected lines
func WithInvalidDecorator(decorate func(string) string) Option {
	return func(t *Terminal) {
		t.decorateInvalid = decorate
	}
}

// Terminal is the interactive Prompter
type Terminal struct {
	in  io.Reader
	out io.Writer

	fd  int
	raw RawMode

	decorateInvalid func(string) string

	logger zerolog.Logger
}

// NewTerminal creates a prompter reading from in. Raw mode is attempted only
// when in is an *os.File attached to a terminal.
func NewTerminal(in io.Reader, out io.Writer, opts ...Option) *Terminal {
	t := &Terminal{
		in:              in,
		out:             out,
		fd:              -1,
		raw:             termRawMode{},
		decorateInvalid: identity,
		logger:          logging.GetLogger("prompt"),
	}
	if f, ok := in.(*os.File); ok {
		t.fd = int(f.Fd())
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func identity(s string) string { return s }

// Choose implements Prompter. The returned value is always an element of
// options, matched case-insensitively.
func (t *Terminal) Choose(question string, options []string) (string, error) {
	if err := validateOptions(options); err != nil {
		return "", err
	}

	if t.fd >= 0 && t.raw.IsTerminal(t.fd) {
		state, err := t.raw.MakeRaw(t.fd)
		if err == nil {
			return t.chooseRaw(question, options, state)
		}
		t.logger.Debug().Err(err).Msg("Raw mode unavailable, reading lines")
	}

	return t.chooseLine(question, options)
}

func (t *Terminal) chooseRaw(question string, options []string, state *term.State) (string, error) {
	defer func() {
		if err := t.raw.Restore(t.fd, state); err != nil {
			t.logger.Warn().Err(err).Msg("Failed to restore terminal state")
		}
	}()

	if _, err := io.WriteString(t.out, question); err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to write prompt")
	}

	for {
		r, err := t.readRune()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrInputClosed, "input closed while waiting for a choice")
		}

		if r == keyInterrupt || r == keyEOF {
			_, _ = io.WriteString(t.out, "\r\n")
			return "", errors.New(errors.ErrInterrupted, "prompt interrupted")
		}

		if choice, ok := match(string(r), options); ok {
			_, _ = io.WriteString(t.out, string(r)+"\r\n")
			return choice, nil
		}
	}
}

func (t *Terminal) chooseLine(question string, options []string) (string, error) {
	for {
		if _, err := io.WriteString(t.out, question); err != nil {
			return "", errors.Wrap(err, errors.ErrInternal, "failed to write prompt")
		}

		line, err := t.readLine()
		if line != "" {
			if choice, ok := match(strings.TrimRight(line, "\r\n"), options); ok {
				return choice, nil
			}
		}
		if err != nil {
			if line != "" {
				_, _ = io.WriteString(t.out, "\n")
			}
			return "", errors.Wrap(err, errors.ErrInputClosed, "input closed while waiting for a choice")
		}

		_, _ = io.WriteString(t.out, t.decorateInvalid(invalidInput)+"\n")
	}
}

func (t *Terminal) readByte() (byte, error) {
	var b [1]byte
	for {
		n, err := t.in.Read(b[:])
		if n == 1 {
			return b[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}

func (t *Terminal) readRune() (rune, error) {
	b, err := t.readByte()
	if err != nil {
		return 0, err
	}
	if b < utf8.RuneSelf {
		return rune(b), nil
	}
	buf := []byte{b}
	for !utf8.FullRune(buf) {
		next, err := t.readByte()
		if err != nil {
			return 0, err
		}
		buf = append(buf, next)
	}
	r, _ := utf8.DecodeRune(buf)
	return r, nil
}

// readLine returns the next line including its newline; a final line
// without one is returned together with the read error
func (t *Terminal) readLine() (string, error) {
	var line []byte
	for {
		b, err := t.readByte()
		if err != nil {
			return string(line), err
		}
		line = append(line, b)
		if b == '\n' {
			return string(line), nil
		}
	}
}

// Confirm asks a yes/no question
func Confirm(p Prompter, question string) (bool, error) {
	answer, err := p.Choose(question, []string{"y", "n"})
	if err != nil {
		return false, err
	}
	return answer == "y", nil
}

func validateOptions(options []string) error {
	if len(options) == 0 {
		return errors.New(errors.ErrInvalidInput, "prompt requires at least one option")
	}
	for _, opt := range options {
		if utf8.RuneCountInString(opt) != 1 {
			return errors.Newf(errors.ErrInvalidInput, "option %q must be a single character", opt).
				WithDetail("option", opt)
		}
	}
	return nil
}

func match(input string, options []string) (string, bool) {
	for _, opt := range options {
		if strings.EqualFold(input, opt) {
			return opt, true
		}
	}
	return "", false
}
