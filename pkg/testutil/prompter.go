package testutil

import (
	"strings"

	"github.com/rengeos/house-overlay/pkg/errors"
)

// ScriptedPrompter implements prompt.Prompter from a fixed list of answers
type ScriptedPrompter struct {
	answers   []string
	Questions []string
}

// NewScriptedPrompter answers prompts in the given order
func NewScriptedPrompter(answers ...string) *ScriptedPrompter {
	return &ScriptedPrompter{answers: answers}
}

// Choose implements prompt.Prompter. An answer outside options is a test
// bug and is reported as INVALID_INPUT.
func (s *ScriptedPrompter) Choose(question string, options []string) (string, error) {
	s.Questions = append(s.Questions, question)
	if len(s.answers) == 0 {
		return "", errors.Newf(errors.ErrInputClosed, "no scripted answer for %q", question)
	}

	answer := s.answers[0]
	s.answers = s.answers[1:]
	for _, opt := range options {
		if strings.EqualFold(opt, answer) {
			return opt, nil
		}
	}
	return "", errors.Newf(errors.ErrInvalidInput, "scripted answer %q not in %v", answer, options)
}

// Remaining returns the answers not consumed yet
func (s *ScriptedPrompter) Remaining() []string {
	return s.answers
}
