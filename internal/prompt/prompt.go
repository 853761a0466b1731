package prompt

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
)

// ErrNoDefault is returned in non-interactive mode for a question that
// has no default answer to fall back on
var ErrNoDefault = errors.New("question has no default answer in non-interactive mode")

// Prompter collects interactive answers. Every user question flows
// through this interface so non-interactive runs stay predictable.
type Prompter interface {
	Select(message string, options []string, defaultValue string) (string, error)
	Input(message, defaultValue string) (string, error)
	Confirm(message string, defaultYes bool) (bool, error)
}

// New returns the terminal prompter, or the non-interactive one when
// assumeYes is set or stdin is not a terminal
func New(assumeYes bool) Prompter {
	if assumeYes || !isatty.IsTerminal(os.Stdin.Fd()) {
		return &nonInteractive{}
	}
	return &surveyPrompter{}
}

// surveyPrompter asks through survey's terminal UI
type surveyPrompter struct{}

func (p *surveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	if defaultValue != "" {
		prompt.Default = defaultValue
	}

	var answer string
	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", fmt.Errorf("failed to read selection: %w", err)
	}
	return answer, nil
}

func (p *surveyPrompter) Input(message, defaultValue string) (string, error) {
	var answer string
	if err := survey.AskOne(&survey.Input{Message: message, Default: defaultValue}, &answer); err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return answer, nil
}

func (p *surveyPrompter) Confirm(message string, defaultYes bool) (bool, error) {
	answer := defaultYes
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: defaultYes}, &answer); err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return answer, nil
}

// nonInteractive answers every question with its default. Selects with
// no default cannot be answered and error out; empty inputs are valid
// answers for optional questions.
type nonInteractive struct{}

func (p *nonInteractive) Select(message string, options []string, defaultValue string) (string, error) {
	if defaultValue == "" {
		return "", fmt.Errorf("%w: %q", ErrNoDefault, message)
	}
	return defaultValue, nil
}

func (p *nonInteractive) Input(message, defaultValue string) (string, error) {
	return defaultValue, nil
}

func (p *nonInteractive) Confirm(message string, defaultYes bool) (bool, error) {
	return defaultYes, nil
}

// ConfirmOverwrite asks before replacing a file webship generated
func ConfirmOverwrite(p Prompter, path string) (bool, error) {
	return p.Confirm(fmt.Sprintf("Overwrite %s?", path), false)
}
