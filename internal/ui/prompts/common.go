package prompts

import (
	"context"
	"strings"

	"github.com/charmbracelet/huh"
)

// PromptAmount prompts for an amount with custom validation
func PromptAmount(message string, helpText string, validator func(string) error) (string, error) {
	var amount string

	input := huh.NewInput().
		Title(message).
		Description(helpText).
		Value(&amount)

	if validator != nil {
		input.Validate(validator)
	}

	err := input.Run()
	return strings.TrimSpace(amount), err
}

// PromptSelect prompts for a selection from a list of options. The prompt
// is closed early when ctx is cancelled.
func PromptSelect(ctx context.Context, message string, options []string, defaultOption string) (string, error) {
	selected := defaultOption

	var opts []huh.Option[string]
	for _, o := range options {
		opts = append(opts, huh.NewOption(o, o))
	}

	field := huh.NewSelect[string]().
		Title(message).
		Options(opts...).
		Value(&selected)

	err := huh.NewForm(huh.NewGroup(field)).RunWithContext(ctx)
	return selected, err
}
