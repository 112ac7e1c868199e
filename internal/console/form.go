package console

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/huh"
)

// Form prompts with interactive huh fields.
type Form struct{}

// NewForm creates a form console. It needs a terminal on stdin.
func NewForm() *Form {
	return &Form{}
}

func (f *Form) Prompt(ctx context.Context, message string) (string, error) {
	var answer string
	input := huh.NewInput().
		Title(message).
		Value(&answer)

	if err := run(ctx, input); err != nil {
		return "", err
	}
	return answer, nil
}

func (f *Form) Choose(ctx context.Context, title string, choices []Choice) (string, error) {
	options := make([]huh.Option[string], len(choices))
	for i, c := range choices {
		options[i] = huh.NewOption(c.Label, c.Key)
	}

	var key string
	sel := huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(&key)

	if err := run(ctx, sel); err != nil {
		return "", err
	}
	return key, nil
}

func run(ctx context.Context, field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return io.EOF
	}
	return err
}
